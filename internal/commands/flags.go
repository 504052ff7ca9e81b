// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/apalominor/lakehouse-challenge/internal/config"
	"github.com/apalominor/lakehouse-challenge/internal/logger"
)

type jobFlag struct {
	name   string
	usage  string
	target func(*config.Job) *string
}

var jobFlags = []jobFlag{
	{"job-name", "Job name, used for run records", func(c *config.Job) *string { return &c.JobName }},
	{"source-bucket", "Bucket holding the CSV input", func(c *config.Job) *string { return &c.SourceBucket }},
	{"destination-bucket", "Bucket receiving the manifest, table and run records", func(c *config.Job) *string { return &c.DestinationBucket }},
	{"input-path", "CSV object or prefix, s3://bucket/key or a key in the source bucket", func(c *config.Job) *string { return &c.InputPath }},
	{"output-path", "Table root, s3://bucket/prefix or a prefix in the destination bucket", func(c *config.Job) *string { return &c.OutputPath }},
	{"database-name", "Catalog database", func(c *config.Job) *string { return &c.DatabaseName }},
	{"table", "Table and dataset name", func(c *config.Job) *string { return &c.Table }},
	{"description", "Dataset description", func(c *config.Job) *string { return &c.Description }},
	{"partition-column", "Column partitioned by, cast to date", func(c *config.Job) *string { return &c.PartitionColumn }},
	{"record-key", "Column identifying a record", func(c *config.Job) *string { return &c.RecordKey }},
	{"precombine-field", "Ingestion timestamp column used to pick between duplicates", func(c *config.Job) *string { return &c.PrecombineField }},
	{"write-mode", "overwrite or upsert", func(c *config.Job) *string { return &c.WriteMode }},
	{"manifest-order", "first or last", func(c *config.Job) *string { return &c.ManifestOrder }},
	{"type-match", "substring or exact", func(c *config.Job) *string { return &c.TypeMatch }},
	{"catalog", "glue or sql", func(c *config.Job) *string { return &c.Catalog.Type }},
	{"catalog-driver", "SQL metastore driver: sqlite, postgres or mysql", func(c *config.Job) *string { return &c.Catalog.Driver }},
	{"catalog-dsn", "SQL metastore data source name", func(c *config.Job) *string { return &c.Catalog.DSN }},
	{"local-root", "Serve buckets from directories below this path instead of S3", func(c *config.Job) *string { return &c.Storage.LocalRoot }},
	{"pushgateway", "Prometheus Pushgateway URL", func(c *config.Job) *string { return &c.Metrics.Pushgateway }},
}

// addJobFlags registers the named job flags, or all of them when names is empty.
func addJobFlags(cmd *cobra.Command, names ...string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for _, f := range jobFlags {
		if len(names) == 0 || want[f.name] {
			cmd.Flags().String(f.name, "", f.usage)
		}
	}
}

// applyJobFlags copies every job flag set on the command line into cfg.
func applyJobFlags(cmd *cobra.Command, cfg *config.Job) error {
	for _, f := range jobFlags {
		fl := cmd.Flags().Lookup(f.name)
		if fl == nil || !fl.Changed {
			continue
		}
		v, err := cmd.Flags().GetString(f.name)
		if err != nil {
			return err
		}
		*f.target(cfg) = v
	}
	return nil
}

func newLogger(cmd *cobra.Command, w io.Writer) logger.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return logger.NewVerboseLogger(w)
	}
	return logger.NewStandardLogger(w)
}
