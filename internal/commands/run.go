// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apalominor/lakehouse-challenge/internal/job"
	"github.com/apalominor/lakehouse-challenge/internal/prompts"
	"github.com/apalominor/lakehouse-challenge/internal/session"
)

func newRunCmd(getenv func(string) string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ingestion job",
		Long: `Read the CSV input, publish the schema manifest, write the table and
sync the catalog. Values come from the config file, then LAKEJOB_*
environment variables, then flags.

The job refuses to start while any of job name, source bucket, destination
bucket, input path, output path, database name or write mode is missing.`,
		Example: `  # Run from ./lakejob.yaml
  lakejob run

  # Run with every invocation parameter on the command line
  lakejob run --job-name customers --source-bucket raw --destination-bucket curated \
    --input-path customers/ --output-path hudi --database-name analytics --write-mode upsert

  # Run against local directories and a SQLite metastore
  lakejob run -c lakejob.yaml --local-root ./buckets --catalog sql \
    --catalog-driver sqlite --catalog-dsn ./catalog.db`,
		Args:    cobra.NoArgs,
		PreRunE: session.PreRunLoad(getenv),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd)
		},
	}
	addJobFlags(cmd)
	return cmd
}

func runRun(cmd *cobra.Command) error {
	sc, err := session.RequireFromCommand(cmd)
	if err != nil {
		return err
	}
	cfg := sc.Config
	if err := applyJobFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := cmd.Context()
	log := newLogger(cmd, cmd.ErrOrStderr())
	b := &backends{cfg: cfg, log: log}
	store, err := b.store()
	if err != nil {
		return err
	}
	cat, err := b.catalog(ctx)
	if err != nil {
		return err
	}
	defer cat.Close() //nolint:errcheck

	j, err := job.New(cfg, store, cat, job.WithLogger(log))
	if err != nil {
		return err
	}
	res, err := j.Run(ctx)
	if err != nil {
		return err
	}

	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Run", Value: res.RunID},
		{Label: "Rows read", Value: strconv.FormatInt(res.RowsRead, 10)},
		{Label: "Rows written", Value: strconv.FormatInt(res.RowsWritten, 10)},
		{Label: "Partitions", Value: strings.Join(res.Partitions, ", ")},
		{Label: "Manifest", Value: res.Manifest},
		{Label: "Table", Value: res.Table + " at " + res.TableLocation},
	}, "Job completed")
	return nil
}
