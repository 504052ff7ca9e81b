// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apalominor/lakehouse-challenge/internal/config"
	"github.com/apalominor/lakehouse-challenge/internal/dataset"
	"github.com/apalominor/lakehouse-challenge/internal/job"
	"github.com/apalominor/lakehouse-challenge/internal/logger"
	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/render"
	"github.com/apalominor/lakehouse-challenge/internal/schema"
	"github.com/apalominor/lakehouse-challenge/internal/session"
	"github.com/apalominor/lakehouse-challenge/internal/storage"
)

type describeOptions struct {
	format string
	output string
}

func newDescribeCmd(renderers render.Register, getenv func(string) string) *cobra.Command {
	opts := &describeOptions{}

	cmd := &cobra.Command{
		Use:   "describe [file.csv...]",
		Short: "Infer and print the schema of CSV input",
		Long: fmt.Sprintf(`Infer the schema of CSV input and print it without writing anything.
Local files given as arguments are read directly; without arguments the
configured input path is read from object storage.

Available formats: %s`, strings.Join(renderers.Available(), ", ")),
		Example: `  # Print the manifest for a local file
  lakejob describe customers.csv

  # Print Spark DDL for the configured input
  lakejob describe --format spark-sql

  # Write a JSON Schema next to the data
  lakejob describe customers.csv --format jsonschema --output customers.schema.json`,
		PreRunE: session.PreRunLoad(getenv),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, renderers, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "yaml", fmt.Sprintf("Output format (%s)", strings.Join(renderers.Available(), ", ")))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to this file instead of stdout")
	addJobFlags(cmd, "source-bucket", "input-path", "table", "description", "partition-column", "type-match", "local-root")

	return cmd
}

func runDescribe(cmd *cobra.Command, renderers render.Register, opts *describeOptions, args []string) error {
	sc, err := session.RequireFromCommand(cmd)
	if err != nil {
		return err
	}
	cfg := sc.Config
	if err := applyJobFlags(cmd, cfg); err != nil {
		return err
	}
	r, err := renderers.Get(opts.format)
	if err != nil {
		return err
	}
	mode, err := schema.ParseMatchMode(cfg.TypeMatch)
	if err != nil {
		return err
	}

	ds, err := describeInput(cmd, cfg, args)
	if err != nil {
		return err
	}
	defer ds.Release()

	fields := make([]schema.NativeField, 0, len(ds.Fields()))
	for _, f := range ds.Fields() {
		fields = append(fields, schema.NativeField{Name: f.Name, NativeType: f.NativeType})
	}
	m := manifest.Build(job.ManifestOptions(cfg), schema.NewMapper(schema.DefaultRules, mode).Describe(fields))

	out, err := r.Render(m)
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil { //nolint:gosec // output is user-provided
		return fmt.Errorf("failed to write %s: %w", opts.output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s schema to %s\n", opts.format, opts.output)
	return nil
}

func describeInput(cmd *cobra.Command, cfg *config.Job, args []string) (*dataset.Dataset, error) {
	if len(args) > 0 {
		sources := make([]dataset.Source, 0, len(args))
		for _, a := range args {
			f, err := os.Open(a) //nolint:gosec // path is provided by user
			if err != nil {
				return nil, err
			}
			defer f.Close() //nolint:errcheck
			sources = append(sources, dataset.Source{Name: a, Reader: f})
		}
		return dataset.ReadCSV(nil, dataset.CSVOptions{InferSchema: true}, sources...)
	}

	if cfg.InputPath == "" {
		return nil, fmt.Errorf("no input: pass CSV files or set input_path")
	}
	loc, err := storage.ParseLocation(cfg.InputPath, cfg.SourceBucket)
	if err != nil {
		return nil, err
	}
	store := storage.StoreFor(loc, nil)
	if store == nil {
		b := &backends{cfg: cfg, log: logger.NopLogger}
		if store, err = b.store(); err != nil {
			return nil, err
		}
	}
	ds, _, err := job.ReadInput(cmd.Context(), store, loc, nil)
	return ds, err
}
