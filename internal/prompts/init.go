// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"github.com/charmbracelet/huh"

	"github.com/apalominor/lakehouse-challenge/internal/config"
)

// RunInitForm runs the interactive form for the init command, filling cfg.
// Fields already set in cfg are offered as the initial answers.
func RunInitForm(cfg *config.Job) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Job name").
				Validate(identifierValidator("job name")).
				Value(&cfg.JobName),
			huh.NewInput().
				Title("Source bucket").
				Validate(requiredValidator("source bucket")).
				Value(&cfg.SourceBucket),
			huh.NewInput().
				Title("Input path").
				Placeholder("customers/").
				Validate(requiredValidator("input path")).
				Value(&cfg.InputPath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Destination bucket").
				Validate(requiredValidator("destination bucket")).
				Value(&cfg.DestinationBucket),
			huh.NewInput().
				Title("Output path").
				Placeholder("hudi").
				Validate(requiredValidator("output path")).
				Value(&cfg.OutputPath),
			huh.NewInput().
				Title("Database name").
				Validate(identifierValidator("database name")).
				Value(&cfg.DatabaseName),
			huh.NewInput().
				Title("Table name").
				Validate(identifierValidator("table name")).
				Value(&cfg.Table),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Write mode").
				Options(
					huh.NewOption("Upsert (merge by record key)", config.WriteModeUpsert),
					huh.NewOption("Overwrite (replace the table)", config.WriteModeOverwrite),
				).
				Value(&cfg.WriteMode),
			huh.NewSelect[string]().
				Title("Publish the schema manifest").
				Options(
					huh.NewOption("Before writing the table", config.ManifestFirst),
					huh.NewOption("After the table and catalog succeed", config.ManifestLast),
				).
				Value(&cfg.ManifestOrder),
			huh.NewSelect[string]().
				Title("Catalog").
				Options(
					huh.NewOption("AWS Glue", config.CatalogGlue),
					huh.NewOption("SQL metastore", config.CatalogSQL),
				).
				Value(&cfg.Catalog.Type),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Metastore driver").
				Options(
					huh.NewOption("SQLite", "sqlite"),
					huh.NewOption("PostgreSQL", "postgres"),
					huh.NewOption("MySQL", "mysql"),
				).
				Value(&cfg.Catalog.Driver),
			huh.NewInput().
				Title("Metastore DSN").
				Validate(requiredValidator("dsn")).
				Value(&cfg.Catalog.DSN),
		).WithHideFunc(func() bool { return cfg.Catalog.Type != config.CatalogSQL }),
	).WithTheme(Theme()).Run()
}
