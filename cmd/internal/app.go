// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/apalominor/lakehouse-challenge/internal/commands"
	"github.com/apalominor/lakehouse-challenge/internal/config"
	"github.com/apalominor/lakehouse-challenge/internal/render"
	"github.com/apalominor/lakehouse-challenge/internal/render/avro"
	"github.com/apalominor/lakehouse-challenge/internal/render/jsonschema"
	"github.com/apalominor/lakehouse-challenge/internal/render/markdown"
	"github.com/apalominor/lakehouse-challenge/internal/render/pyspark"
	"github.com/apalominor/lakehouse-challenge/internal/render/sparksql"
	"github.com/apalominor/lakehouse-challenge/internal/render/yamlmanifest"
)

// Renderers returns every schema output format, keyed by name. getenv
// supplies the database used to qualify generated DDL.
func Renderers(getenv func(string) string) render.Register {
	return render.Register{
		"yaml":       &yamlmanifest.Renderer{},
		"avro":       &avro.Translator{},
		"jsonschema": &jsonschema.Translator{},
		"markdown":   &markdown.Translator{},
		"pyspark":    &pyspark.Translator{},
		"spark-sql":  &sparksql.Translator{Database: getenv(config.EnvPrefix + "DATABASE_NAME")},
	}
}

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, env lookup).
func Run(ctx context.Context, getenv func(string) string) error {
	rootCmd := commands.NewRootCmd(Renderers(getenv), getenv)
	return rootCmd.ExecuteContext(ctx)
}
