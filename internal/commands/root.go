// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/apalominor/lakehouse-challenge/internal/render"
)

// NewRootCmd creates and returns the root command for the CLI. getenv is
// consulted for LAKEJOB_* overrides.
func NewRootCmd(renderers render.Register, getenv func(string) string) *cobra.Command {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	rootCmd := &cobra.Command{
		Use:   "lakejob",
		Short: "Ingest CSV objects into a partitioned, catalogued table",
		Long: `lakejob reads CSV objects from object storage, infers their schema,
publishes a schema manifest, writes a partitioned record-keyed parquet table
and registers it in a metadata catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the job config file (default ./lakejob.yaml when present)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(
		newRunCmd(getenv),
		newDescribeCmd(renderers, getenv),
		newInitCmd(),
		newVersionCmd(),
	)
	return rootCmd
}
