// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apalominor/lakehouse-challenge/internal/config"
	"github.com/apalominor/lakehouse-challenge/internal/prompts"
	"github.com/apalominor/lakehouse-challenge/internal/session"
)

type initOptions struct {
	output         string
	force          bool
	nonInteractive bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a job config file",
		Long: `Create a lakejob.yaml job configuration. Interactive mode asks for every
invocation parameter; flags pre-fill the answers.`,
		Example: `  # Interactive mode
  lakejob init

  # Non-interactive
  lakejob init --non-interactive --job-name customers --source-bucket raw \
    --destination-bucket curated --input-path customers/ --output-path hudi \
    --database-name analytics --write-mode upsert`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", session.ConfigFileName, "Config file to create")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config file")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts (requires the invocation flags)")
	addJobFlags(cmd)

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	if _, err := os.Stat(opts.output); err == nil && !opts.force {
		return fmt.Errorf("%s already exists; use --force to replace it", opts.output)
	}

	cfg := config.Defaults()
	if err := applyJobFlags(cmd, cfg); err != nil {
		return err
	}
	if !opts.nonInteractive {
		if err := prompts.RunInitForm(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(opts.output); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}

	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Config", Value: opts.output},
		{Label: "Job", Value: cfg.JobName},
		{Label: "Table", Value: cfg.DatabaseName + "." + cfg.Table},
		{Label: "Write mode", Value: cfg.WriteMode},
	}, "Initialization completed")
	return nil
}
