// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session resolves the job configuration for CLI commands and
// carries it in the command context.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apalominor/lakehouse-challenge/internal/config"
)

var (
	// ErrConfigNotFound indicates an explicitly requested config file is missing.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig indicates the config file exists but couldn't be parsed.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigFileName is the config file picked up from the working directory
// when no --config flag is given.
const ConfigFileName = "lakejob.yaml"

type contextKey struct{}

// Context holds the job configuration before command flags are applied.
type Context struct {
	Config *config.Job
	// Path is the config file the configuration came from, empty when
	// only defaults and environment were used.
	Path string
}

// Load resolves the configuration from path (or ConfigFileName in the
// working directory when path is empty and the file exists), then applies
// LAKEJOB_* variables from getenv. It does not validate: flags may still
// fill in required values.
func Load(ctx context.Context, path string, getenv func(string) string) (context.Context, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	sc := &Context{Config: config.Defaults()}
	if _, err := os.Stat(path); err == nil {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		sc.Config = cfg
		sc.Path = path
	} else if explicit {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	sc.Config.ApplyEnv(getenv)
	return context.WithValue(ctx, contextKey{}, sc), nil
}

// From extracts the Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if sc, ok := ctx.Value(contextKey{}).(*Context); ok {
		return sc
	}
	return nil
}

// RequireFromCommand extracts the Context from a cobra.Command's context,
// returning an error if not found.
func RequireFromCommand(cmd *cobra.Command) (*Context, error) {
	sc := From(cmd.Context())
	if sc == nil {
		return nil, errors.New("job configuration not loaded")
	}
	return sc, nil
}

// PreRunLoad returns a PreRunE function that reads the --config flag,
// loads the configuration and stores it in the command's context.
func PreRunLoad(getenv func(string) string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		ctx, err := Load(cmd.Context(), path, getenv)
		if err != nil {
			return err
		}
		cmd.SetContext(ctx)
		return nil
	}
}
