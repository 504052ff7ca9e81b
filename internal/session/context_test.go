// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apalominor/lakehouse-challenge/internal/config"
)

const validConfig = `version: 1
job_name: customers-ingest
source_bucket: raw
destination_bucket: curated
input_path: customers/
output_path: hudi
database_name: analytics
write_mode: upsert
`

func noEnv(string) string { return "" }

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, []byte(validConfig), 0o600))
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("version: [\n"), 0o600))

	tests := []struct {
		name    string
		path    string
		getenv  func(string) string
		wantErr error
		check   func(t *testing.T, sc *Context)
	}{
		{
			name: "explicit file",
			path: valid,
			check: func(t *testing.T, sc *Context) {
				assert.Equal(t, valid, sc.Path)
				assert.Equal(t, "customers-ingest", sc.Config.JobName)
				assert.Equal(t, "customer_id", sc.Config.RecordKey)
			},
		},
		{
			name:    "explicit file missing",
			path:    filepath.Join(dir, "missing.yaml"),
			wantErr: ErrConfigNotFound,
		},
		{
			name:    "unparseable file",
			path:    broken,
			wantErr: ErrInvalidConfig,
		},
		{
			name: "environment overrides file",
			path: valid,
			getenv: func(k string) string {
				if k == config.EnvPrefix+"WRITE_MODE" {
					return "overwrite"
				}
				return ""
			},
			check: func(t *testing.T, sc *Context) {
				assert.Equal(t, config.WriteModeOverwrite, sc.Config.WriteMode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := tt.getenv
			if getenv == nil {
				getenv = noEnv
			}
			ctx, err := Load(context.Background(), tt.path, getenv)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			sc := From(ctx)
			require.NotNil(t, sc)
			tt.check(t, sc)
		})
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	require.NoError(t, os.Chdir(t.TempDir()))

	ctx, err := Load(context.Background(), "", noEnv)
	require.NoError(t, err)
	sc := From(ctx)
	assert.Empty(t, sc.Path)
	assert.Equal(t, config.Defaults(), sc.Config)
}

func TestFrom_NoContextStored(t *testing.T) {
	assert.Nil(t, From(context.Background()))
}

func TestRequireFromCommand(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := RequireFromCommand(cmd)
	assert.Error(t, err)

	cmd.Flags().String("config", "", "")
	require.NoError(t, PreRunLoad(noEnv)(cmd, nil))
	sc, err := RequireFromCommand(cmd)
	require.NoError(t, err)
	assert.NotNil(t, sc.Config)
}
