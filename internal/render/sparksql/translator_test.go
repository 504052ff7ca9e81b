// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package sparksql

import (
	"testing"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customers() *manifest.Manifest {
	return manifest.Build(manifest.Options{
		Dataset:      "customers",
		Description:  "Dataset de Customers",
		Format:       "csv",
		TargetFormat: "parquet",
		PartitionBy:  "created_at",
		AccessLevel:  manifest.AccessLevel{TagKey: "stage", TagValue: "analytics"},
	}, []schema.Field{
		{Name: "id", Type: "long"},
		{Name: "name", Type: "string"},
		{Name: "created_at", Type: "timestamp"},
	})
}

func TestTranslate_CreateTable(t *testing.T) {
	out, err := (&Translator{}).Render(customers())
	require.NoError(t, err)

	want := `-- Dataset de Customers
CREATE TABLE IF NOT EXISTS customers (
  id BIGINT,
  name STRING,
  created_at TIMESTAMP
)
USING parquet
PARTITIONED BY (created_at)
COMMENT 'Dataset de Customers'
TBLPROPERTIES ('stage' = 'analytics');
`
	assert.Equal(t, want, string(out))
}

func TestTranslate_QualifiedName(t *testing.T) {
	out, err := (&Translator{Database: "analytics"}).Render(customers())
	require.NoError(t, err)
	assert.Contains(t, string(out), "CREATE TABLE IF NOT EXISTS analytics.customers (")
}

func TestTranslate_Unpartitioned(t *testing.T) {
	m := manifest.Build(manifest.Options{Dataset: "flags"}, []schema.Field{
		{Name: "enabled", Type: "BooleanType"},
		{Name: "amount", Type: "DecimalType(10,2)"},
	})
	out, err := (&Translator{}).Render(m)
	require.NoError(t, err)

	result := string(out)
	assert.NotContains(t, result, "PARTITIONED BY")
	assert.NotContains(t, result, "COMMENT")
	assert.Contains(t, result, "enabled BOOLEAN,")
	assert.Contains(t, result, "amount DECIMALTYPE(10,2)\n)")
}

func TestTranslate_EscapesQuotes(t *testing.T) {
	m := customers()
	m.Description = "Owner's customers"
	out, err := (&Translator{}).Render(m)
	require.NoError(t, err)
	assert.Contains(t, string(out), `COMMENT 'Owner\'s customers'`)
}

func TestTranslate_NoColumns(t *testing.T) {
	_, err := (&Translator{}).Render(manifest.Build(manifest.Options{Dataset: "empty"}, nil))
	assert.Error(t, err)
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, ".sql", (&Translator{}).FileExtension())
}
