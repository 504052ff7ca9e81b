// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package catalog

import (
	"testing"

	"github.com/apalominor/lakehouse-challenge/internal/dataset"
	"github.com/stretchr/testify/assert"
)

func customersDef() TableDef {
	return TableDef{
		Database: "analytics",
		Name:     "customers",
		Location: "s3://curated/hudi/customers",
		Columns: []Column{
			{Name: "customer_id", Type: "int"},
			{Name: "name", Type: "string"},
			{Name: "ingestion_date", Type: "timestamp"},
		},
		PartitionKeys: []Column{{Name: "created_at", Type: "date"}},
		Partitions: []Partition{
			{Values: []string{"2024-01-15"}, Location: "s3://curated/hudi/customers/created_at=2024-01-15"},
			{Values: []string{"2024-01-16"}, Location: "s3://curated/hudi/customers/created_at=2024-01-16"},
		},
	}
}

func TestColumns(t *testing.T) {
	cols, keys := Columns([]dataset.Field{
		{Name: "customer_id", NativeType: dataset.IntegerType},
		{Name: "created_at", NativeType: dataset.DateType},
		{Name: "points", NativeType: dataset.LongType},
		{Name: "vip", NativeType: dataset.BooleanType},
		{Name: "ingestion_date", NativeType: dataset.TimestampType},
	}, "created_at")

	assert.Equal(t, []Column{
		{Name: "customer_id", Type: "int"},
		{Name: "points", Type: "bigint"},
		{Name: "vip", Type: "boolean"},
		{Name: "ingestion_date", Type: "timestamp"},
	}, cols)
	assert.Equal(t, []Column{{Name: "created_at", Type: "date"}}, keys)
}

func TestTableDef_Validate(t *testing.T) {
	assert.NoError(t, customersDef().Validate())

	def := customersDef()
	def.Partitions = append(def.Partitions, Partition{Values: []string{"a", "b"}})
	assert.ErrorContains(t, def.Validate(), "2 values for 1 keys")

	err := TableDef{}.Validate()
	assert.ErrorContains(t, err, "database is required")
	assert.ErrorContains(t, err, "location is required")
}

func TestTableDef_PartitionName(t *testing.T) {
	def := customersDef()
	assert.Equal(t, "analytics.customers", def.QualifiedName())
	assert.Equal(t, "created_at=2024-01-15", def.PartitionName(def.Partitions[0]))
}
