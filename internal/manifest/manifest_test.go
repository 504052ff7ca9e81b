// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package manifest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/apalominor/lakehouse-challenge/internal/logger"
	"github.com/apalominor/lakehouse-challenge/internal/schema"
	"github.com/apalominor/lakehouse-challenge/internal/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customersManifest() *Manifest {
	return Build(Options{
		Dataset:      "customers",
		Description:  "Dataset de Customers",
		Format:       "csv",
		TargetFormat: "parquet",
		PartitionBy:  "created_at",
		AccessLevel:  AccessLevel{TagKey: "stage", TagValue: "analytics"},
	}, []schema.Field{
		{Name: "id", Type: "long"},
		{Name: "name", Type: "string"},
		{Name: "created_at", Type: "timestamp"},
	})
}

func TestMarshal_KeyOrder(t *testing.T) {
	data, err := customersManifest().Marshal()
	require.NoError(t, err)

	want := `dataset: customers
description: Dataset de Customers
format: csv
target_format: parquet
partition_by: created_at
schema:
  - name: id
    type: long
  - name: name
    type: string
  - name: created_at
    type: timestamp
access_level:
  tag_key: stage
  tag_value: analytics
`
	assert.Equal(t, want, string(data))
}

func TestMarshal_RoundTrip(t *testing.T) {
	m := customersManifest()
	m.Description = "Clientes con ñ y acentos: día"

	data, err := m.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "ñ", "unicode is written as is")

	back, err := Parse(data)
	require.NoError(t, err)
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Defaults(t *testing.T) {
	m := Build(Options{Dataset: "orders"}, nil)
	assert.Equal(t, NoPartition, m.PartitionBy)
	assert.NotNil(t, m.Schema)

	data, err := m.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "schema: []")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "schema/customers_config.yaml", Key("customers"))
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFSStore(t.TempDir())
	log := logger.NewBufferLogger()
	p := &Publisher{Store: store, Log: log}

	loc, err := p.Publish(ctx, "curated", customersManifest())
	require.NoError(t, err)
	assert.Equal(t, "s3://curated/schema/customers_config.yaml", loc.String())
	assert.Contains(t, log.String(), "manifest written to s3://curated/schema/customers_config.yaml")

	data, err := store.Get(ctx, "curated", "schema/customers_config.yaml")
	require.NoError(t, err)
	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, customersManifest(), back)
}

type failingStore struct {
	storage.Store
	err error
}

func (f failingStore) Put(context.Context, string, string, []byte, string) error {
	return f.err
}

func TestPublish_SurfacesStorageError(t *testing.T) {
	wantErr := errors.New("access denied")
	p := &Publisher{Store: failingStore{err: wantErr}}

	_, err := p.Publish(context.Background(), "curated", customersManifest())
	assert.Same(t, wantErr, err)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(strings.Repeat("[", 3)))
	assert.Error(t, err)
}
