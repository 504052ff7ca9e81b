// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package render

import (
	"testing"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upperResolver struct{}

func (upperResolver) PrimitiveType(p string) string     { return "T_" + p }
func (upperResolver) FormatTableName(d string) string { return "tbl_" + d }

type stubRenderer struct{}

func (stubRenderer) Render(*manifest.Manifest) ([]byte, error) { return []byte("ok"), nil }
func (stubRenderer) FileExtension() string                   { return ".txt" }

func TestRegister(t *testing.T) {
	r := Register{"b": stubRenderer{}, "a": stubRenderer{}}
	assert.Equal(t, []string{"a", "b"}, r.Available())

	_, err := r.Get("a")
	require.NoError(t, err)

	_, err = r.Get("zzz")
	assert.EqualError(t, err, "unknown format: zzz")
}

func TestPrepare(t *testing.T) {
	m := manifest.Build(manifest.Options{
		Dataset:     "customers",
		Description: "desc",
		PartitionBy: "created_at",
		AccessLevel: manifest.AccessLevel{TagKey: "stage", TagValue: "analytics"},
	}, []schema.Field{{Name: "id", Type: "long"}, {Name: "created_at", Type: "date"}})

	data := Prepare(m, upperResolver{})
	assert.Equal(t, "tbl_customers", data.Name)
	assert.Equal(t, []Column{{"id", "T_long"}, {"created_at", "T_date"}}, data.Columns)
	assert.Equal(t, []string{"created_at"}, data.PartitionBy)
	assert.Equal(t, []Property{{"stage", "analytics"}}, data.Properties)

	unpartitioned := Prepare(manifest.Build(manifest.Options{Dataset: "x"}, nil), upperResolver{})
	assert.Empty(t, unpartitioned.PartitionBy)
	assert.Empty(t, unpartitioned.Properties)
}
