// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apalominor/lakehouse-challenge/internal/render/sparksql"
)

func TestRenderers(t *testing.T) {
	r := Renderers(func(k string) string {
		if k == "LAKEJOB_DATABASE_NAME" {
			return "analytics"
		}
		return ""
	})
	assert.Equal(t, []string{"avro", "jsonschema", "markdown", "pyspark", "spark-sql", "yaml"}, r.Available())

	ddl, err := r.Get("spark-sql")
	require.NoError(t, err)
	assert.Equal(t, "analytics", ddl.(*sparksql.Translator).Database)
}
