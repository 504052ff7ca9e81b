// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jsonschema

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_Properties(t *testing.T) {
	m := manifest.Build(manifest.Options{Dataset: "customers", Description: "Dataset de Customers"}, []schema.Field{
		{Name: "customer_id", Type: "int"},
		{Name: "balance", Type: "double"},
		{Name: "vip", Type: "BooleanType"},
		{Name: "created_at", Type: "date"},
		{Name: "ingested", Type: "timestamp"},
		{Name: "name", Type: "string"},
	})

	out, err := (&Translator{}).Render(m)
	require.NoError(t, err)

	var doc struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Properties  map[string]struct {
			Type   string `json:"type"`
			Format string `json:"format"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, "customers", doc.Title)
	assert.Equal(t, "object", doc.Type)
	assert.Equal(t, "integer", doc.Properties["customer_id"].Type)
	assert.Equal(t, "number", doc.Properties["balance"].Type)
	assert.Equal(t, "boolean", doc.Properties["vip"].Type)
	assert.Equal(t, "date", doc.Properties["created_at"].Format)
	assert.Equal(t, "date-time", doc.Properties["ingested"].Format)
	assert.Equal(t, "string", doc.Properties["name"].Type)

	assert.Equal(t, []string{"customer_id", "balance", "vip", "created_at", "ingested", "name"}, propertyNames(t, out))
}

// propertyNames returns the keys of the "properties" object in document order.
func propertyNames(t *testing.T, doc []byte) []string {
	t.Helper()
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc, &top))

	dec := json.NewDecoder(bytes.NewReader(top["properties"]))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var names []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		names = append(names, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return names
}
