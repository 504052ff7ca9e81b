// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifierValidator(t *testing.T) {
	v := identifierValidator("table name")
	assert.NoError(t, v("customers"))
	assert.NoError(t, v("_raw_2024"))
	assert.NoError(t, v("customers-ingest"))
	assert.EqualError(t, v(""), "table name is required")
	assert.Error(t, v("1customers"))
	assert.Error(t, v("cust omers"))
}

func TestRequiredValidator(t *testing.T) {
	v := requiredValidator("dsn")
	assert.NoError(t, v("file:catalog.db"))
	assert.EqualError(t, v(""), "dsn is required")
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, []ResultField{
		{Label: "Run", Value: "run-1"},
		{Label: "Manifest", Value: ""},
		{Label: "Rows written", Value: "3"},
	}, "Job completed")

	out := buf.String()
	assert.Contains(t, out, "Run: run-1")
	assert.Contains(t, out, "Rows written: 3")
	assert.NotContains(t, out, "Manifest")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Job completed"))
}
