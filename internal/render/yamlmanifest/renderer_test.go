// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package yamlmanifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/schema"
)

func TestRender_MatchesPublishedManifest(t *testing.T) {
	m := manifest.Build(manifest.Options{Dataset: "customers", PartitionBy: "created_at"}, []schema.Field{{Name: "id", Type: "long"}})

	out, err := (&Renderer{}).Render(m)
	require.NoError(t, err)

	published, err := m.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(published), string(out))
	assert.Equal(t, ".yaml", (&Renderer{}).FileExtension())
}
