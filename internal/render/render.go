// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package render turns a dataset manifest into other schema formats.
package render

import (
	"fmt"
	"sort"

	"github.com/apalominor/lakehouse-challenge/internal/manifest"
)

// Renderer defines the interface all output formats implement.
type Renderer interface {
	// Render converts a manifest to the target format.
	Render(m *manifest.Manifest) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".sql").
	FileExtension() string
}

// Register maps format names to renderers.
type Register map[string]Renderer

// Get retrieves a renderer by name.
func (r Register) Get(name string) (Renderer, error) {
	rd, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	return rd, nil
}

// Available returns all registered format names, sorted.
func (r Register) Available() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
