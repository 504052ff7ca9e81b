// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package manifest builds, encodes and publishes dataset schema manifests.
package manifest

import (
	"bytes"
	"fmt"

	"github.com/apalominor/lakehouse-challenge/internal/schema"
	"gopkg.in/yaml.v3"
)

// ContentType is the media type manifests are stored with.
const ContentType = "text/yaml"

// NoPartition is written as partition_by when the dataset is not partitioned.
const NoPartition = "none"

// Manifest describes one dataset. Field order here is the key order of the
// encoded document.
type Manifest struct {
	Dataset      string         `yaml:"dataset"`
	Description  string         `yaml:"description"`
	Format       string         `yaml:"format"`
	TargetFormat string         `yaml:"target_format"`
	PartitionBy  string         `yaml:"partition_by"`
	Schema       []schema.Field `yaml:"schema"`
	AccessLevel  AccessLevel    `yaml:"access_level"`
}

// AccessLevel is the tag consumers use to decide who may read the dataset.
type AccessLevel struct {
	TagKey   string `yaml:"tag_key"`
	TagValue string `yaml:"tag_value"`
}

// Options carries the descriptive fields of a manifest.
type Options struct {
	Dataset      string
	Description  string
	Format       string
	TargetFormat string
	PartitionBy  string
	AccessLevel  AccessLevel
}

// Build assembles a manifest from options and already mapped fields.
func Build(opts Options, fields []schema.Field) *Manifest {
	partition := opts.PartitionBy
	if partition == "" {
		partition = NoPartition
	}
	if fields == nil {
		fields = []schema.Field{}
	}
	return &Manifest{
		Dataset:      opts.Dataset,
		Description:  opts.Description,
		Format:       opts.Format,
		TargetFormat: opts.TargetFormat,
		PartitionBy:  partition,
		Schema:       fields,
		AccessLevel:  opts.AccessLevel,
	}
}

// Key returns the object key a dataset's manifest is stored under.
func Key(dataset string) string {
	return fmt.Sprintf("schema/%s_config.yaml", dataset)
}

// Marshal encodes m as block style YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes a manifest previously produced by Marshal.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}
