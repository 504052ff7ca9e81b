// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package table

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/apalominor/lakehouse-challenge/internal/dataset"
	"github.com/apalominor/lakehouse-challenge/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	propertiesFile = "table.yaml"
	commitExt      = ".commit"
	yamlMediaType  = "text/yaml"
)

// Properties is the stored definition of a table.
type Properties struct {
	Name                  string   `yaml:"name"`
	Database              string   `yaml:"database"`
	RecordKey             string   `yaml:"record_key"`
	PrecombineField       string   `yaml:"precombine_field"`
	PartitionFields       []string `yaml:"partition_fields"`
	HiveStylePartitioning bool     `yaml:"hive_style_partitioning"`
	WriteMode             string   `yaml:"write_mode"`
	Columns               []Column `yaml:"columns"`
	LastCommit            string   `yaml:"last_commit"`
}

// Column is a stored column definition.
type Column struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// PropertiesLocation returns where the properties of the table at loc live.
func PropertiesLocation(loc storage.Location) storage.Location {
	return loc.Join(metaDir, propertiesFile)
}

// CommitLocation returns where the record of a commit instant lives.
func CommitLocation(loc storage.Location, instant string) storage.Location {
	return loc.Join(metaDir, instant+commitExt)
}

// LoadProperties reads the properties of the table at loc. It returns
// storage.ErrNotFound when the table has never been written.
func LoadProperties(ctx context.Context, store storage.Store, loc storage.Location) (*Properties, error) {
	pl := PropertiesLocation(loc)
	data, err := store.Get(ctx, pl.Bucket, pl.Key)
	if err != nil {
		return nil, err
	}
	var p Properties
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", pl, err)
	}
	return &p, nil
}

func (w *Writer) properties(ds *dataset.Dataset, instant string) *Properties {
	p := &Properties{
		Name:                  w.opts.Name,
		Database:              w.opts.Database,
		RecordKey:             w.opts.RecordKey,
		PrecombineField:       w.opts.PrecombineField,
		PartitionFields:       []string{},
		HiveStylePartitioning: w.opts.HiveStylePartitioning,
		WriteMode:             w.opts.Mode,
		LastCommit:            instant,
	}
	if w.opts.PartitionColumn != "" {
		p.PartitionFields = []string{w.opts.PartitionColumn}
	}
	for _, f := range ds.Fields() {
		p.Columns = append(p.Columns, Column{Name: f.Name, Type: f.NativeType})
	}
	return p
}

// checkProperties rejects upserts into a table defined with another record
// key or partitioning.
func (w *Writer) checkProperties(ctx context.Context) error {
	p, err := LoadProperties(ctx, w.store, w.opts.Location)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.RecordKey != w.opts.RecordKey {
		return fmt.Errorf("%w: record key is %s, not %s", ErrTableMismatch, p.RecordKey, w.opts.RecordKey)
	}
	want := w.opts.PartitionColumn
	got := ""
	if len(p.PartitionFields) > 0 {
		got = p.PartitionFields[0]
	}
	if got != want {
		return fmt.Errorf("%w: partitioned by %q, not %q", ErrTableMismatch, got, want)
	}
	if p.HiveStylePartitioning != w.opts.HiveStylePartitioning {
		return fmt.Errorf("%w: hive style partitioning is %t", ErrTableMismatch, p.HiveStylePartitioning)
	}
	return nil
}

// writeMetadata records the commit and then the table properties. The
// properties document names the last completed commit.
func (w *Writer) writeMetadata(ctx context.Context, ds *dataset.Dataset, c *Commit) error {
	cl := CommitLocation(w.opts.Location, c.Instant)
	if err := w.putYAML(ctx, cl, c); err != nil {
		return fmt.Errorf("writing commit: %w", err)
	}
	if err := w.putYAML(ctx, PropertiesLocation(w.opts.Location), w.properties(ds, c.Instant)); err != nil {
		return fmt.Errorf("writing table properties: %w", err)
	}
	return nil
}

func (w *Writer) putYAML(ctx context.Context, loc storage.Location, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return w.store.Put(ctx, loc.Bucket, loc.Key, buf.Bytes(), yamlMediaType)
}
