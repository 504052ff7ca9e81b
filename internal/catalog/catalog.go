// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package catalog registers written tables and their partitions in a
// metadata catalog so query engines can find them as <database>.<table>.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apalominor/lakehouse-challenge/internal/dataset"
	"github.com/apalominor/lakehouse-challenge/internal/schema"
)

// Catalog synchronizes table definitions.
type Catalog interface {
	// SyncTable creates or updates the table and registers its partitions.
	SyncTable(ctx context.Context, def TableDef) error
	Close() error
}

// Column is a catalog column with a Hive type.
type Column struct {
	Name string
	Type string
}

// Partition is one partition of a table.
type Partition struct {
	// Values holds one value per partition key.
	Values   []string
	Location string
}

// TableDef is the definition synchronized into the catalog.
type TableDef struct {
	Database    string
	Name        string
	Description string
	// Location is the table root, e.g. s3://bucket/prefix/table.
	Location string
	// Columns excludes the partition keys.
	Columns       []Column
	PartitionKeys []Column
	Partitions    []Partition
	Parameters    map[string]string
	// ReplacePartitions drops every registered partition not in Partitions.
	ReplacePartitions bool
}

// Validate checks that def can be synchronized.
func (d TableDef) Validate() error {
	var errs []error
	if d.Database == "" {
		errs = append(errs, errors.New("database is required"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("table name is required"))
	}
	if d.Location == "" {
		errs = append(errs, errors.New("location is required"))
	}
	for _, p := range d.Partitions {
		if len(p.Values) != len(d.PartitionKeys) {
			errs = append(errs, fmt.Errorf("partition %v has %d values for %d keys", p.Values, len(p.Values), len(d.PartitionKeys)))
		}
	}
	return errors.Join(errs...)
}

// QualifiedName returns <database>.<table>.
func (d TableDef) QualifiedName() string {
	return d.Database + "." + d.Name
}

// PartitionName returns the hive style name of p, e.g. "created_at=2024-01-05".
func (d TableDef) PartitionName(p Partition) string {
	parts := make([]string, len(p.Values))
	for i, v := range p.Values {
		parts[i] = d.PartitionKeys[i].Name + "=" + v
	}
	return strings.Join(parts, "/")
}

// Columns converts dataset fields to catalog columns. Fields named in
// partitionKeys are returned separately, in the order given.
func Columns(fields []dataset.Field, partitionKeys ...string) (cols, keys []Column) {
	m := schema.NewMapper(schema.HiveRules, schema.MatchSubstring)
	byName := make(map[string]Column, len(fields))
	isKey := make(map[string]bool, len(partitionKeys))
	for _, k := range partitionKeys {
		isKey[k] = true
	}
	for _, f := range fields {
		c := Column{Name: f.Name, Type: m.Map(f.NativeType)}
		byName[f.Name] = c
		if !isKey[f.Name] {
			cols = append(cols, c)
		}
	}
	for _, k := range partitionKeys {
		if c, ok := byName[k]; ok {
			keys = append(keys, c)
		}
	}
	return cols, keys
}
