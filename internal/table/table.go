// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package table writes datasets as partitioned, record-keyed parquet tables
// on object storage.
//
// A table lives under a location prefix. Every partition is a single
// parquet object, <partition path>/part-00000.parquet, that is rewritten as
// a whole on each commit. Table properties and commit records are kept as
// YAML documents under <prefix>/.lakejob/.
package table

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apalominor/lakehouse-challenge/internal/dataset"
	"github.com/apalominor/lakehouse-challenge/internal/logger"
	"github.com/apalominor/lakehouse-challenge/internal/storage"
)

// Write modes.
const (
	ModeOverwrite = "overwrite"
	ModeUpsert    = "upsert"
)

// DefaultPartition names the partition of rows whose partition value is null.
const DefaultPartition = "__HIVE_DEFAULT_PARTITION__"

// instantLayout is the second-resolution prefix of a commit instant;
// milliseconds follow as three digits.
const instantLayout = "20060102150405"

const (
	dataFile          = "part-00000.parquet"
	dataFileExt       = ".parquet"
	parquetMediaType  = "application/vnd.apache.parquet"
	metaDir           = ".lakejob"
	partitionDateForm = "2006-01-02"
)

var (
	// ErrNullRecordKey is returned when an incoming row has no record key.
	ErrNullRecordKey = errors.New("null record key")
	// ErrSchemaMismatch is returned when stored data does not match the
	// incoming schema.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrTableMismatch is returned when the stored table was created with a
	// different record key or partitioning.
	ErrTableMismatch = errors.New("table definition mismatch")
)

// Options describes the table being written.
type Options struct {
	Name     string
	Database string
	// Location is the table's root prefix.
	Location        storage.Location
	RecordKey       string
	PrecombineField string
	// PartitionColumn may be empty for an unpartitioned table.
	PartitionColumn string
	Mode            string
	// HiveStylePartitioning names partition directories <column>=<value>
	// instead of just <value>.
	HiveStylePartitioning bool
}

// Validate checks that the options are complete.
func (o Options) Validate() error {
	var errs []error
	if o.Name == "" {
		errs = append(errs, errors.New("table name is required"))
	}
	if o.Location.Bucket == "" {
		errs = append(errs, errors.New("table location bucket is required"))
	}
	if o.RecordKey == "" {
		errs = append(errs, errors.New("record key is required"))
	}
	if o.PrecombineField == "" {
		errs = append(errs, errors.New("precombine field is required"))
	}
	switch o.Mode {
	case ModeOverwrite, ModeUpsert:
	default:
		errs = append(errs, fmt.Errorf("invalid write mode %q", o.Mode))
	}
	return errors.Join(errs...)
}

// Partition is one partition touched by a commit.
type Partition struct {
	// Path is relative to the table location, e.g. "created_at=2024-01-05".
	Path string `yaml:"path"`
	// Value is the partition value, DefaultPartition for nulls.
	Value string `yaml:"value"`
	Rows  int64  `yaml:"rows"`
	// Incoming is the number of rows this commit contributed.
	Incoming int64 `yaml:"incoming"`
}

// Commit is the outcome of a successful Write.
type Commit struct {
	Instant     string      `yaml:"instant"`
	Mode        string      `yaml:"mode"`
	Partitions  []Partition `yaml:"partitions"`
	RowsWritten int64       `yaml:"rows_written"`
	// Deduplicated counts incoming rows dropped in favour of a row with the
	// same record key and a larger precombine value.
	Deduplicated int64 `yaml:"deduplicated"`
}

// Writer commits datasets to a table.
type Writer struct {
	store storage.Store
	opts  Options
	log   logger.Logger
	mem   memory.Allocator
	now   func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the writer's logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) { w.log = l }
}

// WithAllocator sets the allocator used for merged partitions.
func WithAllocator(mem memory.Allocator) Option {
	return func(w *Writer) { w.mem = mem }
}

// WithClock sets the clock commit instants are taken from.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// NewWriter returns a writer for the table described by opts.
func NewWriter(store storage.Store, opts Options, options ...Option) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	w := &Writer{
		store: store,
		opts:  opts,
		log:   logger.NopLogger,
		mem:   memory.DefaultAllocator,
		now:   time.Now,
	}
	for _, o := range options {
		o(w)
	}
	return w, nil
}

// Options returns the table options.
func (w *Writer) Options() Options { return w.opts }

// PartitionLocation returns the storage location of a partition path.
func (w *Writer) PartitionLocation(p string) storage.Location {
	return w.opts.Location.Join(p)
}

// Write commits ds to the table. In overwrite mode every existing data
// object is removed first; in upsert mode rows replace stored rows with the
// same record key and new keys are appended to their partition.
func (w *Writer) Write(ctx context.Context, ds *dataset.Dataset) (*Commit, error) {
	keyCol, preCol, partCol, err := w.columns(ds)
	if err != nil {
		return nil, err
	}

	if w.opts.Mode == ModeUpsert {
		if err := w.checkProperties(ctx); err != nil {
			return nil, err
		}
	}

	rows, err := dedupe(ds, keyCol, preCol)
	if err != nil {
		return nil, err
	}
	groups := w.partition(ds, rows, partCol)

	instant := FormatInstant(w.now())
	commit := &Commit{
		Instant:      instant,
		Mode:         w.opts.Mode,
		Deduplicated: ds.Count() - int64(len(rows)),
	}

	if w.opts.Mode == ModeOverwrite {
		if err := w.clear(ctx); err != nil {
			return nil, err
		}
	}

	paths := make([]string, 0, len(groups))
	for p := range groups {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		g := groups[p]
		n, err := w.writePartition(ctx, ds, keyCol, p, g.rows)
		if err != nil {
			return nil, fmt.Errorf("partition %s: %w", p, err)
		}
		commit.Partitions = append(commit.Partitions, Partition{
			Path:     p,
			Value:    g.value,
			Rows:     n,
			Incoming: int64(len(g.rows)),
		})
		commit.RowsWritten += int64(len(g.rows))
		w.log.Debugf("wrote partition %s (%d rows)", p, n)
	}

	if err := w.writeMetadata(ctx, ds, commit); err != nil {
		return nil, err
	}
	w.log.Infof("committed %s: %d rows in %d partitions", instant, commit.RowsWritten, len(commit.Partitions))
	return commit, nil
}

// FormatInstant renders t as a commit instant, yyyyMMddHHmmssSSS in UTC.
func FormatInstant(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s%03d", t.Format(instantLayout), t.Nanosecond()/int(time.Millisecond))
}

func (w *Writer) columns(ds *dataset.Dataset) (key, pre, part int, err error) {
	if key, err = ds.ColumnIndex(w.opts.RecordKey); err != nil {
		return 0, 0, 0, fmt.Errorf("record key: %w", err)
	}
	if pre, err = ds.ColumnIndex(w.opts.PrecombineField); err != nil {
		return 0, 0, 0, fmt.Errorf("precombine field: %w", err)
	}
	part = -1
	if w.opts.PartitionColumn != "" {
		if part, err = ds.ColumnIndex(w.opts.PartitionColumn); err != nil {
			return 0, 0, 0, fmt.Errorf("partition column: %w", err)
		}
	}
	return key, pre, part, nil
}

type group struct {
	value string
	rows  []int
}

func (w *Writer) partition(ds *dataset.Dataset, rows []int, col int) map[string]*group {
	groups := make(map[string]*group)
	for _, r := range rows {
		value := ""
		p := ""
		if col >= 0 {
			value = partitionValue(ds.Value(r, col))
			p = value
			if w.opts.HiveStylePartitioning {
				p = w.opts.PartitionColumn + "=" + value
			}
		}
		g, ok := groups[p]
		if !ok {
			g = &group{value: value}
			groups[p] = g
		}
		g.rows = append(g.rows, r)
	}
	return groups
}

func partitionValue(v any) string {
	switch t := v.(type) {
	case nil:
		return DefaultPartition
	case time.Time:
		return t.UTC().Format(partitionDateForm)
	case string:
		if t == "" {
			return DefaultPartition
		}
		return strings.ReplaceAll(t, "/", "%2F")
	default:
		return fmt.Sprint(t)
	}
}

// clear deletes every data object below the table location.
func (w *Writer) clear(ctx context.Context) error {
	keys, err := w.store.List(ctx, w.opts.Location.Bucket, w.opts.Location.Prefix())
	if err != nil {
		return fmt.Errorf("listing table: %w", err)
	}
	for _, k := range keys {
		if path.Ext(k) != dataFileExt {
			continue
		}
		if err := w.store.Delete(ctx, w.opts.Location.Bucket, k); err != nil {
			return fmt.Errorf("clearing table: %w", err)
		}
	}
	if len(keys) > 0 {
		w.log.Debugf("cleared %s", w.opts.Location)
	}
	return nil
}

func (w *Writer) writePartition(ctx context.Context, ds *dataset.Dataset, keyCol int, p string, rows []int) (int64, error) {
	loc := w.PartitionLocation(p).Join(dataFile)

	refs := make([]dataset.RowRef, len(rows))
	for i, r := range rows {
		refs[i] = dataset.RowRef{Data: ds, Row: r}
	}

	if w.opts.Mode == ModeUpsert {
		stored, err := w.read(ctx, loc)
		if err != nil {
			return 0, err
		}
		if stored != nil {
			defer stored.Release()
			if refs, err = merge(stored, ds, keyCol, refs); err != nil {
				return 0, err
			}
		}
	}

	out, err := dataset.Assemble(w.mem, ds.Schema(), refs)
	if err != nil {
		return 0, err
	}
	defer out.Release()

	body, err := out.ParquetBytes()
	if err != nil {
		return 0, err
	}
	if err := w.store.Put(ctx, loc.Bucket, loc.Key, body, parquetMediaType); err != nil {
		return 0, err
	}
	return out.Count(), nil
}

// read returns the stored partition file, or nil when there is none.
func (w *Writer) read(ctx context.Context, loc storage.Location) (*dataset.Dataset, error) {
	data, err := w.store.Get(ctx, loc.Bucket, loc.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dataset.ReadParquet(ctx, w.mem, data)
}
