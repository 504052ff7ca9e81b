// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package job runs the ingestion pipeline: read CSV objects, describe their
// schema, publish the schema manifest, write the partitioned table, sync the
// catalog and record the run.
package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/google/uuid"

	"github.com/apalominor/lakehouse-challenge/internal/catalog"
	"github.com/apalominor/lakehouse-challenge/internal/config"
	"github.com/apalominor/lakehouse-challenge/internal/dataset"
	"github.com/apalominor/lakehouse-challenge/internal/logger"
	"github.com/apalominor/lakehouse-challenge/internal/manifest"
	"github.com/apalominor/lakehouse-challenge/internal/schema"
	"github.com/apalominor/lakehouse-challenge/internal/storage"
	"github.com/apalominor/lakehouse-challenge/internal/table"
)

// Step names, used in error messages and metric labels.
const (
	StepLoad      = "load"
	StepDescribe  = "describe"
	StepManifest  = "manifest"
	StepTransform = "transform"
	StepWrite     = "write"
	StepCatalog   = "catalog"
	StepCommit    = "commit"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ErrPrecombineInInput is returned when the input already has a column named
// like the precombine field, which the job fills with the ingestion time.
var ErrPrecombineInInput = errors.New("precombine field already present in input")

// Job is one configured pipeline run.
type Job struct {
	cfg     *config.Job
	store   storage.Store
	catalog catalog.Catalog
	log     logger.Logger
	metrics *Metrics
	mem     memory.Allocator
	now     func() time.Time
	newID   func() string
}

// Option configures a Job.
type Option func(*Job)

// WithLogger sets the job logger.
func WithLogger(l logger.Logger) Option {
	return func(j *Job) { j.log = l }
}

// WithMetrics sets the metrics the job reports to.
func WithMetrics(m *Metrics) Option {
	return func(j *Job) { j.metrics = m }
}

// WithClock sets the clock used for the ingestion timestamp and commit
// instants.
func WithClock(now func() time.Time) Option {
	return func(j *Job) { j.now = now }
}

// WithRunID sets the run id generator.
func WithRunID(newID func() string) Option {
	return func(j *Job) { j.newID = newID }
}

// WithAllocator sets the Arrow allocator for datasets.
func WithAllocator(mem memory.Allocator) Option {
	return func(j *Job) { j.mem = mem }
}

// New returns a job for a validated configuration.
func New(cfg *config.Job, store storage.Store, cat catalog.Catalog, opts ...Option) (*Job, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil || cat == nil {
		return nil, errors.New("job needs a store and a catalog")
	}
	j := &Job{
		cfg:     cfg,
		store:   store,
		catalog: cat,
		log:     logger.NopLogger,
		mem:     memory.DefaultAllocator,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(j)
	}
	if j.metrics == nil {
		j.metrics = NewMetrics()
	}
	return j, nil
}

// Result is the record of one run. Successful runs store it at
// jobs/<job_name>/<run_id>.yaml in the destination bucket.
type Result struct {
	RunID         string    `yaml:"run_id"`
	JobName       string    `yaml:"job_name"`
	Status        string    `yaml:"status"`
	StartedAt     time.Time `yaml:"started_at"`
	FinishedAt    time.Time `yaml:"finished_at"`
	WriteMode     string    `yaml:"write_mode"`
	ManifestOrder string    `yaml:"manifest_order"`
	Inputs        []string  `yaml:"inputs"`
	RowsRead      int64     `yaml:"rows_read"`
	RowsWritten   int64     `yaml:"rows_written"`
	Partitions    []string  `yaml:"partitions"`
	Manifest      string    `yaml:"manifest,omitempty"`
	Table         string    `yaml:"table"`
	TableLocation string    `yaml:"table_location"`
	Commit        string    `yaml:"commit,omitempty"`
}

// RunRecordKey returns the key a run record is stored under.
func RunRecordKey(jobName, runID string) string {
	return fmt.Sprintf("jobs/%s/%s.yaml", jobName, runID)
}

// Run executes the pipeline. With manifest_order "first" the manifest is
// published before the table is written and a manifest failure does not
// stop the write; both failures are returned. With "last" the manifest is
// published only after the table and catalog are in place.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	cfg := j.cfg
	res := &Result{
		RunID:         j.newID(),
		JobName:       cfg.JobName,
		Status:        StatusFailed,
		StartedAt:     j.now().UTC(),
		WriteMode:     cfg.WriteMode,
		ManifestOrder: cfg.ManifestOrder,
		Table:         cfg.DatabaseName + "." + cfg.Table,
		Partitions:    []string{},
	}
	j.log.Infof("starting run %s of %s", res.RunID, cfg.JobName)

	var ds *dataset.Dataset
	err := j.step(StepLoad, func() error {
		input, err := storage.ParseLocation(cfg.InputPath, cfg.SourceBucket)
		if err != nil {
			return err
		}
		if cfg.SourceFormat != "" && cfg.SourceFormat != "csv" {
			return fmt.Errorf("unsupported source format %q", cfg.SourceFormat)
		}
		ds, res.Inputs, err = ReadInput(ctx, storage.StoreFor(input, j.store), input, j.mem)
		return err
	})
	if err != nil {
		return res, err
	}
	defer ds.Release()
	res.RowsRead = ds.Count()
	j.metrics.RowsRead.Add(float64(res.RowsRead))
	j.log.Infof("read %d rows from %d objects", res.RowsRead, len(res.Inputs))

	var fields []schema.Field
	err = j.step(StepDescribe, func() error {
		mode, err := schema.ParseMatchMode(cfg.TypeMatch)
		if err != nil {
			return err
		}
		if _, err := ds.ColumnIndex(cfg.PrecombineField); err == nil {
			return fmt.Errorf("%w: %s", ErrPrecombineInInput, cfg.PrecombineField)
		}
		fields = schema.NewMapper(schema.DefaultRules, mode).Describe(nativeFields(ds))
		return nil
	})
	if err != nil {
		return res, err
	}
	m := manifest.Build(ManifestOptions(cfg), fields)

	if cfg.ManifestOrder == config.ManifestLast {
		if err := j.writeTable(ctx, ds, res); err != nil {
			return res, err
		}
		if err := j.publish(ctx, m, res); err != nil {
			return res, err
		}
	} else {
		manifestErr := j.publish(ctx, m, res)
		if manifestErr != nil {
			j.log.Errorf("%v; continuing with the table write", manifestErr)
		}
		if err := errors.Join(manifestErr, j.writeTable(ctx, ds, res)); err != nil {
			return res, err
		}
	}

	if err := j.step(StepCommit, func() error { return j.commit(ctx, res) }); err != nil {
		return res, err
	}
	j.pushMetrics(res)
	j.log.Infof("run %s succeeded: %d rows in %d partitions", res.RunID, res.RowsWritten, len(res.Partitions))
	return res, nil
}

// ManifestOptions returns the descriptive manifest fields of cfg.
func ManifestOptions(cfg *config.Job) manifest.Options {
	return manifest.Options{
		Dataset:      cfg.Table,
		Description:  cfg.Description,
		Format:       cfg.SourceFormat,
		TargetFormat: cfg.TargetFormat,
		PartitionBy:  cfg.PartitionColumn,
		AccessLevel: manifest.AccessLevel{
			TagKey:   cfg.AccessLevel.TagKey,
			TagValue: cfg.AccessLevel.TagValue,
		},
	}
}

func nativeFields(ds *dataset.Dataset) []schema.NativeField {
	fields := ds.Fields()
	out := make([]schema.NativeField, len(fields))
	for i, f := range fields {
		out[i] = schema.NativeField{Name: f.Name, NativeType: f.NativeType}
	}
	return out
}

func (j *Job) publish(ctx context.Context, m *manifest.Manifest, res *Result) error {
	return j.step(StepManifest, func() error {
		p := &manifest.Publisher{Store: j.store, Log: j.log}
		loc, err := p.Publish(ctx, j.cfg.DestinationBucket, m)
		if err != nil {
			return err
		}
		res.Manifest = loc.String()
		return nil
	})
}

// writeTable transforms ds, commits it to the table and syncs the catalog.
func (j *Job) writeTable(ctx context.Context, ds *dataset.Dataset, res *Result) error {
	cfg := j.cfg

	var out *dataset.Dataset
	err := j.step(StepTransform, func() error {
		src := ds
		if cfg.PartitionColumn != "" {
			casted, err := ds.CastToDate(cfg.PartitionColumn)
			if err != nil {
				return err
			}
			defer casted.Release()
			src = casted
		}
		out = src.WithTimestamp(cfg.PrecombineField, j.now().UTC())
		return nil
	})
	if err != nil {
		return err
	}
	defer out.Release()

	root, err := storage.ParseLocation(cfg.OutputPath, cfg.DestinationBucket)
	if err != nil {
		return fmt.Errorf("%s: %w", StepWrite, err)
	}
	w, err := table.NewWriter(storage.StoreFor(root, j.store), table.Options{
		Name:                  cfg.Table,
		Database:              cfg.DatabaseName,
		Location:              root.Join(cfg.Table),
		RecordKey:             cfg.RecordKey,
		PrecombineField:       cfg.PrecombineField,
		PartitionColumn:       cfg.PartitionColumn,
		Mode:                  cfg.WriteMode,
		HiveStylePartitioning: true,
	}, table.WithLogger(j.log), table.WithAllocator(j.mem), table.WithClock(j.now))
	if err != nil {
		return fmt.Errorf("%s: %w", StepWrite, err)
	}
	res.TableLocation = w.Options().Location.String()

	var commit *table.Commit
	if err := j.step(StepWrite, func() error {
		commit, err = w.Write(ctx, out)
		return err
	}); err != nil {
		return err
	}
	res.Commit = commit.Instant
	res.RowsWritten = commit.RowsWritten
	for _, p := range commit.Partitions {
		res.Partitions = append(res.Partitions, p.Path)
	}
	j.metrics.RowsWritten.Add(float64(commit.RowsWritten))
	j.metrics.PartitionsWritten.Add(float64(len(commit.Partitions)))

	return j.step(StepCatalog, func() error {
		return j.catalog.SyncTable(ctx, TableDef(cfg, w, out.Fields(), commit))
	})
}

// TableDef builds the catalog definition of a committed table.
func TableDef(cfg *config.Job, w *table.Writer, fields []dataset.Field, commit *table.Commit) catalog.TableDef {
	var keys []string
	if cfg.PartitionColumn != "" {
		keys = []string{cfg.PartitionColumn}
	}
	cols, partKeys := catalog.Columns(fields, keys...)
	def := catalog.TableDef{
		Database:      cfg.DatabaseName,
		Name:          cfg.Table,
		Description:   cfg.Description,
		Location:      w.Options().Location.String(),
		Columns:       cols,
		PartitionKeys: partKeys,
		Parameters: map[string]string{
			"lakejob.record_key":       cfg.RecordKey,
			"lakejob.precombine_field": cfg.PrecombineField,
			"lakejob.write_mode":       cfg.WriteMode,
			"lakejob.last_commit":      commit.Instant,
		},
		ReplacePartitions: commit.Mode == table.ModeOverwrite,
	}
	if len(partKeys) > 0 {
		for _, p := range commit.Partitions {
			def.Partitions = append(def.Partitions, catalog.Partition{
				Values:   []string{p.Value},
				Location: w.PartitionLocation(p.Path).String(),
			})
		}
	}
	return def
}

func (j *Job) commit(ctx context.Context, res *Result) error {
	res.Status = StatusSucceeded
	res.FinishedAt = j.now().UTC()
	body, err := encodeYAML(res)
	if err != nil {
		return err
	}
	return j.store.Put(ctx, j.cfg.DestinationBucket, RunRecordKey(res.JobName, res.RunID), body, manifest.ContentType)
}

func (j *Job) pushMetrics(res *Result) {
	url := j.cfg.Metrics.Pushgateway
	if url == "" {
		return
	}
	if err := j.metrics.Push(url, res.JobName, res.RunID); err != nil {
		j.log.Warnf("pushing metrics to %s: %v", url, err)
	}
}

// step runs fn, recording its duration and prefixing its error with name.
func (j *Job) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	status := "ok"
	if err != nil {
		status = "error"
	}
	elapsed := time.Since(start)
	j.metrics.StepDuration.WithLabelValues(name, status).Observe(elapsed.Seconds())
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	j.log.Debugf("step %s finished in %s", name, elapsed)
	return nil
}
