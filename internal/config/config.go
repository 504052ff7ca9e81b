// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles lakejob job configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// Write modes accepted by the table writer.
const (
	WriteModeOverwrite = "overwrite"
	WriteModeUpsert    = "upsert"
)

// Manifest orderings relative to the table write.
const (
	ManifestFirst = "first"
	ManifestLast  = "last"
)

// Type match modes used by the schema describer.
const (
	TypeMatchSubstring = "substring"
	TypeMatchExact     = "exact"
)

// Catalog backends.
const (
	CatalogGlue = "glue"
	CatalogSQL  = "sql"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "LAKEJOB_"

// Job represents a lakejob job configuration file.
type Job struct {
	Version int `yaml:"version"`

	JobName           string `yaml:"job_name"`
	SourceBucket      string `yaml:"source_bucket"`
	DestinationBucket string `yaml:"destination_bucket"`
	InputPath         string `yaml:"input_path"`
	OutputPath        string `yaml:"output_path"`
	DatabaseName      string `yaml:"database_name"`

	Table           string `yaml:"table"`
	Description     string `yaml:"description"`
	SourceFormat    string `yaml:"source_format"`
	TargetFormat    string `yaml:"target_format"`
	PartitionColumn string `yaml:"partition_column"`
	RecordKey       string `yaml:"record_key"`
	PrecombineField string `yaml:"precombine_field"`

	// WriteMode has no default: callers must choose overwrite or upsert.
	WriteMode     string `yaml:"write_mode"`
	ManifestOrder string `yaml:"manifest_order"`
	TypeMatch     string `yaml:"type_match"`

	AccessLevel AccessLevel `yaml:"access_level"`
	Catalog     Catalog     `yaml:"catalog"`
	Storage     Storage     `yaml:"storage"`
	Metrics     Metrics     `yaml:"metrics,omitempty"`
}

// AccessLevel is the tag attached to the published manifest.
type AccessLevel struct {
	TagKey   string `yaml:"tag_key"`
	TagValue string `yaml:"tag_value"`
}

// Catalog selects the metadata catalog the table is synchronized into.
type Catalog struct {
	Type   string `yaml:"type"`
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
	Region string `yaml:"region,omitempty"`
}

// Storage configures the object storage client.
type Storage struct {
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
	// LocalRoot, when set, maps buckets to directories under this path
	// instead of talking to S3.
	LocalRoot string `yaml:"local_root,omitempty"`
}

// Metrics configures where run metrics are pushed.
type Metrics struct {
	Pushgateway string `yaml:"pushgateway,omitempty"`
}

// Defaults returns a Job with every optional field set to the values the
// customers ingestion has always used.
func Defaults() *Job {
	return &Job{
		Version:         CurrentConfigVersion,
		Table:           "customers",
		Description:     "Dataset de Customers",
		SourceFormat:    "csv",
		TargetFormat:    "parquet",
		PartitionColumn: "created_at",
		RecordKey:       "customer_id",
		PrecombineField: "ingestion_date",
		ManifestOrder:   ManifestFirst,
		TypeMatch:       TypeMatchSubstring,
		AccessLevel: AccessLevel{
			TagKey:   "stage",
			TagValue: "analytics",
		},
		Catalog: Catalog{Type: CatalogGlue},
	}
}

// Load reads a Job from a file path. Keys absent from the file keep their
// default values.
func Load(path string) (*Job, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	cfg := Defaults()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the Job to a file path.
func (c *Job) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// ApplyEnv overrides fields with the LAKEJOB_* variables returned by getenv.
// Empty values are ignored.
func (c *Job) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		return
	}
	set := func(dst *string, name string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	set(&c.JobName, "JOB_NAME")
	set(&c.SourceBucket, "SOURCE_BUCKET")
	set(&c.DestinationBucket, "DESTINATION_BUCKET")
	set(&c.InputPath, "INPUT_PATH")
	set(&c.OutputPath, "OUTPUT_PATH")
	set(&c.DatabaseName, "DATABASE_NAME")
	set(&c.Table, "TABLE")
	set(&c.PartitionColumn, "PARTITION_COLUMN")
	set(&c.RecordKey, "RECORD_KEY")
	set(&c.PrecombineField, "PRECOMBINE_FIELD")
	set(&c.WriteMode, "WRITE_MODE")
	set(&c.ManifestOrder, "MANIFEST_ORDER")
	set(&c.TypeMatch, "TYPE_MATCH")
	set(&c.Catalog.Type, "CATALOG_TYPE")
	set(&c.Catalog.Driver, "CATALOG_DRIVER")
	set(&c.Catalog.DSN, "CATALOG_DSN")
	set(&c.Catalog.Region, "CATALOG_REGION")
	set(&c.Storage.Region, "REGION")
	set(&c.Storage.Endpoint, "S3_ENDPOINT")
	set(&c.Storage.LocalRoot, "LOCAL_ROOT")
	set(&c.Metrics.Pushgateway, "PUSHGATEWAY")
	if v := getenv(EnvPrefix + "S3_PATH_STYLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Storage.PathStyle = b
		}
	}
}

// Validate checks the configuration for required fields and valid values.
// Every problem found is reported, not just the first one.
func (c *Job) Validate() error {
	var errs []error
	if c.Version != CurrentConfigVersion {
		errs = append(errs, errors.New("unsupported config version"))
	}

	required := []struct {
		name  string
		value string
	}{
		{"job_name", c.JobName},
		{"source_bucket", c.SourceBucket},
		{"destination_bucket", c.DestinationBucket},
		{"input_path", c.InputPath},
		{"output_path", c.OutputPath},
		{"database_name", c.DatabaseName},
		{"table", c.Table},
		{"record_key", c.RecordKey},
		{"precombine_field", c.PrecombineField},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("missing required parameter %s", r.name))
		}
	}

	errs = append(errs,
		oneOf("write_mode", c.WriteMode, WriteModeOverwrite, WriteModeUpsert),
		oneOf("manifest_order", c.ManifestOrder, ManifestFirst, ManifestLast),
		oneOf("type_match", c.TypeMatch, TypeMatchSubstring, TypeMatchExact),
		oneOf("catalog.type", c.Catalog.Type, CatalogGlue, CatalogSQL),
	)

	if c.Catalog.Type == CatalogSQL {
		if err := oneOf("catalog.driver", c.Catalog.Driver, "sqlite", "postgres", "mysql"); err != nil {
			errs = append(errs, err)
		}
		if c.Catalog.DSN == "" {
			errs = append(errs, errors.New("missing required parameter catalog.dsn"))
		}
	}

	if c.PartitionColumn != "" && c.PartitionColumn == c.PrecombineField {
		errs = append(errs, errors.New("partition_column and precombine_field must differ"))
	}
	if c.RecordKey != "" && c.RecordKey == c.PrecombineField {
		errs = append(errs, errors.New("record_key and precombine_field must differ"))
	}

	return errors.Join(errs...)
}

func oneOf(name, value string, allowed ...string) error {
	if value == "" {
		return fmt.Errorf("missing required parameter %s (one of %v)", name, allowed)
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (one of %v)", name, value, allowed)
}
