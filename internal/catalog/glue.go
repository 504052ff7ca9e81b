// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/glue"
	"github.com/aws/aws-sdk-go/service/glue/glueiface"
	"github.com/pkg/errors"

	"github.com/apalominor/lakehouse-challenge/internal/logger"
)

const (
	parquetInputFormat  = "org.apache.hadoop.hive.ql.io.parquet.MapredParquetInputFormat"
	parquetOutputFormat = "org.apache.hadoop.hive.ql.io.parquet.MapredParquetOutputFormat"
	parquetSerDe        = "org.apache.hadoop.hive.ql.io.parquet.serde.ParquetHiveSerDe"

	// service limits per batch call
	createPartitionBatch = 100
	deletePartitionBatch = 25
)

// GlueCatalog synchronizes tables into the AWS Glue Data Catalog.
type GlueCatalog struct {
	client glueiface.GlueAPI
	log    logger.Logger
}

// NewGlueCatalog returns a catalog backed by client.
func NewGlueCatalog(client glueiface.GlueAPI, log logger.Logger) *GlueCatalog {
	if log == nil {
		log = logger.NopLogger
	}
	return &GlueCatalog{client: client, log: log}
}

// NewGlueClient returns a Glue client for sess, optionally in another region.
func NewGlueClient(sess *session.Session, region string) *glue.Glue {
	if region == "" {
		return glue.New(sess)
	}
	return glue.New(sess, aws.NewConfig().WithRegion(region))
}

// Close is a no-op.
func (g *GlueCatalog) Close() error { return nil }

// SyncTable implements Catalog.
func (g *GlueCatalog) SyncTable(ctx context.Context, def TableDef) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if err := g.ensureDatabase(ctx, def.Database); err != nil {
		return err
	}
	if err := g.upsertTable(ctx, def); err != nil {
		return err
	}
	if def.ReplacePartitions {
		if err := g.dropStalePartitions(ctx, def); err != nil {
			return err
		}
	}
	return g.createPartitions(ctx, def)
}

func (g *GlueCatalog) ensureDatabase(ctx context.Context, name string) error {
	_, err := g.client.CreateDatabaseWithContext(ctx, &glue.CreateDatabaseInput{
		DatabaseInput: &glue.DatabaseInput{Name: aws.String(name)},
	})
	if err != nil && !hasCode(err, glue.ErrCodeAlreadyExistsException) {
		return errors.Wrapf(err, "creating database %v", name)
	}
	return nil
}

func (g *GlueCatalog) upsertTable(ctx context.Context, def TableDef) error {
	input := tableInput(def)
	_, err := g.client.GetTableWithContext(ctx, &glue.GetTableInput{
		DatabaseName: aws.String(def.Database),
		Name:         aws.String(def.Name),
	})
	switch {
	case hasCode(err, glue.ErrCodeEntityNotFoundException):
		if _, err := g.client.CreateTableWithContext(ctx, &glue.CreateTableInput{
			DatabaseName: aws.String(def.Database),
			TableInput:   input,
		}); err != nil {
			return errors.Wrapf(err, "creating table %v", def.QualifiedName())
		}
		g.log.Infof("created table %s", def.QualifiedName())
	case err != nil:
		return errors.Wrapf(err, "getting table %v", def.QualifiedName())
	default:
		if _, err := g.client.UpdateTableWithContext(ctx, &glue.UpdateTableInput{
			DatabaseName: aws.String(def.Database),
			TableInput:   input,
		}); err != nil {
			return errors.Wrapf(err, "updating table %v", def.QualifiedName())
		}
		g.log.Debugf("updated table %s", def.QualifiedName())
	}
	return nil
}

func (g *GlueCatalog) createPartitions(ctx context.Context, def TableDef) error {
	for start := 0; start < len(def.Partitions); start += createPartitionBatch {
		end := min(start+createPartitionBatch, len(def.Partitions))
		inputs := make([]*glue.PartitionInput, 0, end-start)
		for _, p := range def.Partitions[start:end] {
			inputs = append(inputs, &glue.PartitionInput{
				Values:            aws.StringSlice(p.Values),
				StorageDescriptor: storageDescriptor(def.Columns, p.Location),
			})
		}
		out, err := g.client.BatchCreatePartitionWithContext(ctx, &glue.BatchCreatePartitionInput{
			DatabaseName:       aws.String(def.Database),
			TableName:          aws.String(def.Name),
			PartitionInputList: inputs,
		})
		if err != nil {
			return errors.Wrapf(err, "creating partitions of %v", def.QualifiedName())
		}
		if err := partitionErrors(out.Errors); err != nil {
			return errors.Wrapf(err, "creating partitions of %v", def.QualifiedName())
		}
	}
	g.log.Debugf("registered %d partitions of %s", len(def.Partitions), def.QualifiedName())
	return nil
}

// dropStalePartitions deletes registered partitions that def no longer lists.
func (g *GlueCatalog) dropStalePartitions(ctx context.Context, def TableDef) error {
	keep := make(map[string]bool, len(def.Partitions))
	for _, p := range def.Partitions {
		keep[def.PartitionName(p)] = true
	}

	var stale []*glue.PartitionValueList
	err := g.client.GetPartitionsPagesWithContext(ctx, &glue.GetPartitionsInput{
		DatabaseName: aws.String(def.Database),
		TableName:    aws.String(def.Name),
	}, func(page *glue.GetPartitionsOutput, _ bool) bool {
		for _, p := range page.Partitions {
			values := aws.StringValueSlice(p.Values)
			if len(values) != len(def.PartitionKeys) || !keep[def.PartitionName(Partition{Values: values})] {
				stale = append(stale, &glue.PartitionValueList{Values: p.Values})
			}
		}
		return true
	})
	if err != nil {
		return errors.Wrapf(err, "listing partitions of %v", def.QualifiedName())
	}

	for start := 0; start < len(stale); start += deletePartitionBatch {
		end := min(start+deletePartitionBatch, len(stale))
		out, err := g.client.BatchDeletePartitionWithContext(ctx, &glue.BatchDeletePartitionInput{
			DatabaseName:       aws.String(def.Database),
			TableName:          aws.String(def.Name),
			PartitionsToDelete: stale[start:end],
		})
		if err != nil {
			return errors.Wrapf(err, "deleting partitions of %v", def.QualifiedName())
		}
		if err := partitionErrors(out.Errors); err != nil {
			return errors.Wrapf(err, "deleting partitions of %v", def.QualifiedName())
		}
	}
	if len(stale) > 0 {
		g.log.Infof("dropped %d partitions of %s", len(stale), def.QualifiedName())
	}
	return nil
}

// partitionErrors reports the first per-partition failure other than
// AlreadyExists.
func partitionErrors(errs []*glue.PartitionError) error {
	for _, e := range errs {
		if e.ErrorDetail == nil {
			continue
		}
		code := aws.StringValue(e.ErrorDetail.ErrorCode)
		if code == glue.ErrCodeAlreadyExistsException || code == glue.ErrCodeEntityNotFoundException {
			continue
		}
		return fmt.Errorf("partition %v: %s: %s", aws.StringValueSlice(e.PartitionValues), code, aws.StringValue(e.ErrorDetail.ErrorMessage))
	}
	return nil
}

func tableInput(def TableDef) *glue.TableInput {
	params := map[string]*string{
		"classification": aws.String("parquet"),
		"EXTERNAL":       aws.String("TRUE"),
	}
	for k, v := range def.Parameters {
		params[k] = aws.String(v)
	}
	in := &glue.TableInput{
		Name:              aws.String(def.Name),
		TableType:         aws.String("EXTERNAL_TABLE"),
		Parameters:        params,
		PartitionKeys:     glueColumns(def.PartitionKeys),
		StorageDescriptor: storageDescriptor(def.Columns, def.Location),
	}
	if def.Description != "" {
		in.Description = aws.String(def.Description)
	}
	return in
}

func storageDescriptor(cols []Column, location string) *glue.StorageDescriptor {
	return &glue.StorageDescriptor{
		Columns:      glueColumns(cols),
		Location:     aws.String(location),
		InputFormat:  aws.String(parquetInputFormat),
		OutputFormat: aws.String(parquetOutputFormat),
		SerdeInfo: &glue.SerDeInfo{
			SerializationLibrary: aws.String(parquetSerDe),
			Parameters:           map[string]*string{"serialization.format": aws.String("1")},
		},
	}
}

func glueColumns(cols []Column) []*glue.Column {
	out := make([]*glue.Column, len(cols))
	for i, c := range cols {
		out[i] = &glue.Column{Name: aws.String(c.Name), Type: aws.String(c.Type)}
	}
	return out
}

func hasCode(err error, code string) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		return aerr.Code() == code
	}
	return false
}
