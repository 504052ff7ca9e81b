// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/apalominor/lakehouse-challenge/internal/catalog"
	"github.com/apalominor/lakehouse-challenge/internal/config"
	"github.com/apalominor/lakehouse-challenge/internal/logger"
	"github.com/apalominor/lakehouse-challenge/internal/storage"
)

// backends lazily creates the AWS session shared by S3 and Glue.
type backends struct {
	cfg  *config.Job
	log  logger.Logger
	sess *session.Session
}

func (b *backends) session() (*session.Session, error) {
	if b.sess != nil {
		return b.sess, nil
	}
	st := b.cfg.Storage
	sess, err := storage.NewSession(st.Region, st.Endpoint, st.PathStyle)
	if err != nil {
		return nil, err
	}
	b.sess = sess
	return sess, nil
}

func (b *backends) store() (storage.Store, error) {
	if root := b.cfg.Storage.LocalRoot; root != "" {
		b.log.Debugf("serving buckets from %s", root)
		return storage.NewFSStore(root), nil
	}
	sess, err := b.session()
	if err != nil {
		return nil, err
	}
	return storage.NewS3Store(s3.New(sess)), nil
}

func (b *backends) catalog(ctx context.Context) (catalog.Catalog, error) {
	switch c := b.cfg.Catalog; c.Type {
	case config.CatalogSQL:
		return catalog.NewSQLCatalog(ctx, c.Driver, c.DSN, b.log)
	case config.CatalogGlue:
		sess, err := b.session()
		if err != nil {
			return nil, err
		}
		return catalog.NewGlueCatalog(catalog.NewGlueClient(sess, c.Region), b.log), nil
	default:
		return nil, fmt.Errorf("unsupported catalog %q", c.Type)
	}
}
