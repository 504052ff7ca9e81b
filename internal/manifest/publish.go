// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package manifest

import (
	"context"

	"github.com/apalominor/lakehouse-challenge/internal/logger"
	"github.com/apalominor/lakehouse-challenge/internal/storage"
)

// Publisher stores manifests in object storage.
type Publisher struct {
	Store storage.Store
	Log   logger.Logger
}

// Publish writes m to schema/<dataset>_config.yaml in bucket with a single
// put and returns where it went. Storage errors are returned as they come.
func (p *Publisher) Publish(ctx context.Context, bucket string, m *Manifest) (storage.Location, error) {
	loc := storage.Location{Bucket: bucket, Key: Key(m.Dataset)}
	body, err := m.Marshal()
	if err != nil {
		return loc, err
	}
	if err := p.Store.Put(ctx, loc.Bucket, loc.Key, body, ContentType); err != nil {
		return loc, err
	}
	if p.Log != nil {
		p.Log.Infof("manifest written to %v", loc)
	}
	return loc, nil
}
