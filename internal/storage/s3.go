// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package storage

import (
	"bytes"
	"context"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

// S3Store is a Store backed by Amazon S3 or an S3 compatible service.
type S3Store struct {
	client s3iface.S3API
}

var _ Store = (*S3Store)(nil)

// NewS3Store wraps an existing S3 client.
func NewS3Store(client s3iface.S3API) *S3Store {
	return &S3Store{client: client}
}

// NewSession creates an AWS session. An empty region falls back to the
// SDK's environment and shared config resolution.
func NewSession(region, endpoint string, pathStyle bool) (*session.Session, error) {
	cfg := aws.NewConfig()
	if region != "" {
		cfg = cfg.WithRegion(region)
	}
	if endpoint != "" {
		cfg = cfg.WithEndpoint(endpoint)
	}
	if pathStyle {
		cfg = cfg.WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating aws session")
	}
	return sess, nil
}

func isNotFound(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchBucket, s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

// Get fetches the whole object.
func (s *S3Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	loc := Location{Bucket: bucket, Key: key}
	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Wrapf(ErrNotFound, "fetching S3 object %v", loc)
		}
		return nil, errors.Wrapf(err, "fetching S3 object %v", loc)
	}
	defer result.Body.Close() //nolint:errcheck

	buf, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading S3 object %v", loc)
	}
	return buf, nil
}

// Put uploads body in a single PutObject call.
func (s *S3Store) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return errors.Wrapf(err, "putting S3 object %v", Location{Bucket: bucket, Key: key})
	}
	return nil
}

// List pages through ListObjectsV2.
func (s *S3Store) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Wrapf(ErrNotFound, "listing %v", Location{Bucket: bucket, Key: prefix})
		}
		return nil, errors.Wrapf(err, "listing %v", Location{Bucket: bucket, Key: prefix})
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes a single object.
func (s *S3Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return errors.Wrapf(err, "deleting S3 object %v", Location{Bucket: bucket, Key: key})
	}
	return nil
}
