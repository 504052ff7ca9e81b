// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	body        []byte
	contentType string
}

// fakeS3 implements the subset of s3iface.S3API used by S3Store.
type fakeS3 struct {
	s3iface.S3API
	objects map[string]fakeObject
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]fakeObject{}}
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	obj, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.body))}, nil
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = fakeObject{body: body, contentType: aws.StringValue(in.ContentType)}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	var names []string
	for k := range f.objects {
		bucket, key, _ := strings.Cut(k, "/")
		if bucket == *in.Bucket && strings.HasPrefix(key, aws.StringValue(in.Prefix)) {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	// two pages to exercise pagination
	half := len(names) / 2
	for i, page := range [][]string{names[:half], names[half:]} {
		out := &s3.ListObjectsV2Output{}
		for _, n := range page {
			out.Contents = append(out.Contents, &s3.Object{Key: aws.String(n)})
		}
		if !fn(out, i == 1) {
			break
		}
	}
	return nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	s := NewS3Store(client)

	require.NoError(t, s.Put(ctx, "curated", "schema/customers_config.yaml", []byte("dataset: customers\n"), "text/yaml"))
	assert.Equal(t, "text/yaml", client.objects["curated/schema/customers_config.yaml"].contentType)

	got, err := s.Get(ctx, "curated", "schema/customers_config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "dataset: customers\n", string(got))

	for _, k := range []string{"raw/b.csv", "raw/a.csv", "raw/c.csv", "other/x.csv"} {
		require.NoError(t, s.Put(ctx, "landing", k, []byte("id\n1\n"), "text/csv"))
	}
	keys, err := s.List(ctx, "landing", "raw/")
	require.NoError(t, err)
	assert.Equal(t, []string{"raw/a.csv", "raw/b.csv", "raw/c.csv"}, keys)

	require.NoError(t, s.Delete(ctx, "landing", "raw/a.csv"))
	_, err = s.Get(ctx, "landing", "raw/a.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Store_PutErrorSurfaces(t *testing.T) {
	client := newFakeS3()
	client.putErr = awserr.New("AccessDenied", "denied", nil)
	s := NewS3Store(client)

	err := s.Put(context.Background(), "curated", "k", []byte("x"), "")
	require.Error(t, err)
	var aerr awserr.Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "AccessDenied", aerr.Code())
}
