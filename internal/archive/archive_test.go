// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package archive

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/tmsync/internal/testlib"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	headErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	content, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = content
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart upload not supported")
}

func (f *fakeS3) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload not supported")
}

func (f *fakeS3) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload not supported")
}

func (f *fakeS3) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]; !ok {
		return nil, &smithy.GenericAPIError{Code: notFoundCode}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(content))}, nil
}

func TestS3Archive(t *testing.T) {
	client := newFakeS3()
	archive := NewWithClient(client, "translations", "/tmsync/", testlib.MakeLogger(t))
	ctx := context.Background()

	assert.Equal(t, "tmsync/node:1/es/rev-1", archive.Key("node:1", "es", "rev-1"))

	t.Run("missing translation", func(t *testing.T) {
		exists, err := archive.HasTranslation(ctx, "node:1", "es", "rev-1")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("store and fetch", func(t *testing.T) {
		err := archive.StoreTranslation(ctx, "node:1", "es", "rev-1", []byte("Hola"))
		require.NoError(t, err)

		exists, err := archive.HasTranslation(ctx, "node:1", "es", "rev-1")
		require.NoError(t, err)
		assert.True(t, exists)

		content, err := archive.GetTranslation(ctx, "node:1", "es", "rev-1")
		require.NoError(t, err)
		assert.Equal(t, "Hola", string(content))
	})

	t.Run("fetch unknown revision", func(t *testing.T) {
		_, err := archive.GetTranslation(ctx, "node:1", "es", "rev-2")
		assert.Error(t, err)
	})
}

func TestHasTranslationErrors(t *testing.T) {
	var testCases = []struct {
		testName string
		headErr  error
	}{
		{"missing bucket", &smithy.GenericAPIError{Code: noSuchBucketCode}},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}},
		{"network failure", errors.New("connection reset")},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			client := newFakeS3()
			client.headErr = tc.headErr
			archive := NewWithClient(client, "translations", "", testlib.MakeLogger(t))

			exists, err := archive.HasTranslation(context.Background(), "node:1", "es", "rev-1")
			assert.Error(t, err)
			assert.False(t, exists)
		})
	}
}
