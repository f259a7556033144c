// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package archive keeps a copy of every downloaded translation in S3.
package archive

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultAWSRegion        = "us-east-1"
	defaultAWSClientRetries = 3

	// S3 answers HeadObject for a missing key with this code rather than
	// NoSuchKey.
	notFoundCode     = "NotFound"
	noSuchBucketCode = "NoSuchBucket"
)

// S3API is the subset of the S3 client used by the archive.
type S3API interface {
	manager.UploadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Archive stores translations under <prefix>/<entity>/<langcode>/<revision>.
type S3Archive struct {
	client   S3API
	uploader *manager.Uploader
	bucket   string
	prefix   string
	logger   log.FieldLogger
}

// NewAWSConfig creates an AWS configuration with the default region and
// client retries applied.
func NewAWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(
		ctx,
		config.WithDefaultRegion(defaultAWSRegion),
		config.WithRetryMaxAttempts(defaultAWSClientRetries),
	)
}

// New creates an S3Archive from the default AWS configuration.
func New(ctx context.Context, bucket, prefix string, logger log.FieldLogger) (*S3Archive, error) {
	cfg, err := NewAWSConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}
	return NewWithClient(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

// NewWithClient creates an S3Archive using the given client.
func NewWithClient(client S3API, bucket, prefix string, logger log.FieldLogger) *S3Archive {
	return &S3Archive{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		logger:   logger.WithField("bucket", bucket),
	}
}

// Key returns the object key of a translation revision.
func (a *S3Archive) Key(entityKey, langcode, revision string) string {
	return path.Join(a.prefix, entityKey, langcode, revision)
}

// StoreTranslation uploads a downloaded translation.
func (a *S3Archive) StoreTranslation(ctx context.Context, entityKey, langcode, revision string, content []byte) error {
	key := a.Key(entityKey, langcode, revision)
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to archive translation %s", key)
	}

	a.logger.WithField("key", key).Debug("Translation archived")
	return nil
}

// HasTranslation reports whether a translation revision was archived.
func (a *S3Archive) HasTranslation(ctx context.Context, entityKey, langcode, revision string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.Key(entityKey, langcode, revision)),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case notFoundCode:
				return false, nil
			case noSuchBucketCode:
				return false, errors.Errorf("bucket %s does not exist", a.bucket)
			}
		}
		return false, errors.Wrap(err, "failed to look up archived translation")
	}

	return true, nil
}

// GetTranslation returns an archived translation revision.
func (a *S3Archive) GetTranslation(ctx context.Context, entityKey, langcode, revision string) ([]byte, error) {
	key := a.Key(entityKey, langcode, revision)
	output, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch archived translation %s", key)
	}
	defer output.Body.Close()

	content, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read archived translation %s", key)
	}
	return content, nil
}
