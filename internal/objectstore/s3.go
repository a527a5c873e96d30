// Package objectstore implements the gateway to the S3-compatible storage
// that holds the audio files referenced by recordings.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/config"
)

// S3Gateway talks to an S3-compatible endpoint (MinIO-style static
// credentials plus a base endpoint).
type S3Gateway struct {
	client   *s3.Client
	bucket   string
	endpoint string
	log      *slog.Logger
}

// New constructs the gateway and its S3 client once at process start.
func New(ctx context.Context, cfg config.ObjectStorage, log *slog.Logger) (*S3Gateway, error) {
	const op = "objectstore.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Gateway{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		log:      log,
	}, nil
}

// Upload stores the object under key with public-read access.
func (g *S3Gateway) Upload(ctx context.Context, data []byte, key, contentType string) error {
	const op = "objectstore.Upload"

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	g.log.Info("uploaded object", slog.String("key", key))
	return nil
}

// Delete removes the object under key. A missing object counts as deleted.
func (g *S3Gateway) Delete(ctx context.Context, key string) error {
	const op = "objectstore.Delete"

	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			g.log.Warn("object already absent, proceeding as deleted", slog.String("key", key))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	g.log.Info("deleted object", slog.String("key", key))
	return nil
}

// PublicURL returns the public viewer URL for an object key.
func (g *S3Gateway) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", g.endpoint, g.bucket, key)
}

// NewStorageKey generates a collision-resistant object key for an uploaded
// file, preserving its extension.
func NewStorageKey(filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("recordings/%d-%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
}
