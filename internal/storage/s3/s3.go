// Package s3 implements blob storage on any S3-compatible backend,
// including MinIO via a custom endpoint.
package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"vidtube/internal/storage"
)

// Config holds S3 client configuration.
type Config struct {
	Region    string
	Endpoint  string // empty for real AWS; set for MinIO and friends
	AccessKey string
	SecretKey string
	Bucket    string

	// PublicBaseURL is prepended to keys when building object URLs.
	// When empty, URLs use the virtual-hosted AWS form.
	PublicBaseURL string
}

// Storage implements storage.Storage on the AWS SDK S3 client.
type Storage struct {
	client *s3.Client
	cfg    Config
}

// New builds an S3 client from the given config. Static credentials
// are used when provided; otherwise the SDK's default chain applies.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO and most S3 clones only speak path-style.
			o.UsePathStyle = true
		}
	})

	return &Storage{client: client, cfg: cfg}, nil
}

// Upload stores the object and returns its key and public URL.
func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(input.Key),
		Body:          input.Data,
		ContentType:   aws.String(input.ContentType),
		ContentLength: aws.Int64(input.Size),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", input.Key, err)
	}

	url, err := s.GetURL(ctx, input.Key)
	if err != nil {
		return nil, err
	}

	return &storage.UploadResult{Key: input.Key, URL: url}, nil
}

// Delete removes the object. S3 treats deleting an absent key as
// success, which keeps the operation idempotent.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// GetURL returns the public URL for the given key.
func (s *Storage) GetURL(_ context.Context, key string) (string, error) {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(s.cfg.PublicBaseURL, "/") + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key), nil
}
