package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig describes an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Prefix is prepended to every object name, e.g. "exports/".
	Prefix string
}

// Validate checks that the config names an endpoint and a bucket.
func (c MinioConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: s3 endpoint is required", ErrInvalidConfig)
	}
	if c.Bucket == "" {
		return fmt.Errorf("%w: s3 bucket is required", ErrInvalidConfig)
	}
	return nil
}

// MinioStore keeps artifacts in an S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// Compile-time interface check.
var _ Store = (*MinioStore)(nil)

// NewMinioStore connects to the bucket, creating it when missing.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: checking bucket %s: %v", ErrStore, cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%w: creating bucket %s: %v", ErrStore, cfg.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (m *MinioStore) objectName(key string) string {
	return m.prefix + key
}

// Put uploads data under key.
func (m *MinioStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validatePut(key, data); err != nil {
		return err
	}

	_, err := m.client.PutObject(ctx, m.bucket, m.objectName(key),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: ContentType})
	if err != nil {
		return fmt.Errorf("%w: uploading %s: %v", ErrStore, key, err)
	}
	return nil
}

// Get downloads the artifact stored under key.
func (m *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, m.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, m.mapError(key, err)
	}
	defer func() { _ = obj.Close() }()

	// GetObject is lazy; a missing key surfaces on first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, m.mapError(key, err)
	}
	return data, nil
}

func (m *MinioStore) mapError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fmt.Errorf("%w: downloading %s: %v", ErrStore, key, err)
}
