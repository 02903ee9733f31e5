package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"addressbook-backend/internal/config"
)

// MinIODriver stores photos in an S3 compatible bucket.
type MinIODriver struct {
	client *minio.Client
	bucket string
}

// NewMinIODriver connects and creates the bucket when it does not exist yet.
func NewMinIODriver(ctx context.Context, cfg config.MinIOConfig) (*MinIODriver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIODriver{client: client, bucket: cfg.Bucket}, nil
}

func (d *MinIODriver) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := d.client.PutObject(
		ctx,
		d.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to upload to minio: %w", err)
	}
	return nil
}

// Remove is idempotent: RemoveObject does not fail for missing keys.
func (d *MinIODriver) Remove(ctx context.Context, key string) error {
	if err := d.client.RemoveObject(ctx, d.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (d *MinIODriver) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	st, err := d.client.StatObject(ctx, d.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, ErrPhotoNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("failed to stat object: %w", err)
	}

	object, err := d.client.GetObject(ctx, d.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("failed to get object: %w", err)
	}

	return object, ObjectInfo{Size: st.Size, ContentType: st.ContentType}, nil
}
