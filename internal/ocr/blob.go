package ocr

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStore uploads PDF chunks to object storage and mints time-bounded
// signed read URLs for the extraction model.
type BlobStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

type BlobOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Expiry bounds the signed read URL lifetime.
	Expiry time.Duration
}

func NewBlobStore(opts BlobOptions) (*BlobStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object store: %w", err)
	}
	expiry := opts.Expiry
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	return &BlobStore{client: client, bucket: opts.Bucket, expiry: expiry}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (b *BlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", b.bucket, err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
	}
	return nil
}

// UploadSigned uploads the chunk under the given key, overwriting any
// previous object, and returns a signed read URL.
func (b *BlobStore) UploadSigned(ctx context.Context, key string, data []byte) (string, error) {
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	signed, err := b.client.PresignedGetObject(ctx, b.bucket, key, b.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", key, err)
	}
	return signed.String(), nil
}
