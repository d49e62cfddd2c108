package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore stores objects in one MinIO bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// NewMinIOStore connects to MinIO for bucket. It does not touch the network;
// call EnsureBucket to verify the server is reachable.
func NewMinIOStore(cfg Config, bucket string) (*MinIOStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, errors.New("minio endpoint is not configured")
	}
	if bucket == "" {
		return nil, errors.New("minio bucket name is empty")
	}
	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinIOStore{client: client, bucket: bucket, now: time.Now}, nil
}

// Bucket returns the bucket name the store writes to.
func (s *MinIOStore) Bucket() string { return s.bucket }

// EnsureBucket creates the bucket when it is missing.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinIOStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if _, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// DownloadLink presigns a GET whose response saves as fileName.
func (s *MinIOStore) DownloadLink(ctx context.Context, key, fileName string) (DownloadLink, error) {
	params := url.Values{}
	if fileName != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	}
	expires := s.now().Add(DownloadLinkTTL)
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, DownloadLinkTTL, params)
	if err != nil {
		return DownloadLink{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return DownloadLink{URL: u.String(), Key: key, ExpiresAt: expires}, nil
}

func (s *MinIOStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

var _ Store = (*MinIOStore)(nil)
