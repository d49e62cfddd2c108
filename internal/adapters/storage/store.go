// Package storage keeps case document files in an S3-compatible bucket.
package storage

import (
	"context"
	"io"
	"time"
)

// DownloadLinkTTL is how long a presigned download stays valid.
const DownloadLinkTTL = 15 * time.Minute

// DownloadLink is a presigned GET for one object.
type DownloadLink struct {
	URL       string
	Key       string
	ExpiresAt time.Time
}

// Store is the object storage the documents module writes through. An
// implementation is bound to a single bucket.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	DownloadLink(ctx context.Context, key, fileName string) (DownloadLink, error)
	Remove(ctx context.Context, key string) error
}

// Config is the MinIO connection settings.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	IsMinIOEnabled() bool
}
