// Package blob wraps the external object store that holds profile photos,
// resumes, and project files.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rryowa/portfolio-backend/internal/util"
)

// Store is the blob storage contract: put bytes under a key and get back a
// public URL, delete by URL or key. Owns reports whether a URL points into
// this store; cleanup of replaced URLs is skipped for foreign hosts.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, urlOrKey string) error
	Owns(rawURL string) bool
}

type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStore(ctx context.Context, cfg *util.BlobConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &MinioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *MinioStore) Delete(ctx context.Context, urlOrKey string) error {
	key := s.keyFor(urlOrKey)
	if key == "" {
		return fmt.Errorf("url %q does not belong to this store", urlOrKey)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

func (s *MinioStore) Owns(rawURL string) bool {
	return s.keyFor(rawURL) != ""
}

// keyFor maps a stored public URL back to its object key. Plain keys (no
// scheme) pass through untouched.
func (s *MinioStore) keyFor(urlOrKey string) string {
	if !strings.Contains(urlOrKey, "://") {
		return urlOrKey
	}
	if !strings.HasPrefix(urlOrKey, s.publicURL+"/") {
		return ""
	}
	key := strings.TrimPrefix(urlOrKey, s.publicURL+"/")
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key
}
