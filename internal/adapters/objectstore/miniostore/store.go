package miniostore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"therapy-journal/internal/ports/objectstore"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Store implementa objectstore.Store contra MinIO / S3-compatible.
type Store struct {
	client *minio.Client
}

func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

// SignedURL emite una URL presignada de lectura para un objeto.
// Falla cerrado: si el objeto no existe (o el backend niega el stat)
// devolvemos ErrLinkUnavailable, nunca una URL hacia la nada.
func (s *Store) SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	bucket = strings.TrimSpace(bucket)
	path = strings.TrimSpace(path)
	if bucket == "" || path == "" {
		return "", objectstore.ErrLinkUnavailable
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	if _, err := s.client.StatObject(ctx, bucket, path, minio.StatObjectOptions{}); err != nil {
		return "", fmt.Errorf("%w: %v", objectstore.ErrLinkUnavailable, err)
	}

	u, err := s.client.PresignedGetObject(ctx, bucket, path, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", objectstore.ErrLinkUnavailable, err)
	}
	return u.String(), nil
}

func (s *Store) Remove(ctx context.Context, bucket, path string) error {
	bucket = strings.TrimSpace(bucket)
	path = strings.TrimSpace(path)
	if bucket == "" || path == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, bucket, path, minio.RemoveObjectOptions{})
}
