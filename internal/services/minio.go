package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/AnshRaj112/phonebook-backend/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const minioAvatarPrefix = "avatars"

// MinioAvatarStore uploads avatars to an S3-compatible bucket.
type MinioAvatarStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioAvatarStore builds the client and makes sure the bucket exists.
func NewMinioAvatarStore(ctx context.Context, cfg *config.Config) (*MinioAvatarStore, error) {
	if strings.TrimSpace(cfg.MinioBucket) == "" {
		return nil, errors.New("minio bucket is required")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioAvatarStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: minioPublicURL(cfg),
	}, nil
}

func (s *MinioAvatarStore) Save(ctx context.Context, localPath, name string) (string, error) {
	key := path.Join(minioAvatarPrefix, name)
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return s.publicURL + "/" + s.bucket + "/" + key, nil
}

func minioPublicURL(cfg *config.Config) string {
	if cfg.MinioPublicURL != "" {
		return cfg.MinioPublicURL
	}
	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.MinioEndpoint
}
