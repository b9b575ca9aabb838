package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"avtobot/internal/app/config"
	"avtobot/internal/platform/logger"
)

// MinIOStorage uploads photos to an S3-compatible bucket and stores the
// object URL in the database instead of a local path.
type MinIOStorage struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

func NewMinIOStorage(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (*MinIOStorage, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", cfg.MinIOEndpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, cfg.MinIOBucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", cfg.MinIOBucket, err)
		}
	}

	return &MinIOStorage{client: client, bucket: cfg.MinIOBucket, log: log}, nil
}

func (s *MinIOStorage) Save(ctx context.Context, originalFileName string, data []byte) (string, error) {
	key := "photos/" + objectName(originalFileName)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.log.Errorf("MinIOStorage.Save: PutObject failed for %s: %v", key, err)
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}
	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
	s.log.Debugf("MinIOStorage.Save: uploaded %s", url)
	return url, nil
}
