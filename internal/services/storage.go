package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

// ImageStorage uploads product and banner images to MinIO.
type ImageStorage struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

func NewImageStorage(client *minio.Client, bucket, endpoint string, useSSL bool) *ImageStorage {
	return &ImageStorage{client: client, bucket: bucket, endpoint: endpoint, useSSL: useSSL}
}

func (s *ImageStorage) Enabled() bool {
	return s.client != nil
}

// Upload stores one multipart file under prefix/ and returns its public URL.
// Object names are random so re-uploads never clobber each other.
func (s *ImageStorage) Upload(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error) {
	if s.client == nil {
		return "", models.NewAppError("STORAGE_UNAVAILABLE", "image storage is not configured")
	}
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	object := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), filepath.Ext(file.Filename))
	_, err = s.client.PutObject(ctx, s.bucket, object, f, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", object, err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, object), nil
}
