package minio_storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type UploadStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewUploadStorage(ctx context.Context, storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*UploadStorage, error) {
	if err := storage.ensureBucket(ctx, bucketName); err != nil {
		return nil, err
	}
	return &UploadStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

// Put stores the object under <folder>/<yyyy>/<mm>/<uuid><ext> and returns its key.
func (s *UploadStorage) Put(
	ctx context.Context,
	folder string,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (objectKey string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	now := time.Now().UTC()
	objectKey = path.Join(folder, now.Format("2006"), now.Format("01"), uuid.NewString()+ext)

	_, err = s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		reader,
		size,
		minio.PutObjectOptions{
			ContentType:        contentType,
			ContentDisposition: fmt.Sprintf("inline; filename=%q", filepath.Base(filename)),
		},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *UploadStorage) PresignedURL(ctx context.Context, objectKey string) (string, error) {
	presignedURL, err := s.storage.client.PresignedGetObject(
		ctx,
		s.bucket,
		objectKey,
		s.presignedTTL,
		make(url.Values),
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (s *UploadStorage) Delete(ctx context.Context, objectKey string) error {
	return s.storage.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}

// Ping reports whether the upload bucket is reachable.
func (s *UploadStorage) Ping(ctx context.Context) error {
	exists, err := s.storage.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}
