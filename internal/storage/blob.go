package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
)

// gcsBlobStore writes file bytes to a Cloud Storage bucket and resolves a
// fetchable URL appropriate to the current environment (emulator vs cloud).
type gcsBlobStore struct {
	bucket       *gcs.BucketHandle
	bucketName   string
	emulatorHost string
}

// NewGCSBlobStore creates a blob store over the supplied bucket. When
// emulatorHost is non-empty, objects resolve to emulator URLs and are not
// made public.
func NewGCSBlobStore(bucket *gcs.BucketHandle, bucketName, emulatorHost string) BlobStore {
	return &gcsBlobStore{
		bucket:       bucket,
		bucketName:   bucketName,
		emulatorHost: emulatorHost,
	}
}

func (s *gcsBlobStore) Write(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	obj := s.bucket.Object(path)

	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(content)); err != nil {
		return "", fmt.Errorf("write object %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close object writer %s: %w", path, err)
	}

	if s.emulatorHost != "" {
		encoded := url.QueryEscape(path)
		return fmt.Sprintf("http://%s/v0/b/%s/o/%s?alt=media", s.emulatorHost, s.bucketName, encoded), nil
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("make object public %s: %w", path, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, path), nil
}

func (s *gcsBlobStore) Delete(ctx context.Context, path string) error {
	if err := s.bucket.Object(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete object %s: %w", path, err)
	}
	return nil
}
