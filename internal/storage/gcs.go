package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage implements the Storage interface for Google Cloud Storage
type GCSStorage struct {
	client       *storage.Client
	bucket       string
	objectPrefix string
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, credentialsFile string) (*GCSStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		// Use application default credentials
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client:       client,
		bucket:       bucketName,
		objectPrefix: strings.Trim(objectPrefix, "/"),
	}, nil
}

func (s *GCSStorage) objectName(path string) string {
	objectName := strings.TrimPrefix(path, "/")
	if s.objectPrefix != "" {
		objectName = s.objectPrefix + "/" + objectName
	}
	return objectName
}

// GetWriter returns a writer for an object. The object is committed when the
// writer is closed.
func (s *GCSStorage) GetWriter(ctx context.Context, path string) (io.WriteCloser, error) {
	w := s.client.Bucket(s.bucket).Object(s.objectName(path)).NewWriter(ctx)
	w.ContentType = contentTypeFor(path)
	return w, nil
}

// FileExists checks if an object exists
func (s *GCSStorage) FileExists(ctx context.Context, path string) bool {
	_, err := s.client.Bucket(s.bucket).Object(s.objectName(path)).Attrs(ctx)
	return err == nil
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
