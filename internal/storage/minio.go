package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions configures an S3-compatible endpoint.
type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// MinIOStorage implements the Storage interface for S3-compatible object
// stores.
type MinIOStorage struct {
	client       *minio.Client
	bucket       string
	objectPrefix string
}

// NewMinIOStorage connects to the endpoint and checks that bucket exists.
func NewMinIOStorage(ctx context.Context, opts MinIOOptions, bucket, objectPrefix string) (*MinIOStorage, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required for bucket %s", bucket)
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}
	slog.Debug("Connected to object store", "endpoint", opts.Endpoint, "bucket", bucket)

	return &MinIOStorage{
		client:       client,
		bucket:       bucket,
		objectPrefix: strings.Trim(objectPrefix, "/"),
	}, nil
}

func (s *MinIOStorage) objectName(path string) string {
	objectName := strings.TrimPrefix(path, "/")
	if s.objectPrefix != "" {
		objectName = s.objectPrefix + "/" + objectName
	}
	return objectName
}

// GetWriter streams written bytes into a single PutObject call. Close
// returns once the upload has finished.
func (s *MinIOStorage) GetWriter(ctx context.Context, path string) (io.WriteCloser, error) {
	pr, pw := io.Pipe()
	w := &objectWriter{pw: pw, done: make(chan error, 1)}

	objectName := s.objectName(path)
	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, objectName, pr, -1, minio.PutObjectOptions{
			ContentType: contentTypeFor(path),
		})
		pr.CloseWithError(err)
		w.done <- err
	}()

	return w, nil
}

// FileExists checks if an object exists
func (s *MinIOStorage) FileExists(ctx context.Context, path string) bool {
	_, err := s.client.StatObject(ctx, s.bucket, s.objectName(path), minio.StatObjectOptions{})
	return err == nil
}

func (s *MinIOStorage) Close() error {
	return nil
}

type objectWriter struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *objectWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	if err := <-w.done; err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}
