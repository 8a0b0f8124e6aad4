// Package gcs stores pipeline tables and model artifacts in Google Cloud Storage.
// It assumes Application Default Credentials are configured
// (gcloud auth application-default login).
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// Store reads and writes gs:// objects through a shared storage client.
type Store struct {
	client *storage.Client
}

// NewStore creates a Store with its own storage client.
func NewStore(ctx context.Context) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewStore: create storage client: %w", err)
	}
	return NewStoreWithClient(client), nil
}

// NewStoreWithClient wraps an existing storage client.
func NewStoreWithClient(client *storage.Client) *Store {
	return &Store{client: client}
}

// Close closes the storage client.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Open returns a reader for the object at uri.
func (s *Store) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}

	rc, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return nil, fmt.Errorf("Open: object %s/%s: %w", bucket, object, domain.ErrFileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Open: reading object %s/%s: %w", bucket, object, err)
	}
	return rc, nil
}

// Create returns a writer uploading to uri. The object is only replaced
// when Close succeeds; Abort cancels the upload.
func (s *Store) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentTypeFor(object)
	w.ContentDisposition = contentDispositionFor(uri)

	return &objectWriter{Writer: w, cancel: cancel, uri: uri}, nil
}

type objectWriter struct {
	*storage.Writer
	cancel context.CancelFunc
	uri    string
}

func (w *objectWriter) Close() error {
	defer w.cancel()
	if err := w.Writer.Close(); err != nil {
		return fmt.Errorf("finalize upload %s: %w", w.uri, err)
	}
	return nil
}

func (w *objectWriter) Abort() error {
	w.cancel()
	_ = w.Writer.Close()
	return nil
}
