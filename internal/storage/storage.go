// Package storage addresses the pipeline's tables and model artifacts by URI.
// Plain paths go to the local filesystem; gs://bucket/object URIs go to a
// remote store created on first use.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Store provides URI-addressed blob access.
// This interface enables mocking and testing of storage functionality.
type Store interface {
	// Open returns a reader for uri. A missing object is reported with domain.ErrFileNotFound.
	Open(ctx context.Context, uri string) (io.ReadCloser, error)

	// Create returns a writer replacing uri in full once closed.
	Create(ctx context.Context, uri string) (io.WriteCloser, error)
}

// Aborter is implemented by writers that can discard what was written so far.
type Aborter interface {
	Abort() error
}

// RemoteScheme prefixes object URIs handled by the remote store.
const RemoteScheme = "gs://"

// IsRemote reports whether uri names a remote object.
func IsRemote(uri string) bool {
	return strings.HasPrefix(uri, RemoteScheme)
}

// ReadFile opens uri on s and hands the reader to fn.
func ReadFile(ctx context.Context, s Store, uri string, fn func(r io.Reader) error) error {
	rc, err := s.Open(ctx, uri)
	if err != nil {
		return err
	}
	defer rc.Close()

	return fn(rc)
}

// WriteFile creates uri on s and hands the writer to fn. When fn fails the
// partial output is aborted so the previous content (if any) stays in place.
func WriteFile(ctx context.Context, s Store, uri string, fn func(w io.Writer) error) error {
	wc, err := s.Create(ctx, uri)
	if err != nil {
		return err
	}

	if err := fn(wc); err != nil {
		if a, ok := wc.(Aborter); ok {
			_ = a.Abort()
		} else {
			_ = wc.Close()
		}
		return err
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("WriteFile: finalizing %q: %w", uri, err)
	}
	return nil
}
