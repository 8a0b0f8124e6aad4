package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// Local is a Store backed by the local filesystem.
type Local struct{}

// Open opens the file at path.
func (Local) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open %q: %w", path, domain.ErrFileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return f, nil
}

// Create creates missing parent directories and returns a writer to a
// temporary sibling file that replaces path on Close.
func (Local) Create(_ context.Context, path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", path, err)
	}
	return &localWriter{File: tmp, path: path}, nil
}

type localWriter struct {
	*os.File
	path string
}

func (w *localWriter) Close() error {
	if err := w.File.Close(); err != nil {
		_ = os.Remove(w.Name())
		return fmt.Errorf("close %q: %w", w.path, err)
	}
	if err := os.Chmod(w.Name(), 0o644); err != nil {
		_ = os.Remove(w.Name())
		return fmt.Errorf("chmod %q: %w", w.path, err)
	}
	if err := os.Rename(w.Name(), w.path); err != nil {
		_ = os.Remove(w.Name())
		return fmt.Errorf("rename to %q: %w", w.path, err)
	}
	return nil
}

func (w *localWriter) Abort() error {
	_ = w.File.Close()
	return os.Remove(w.Name())
}
