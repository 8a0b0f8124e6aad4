package pipeline_test

import (
	"bytes"
	"context"
	"io"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// MockStore is a mock implementation of storage.Store for testing.
type MockStore struct {
	OpenFunc   func(ctx context.Context, uri string) (io.ReadCloser, error)
	CreateFunc func(ctx context.Context, uri string) (io.WriteCloser, error)
}

func (m *MockStore) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, uri)
	}
	return nil, domain.ErrFileNotFound
}

func (m *MockStore) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, uri)
	}
	return &bufferWriter{}, nil
}

// MockFeatureExporter is a mock implementation of FeatureExporter for testing.
type MockFeatureExporter struct {
	ExportFeaturesFunc func(ctx context.Context, run domain.FeatureRun, rows []domain.CustomerFeatures) error
}

func (m *MockFeatureExporter) ExportFeatures(ctx context.Context, run domain.FeatureRun, rows []domain.CustomerFeatures) error {
	if m.ExportFeaturesFunc != nil {
		return m.ExportFeaturesFunc(ctx, run, rows)
	}
	return nil
}

type bufferWriter struct {
	bytes.Buffer
	closed  bool
	aborted bool
}

func (w *bufferWriter) Close() error {
	w.closed = true
	return nil
}

func (w *bufferWriter) Abort() error {
	w.aborted = true
	return nil
}

// memoryStore serves fixed inputs and records every created object.
func memoryStore(inputs map[string]string, outputs map[string]*bufferWriter) *MockStore {
	return &MockStore{
		OpenFunc: func(_ context.Context, uri string) (io.ReadCloser, error) {
			body, ok := inputs[uri]
			if !ok {
				return nil, domain.ErrFileNotFound
			}
			return io.NopCloser(bytes.NewBufferString(body)), nil
		},
		CreateFunc: func(_ context.Context, uri string) (io.WriteCloser, error) {
			w := &bufferWriter{}
			outputs[uri] = w
			return w, nil
		},
	}
}
