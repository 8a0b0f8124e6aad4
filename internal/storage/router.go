package storage

import (
	"context"
	"fmt"
	"io"
)

// RemoteFactory creates the store used for gs:// URIs.
type RemoteFactory func(ctx context.Context) (Store, error)

// Router dispatches each URI to the local or the remote store.
// The remote store is created on first use so purely local runs need no
// cloud credentials.
type Router struct {
	local     Store
	newRemote RemoteFactory
	remote    Store
}

// NewRouter creates a Router. newRemote may be nil, in which case remote URIs fail.
func NewRouter(newRemote RemoteFactory) *Router {
	return &Router{local: Local{}, newRemote: newRemote}
}

// Open implements Store.
func (r *Router) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	s, err := r.pick(ctx, uri)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, uri)
}

// Create implements Store.
func (r *Router) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	s, err := r.pick(ctx, uri)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, uri)
}

// Close releases the remote store if one was created.
func (r *Router) Close() error {
	if c, ok := r.remote.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *Router) pick(ctx context.Context, uri string) (Store, error) {
	if !IsRemote(uri) {
		return r.local, nil
	}
	if r.remote != nil {
		return r.remote, nil
	}
	if r.newRemote == nil {
		return nil, fmt.Errorf("storage: no remote store configured for %q", uri)
	}
	s, err := r.newRemote(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: creating remote store: %w", err)
	}
	r.remote = s
	return s, nil
}
