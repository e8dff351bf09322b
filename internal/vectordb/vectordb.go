// Package vectordb holds one adapter per supported vector backend. Every
// adapter exposes the same two operations: append chunks into a named
// collection (creating it if absent) and construct a similarity retriever
// over that collection.
package vectordb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
)

// ErrUnknownBackend is returned when a library names a vector backend that
// was never registered.
var ErrUnknownBackend = errors.New("unknown vector backend")

// Store is one vector backend. Ingest appends: after it returns, the
// collection holds the union of what was there before and docs, with no
// deduplication. Retriever is a read-only similarity handle.
type Store interface {
	Ingest(ctx context.Context, collection string, embedder embeddings.Embedder, docs []schema.Document) error
	Retriever(collection string, embedder embeddings.Embedder) (schema.Retriever, error)
}

// CollectionName derives a library's collection name from its UUID. The
// derivation is a contract: changing it orphans every existing collection.
func CollectionName(libraryID uuid.UUID) string {
	return strings.ReplaceAll(libraryID.String(), "-", "")
}

// Registry maps backend names to store instances. Stores are constructed
// once at startup and shared; the registry is read-only after that.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]Store
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]Store)}
}

func (r *Registry) Register(name string, s Store) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[name] = s
}

func (r *Registry) Get(name string) (Store, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	s, ok := r.stores[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return s, nil
}
