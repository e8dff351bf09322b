// Package loader turns a document reference (URL or file path) into plain
// text ready for chunking. One loader per document type, selected by the
// type string stored on the document record.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrUnsupportedType is returned for a document type no loader handles.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrSourceUnavailable tags fetch and open failures. The caller may
	// retry the whole ingestion; loaders never retry internally.
	ErrSourceUnavailable = errors.New("document source unavailable")
)

// Loader fetches one document's raw content as plain text.
type Loader interface {
	Load(ctx context.Context) (string, error)
}

// Factory builds a loader bound to a document path.
type Factory func(path string) Loader

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewDefaultRegistry wires the supported document types.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("web_page", func(path string) Loader { return NewWebPageLoader(path) })
	r.Register("pdf", func(path string) Loader { return pdfLoader{path: path} })
	r.Register("docx", func(path string) Loader { return docxLoader{path: path} })
	r.Register("xlsx", func(path string) Loader { return xlsxLoader{path: path} })
	r.Register("ods", func(path string) Loader { return odsLoader{path: path} })
	r.Register("markdown", func(path string) Loader { return markdownLoader{path: path} })
	r.Register("text", func(path string) Loader { return textLoader{path: path} })
	return r
}

func (r *Registry) Register(docType string, f Factory) {
	docType = strings.ToLower(strings.TrimSpace(docType))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[docType] = f
}

func (r *Registry) Get(docType, path string) (Loader, error) {
	docType = strings.ToLower(strings.TrimSpace(docType))
	r.mu.RLock()
	f, ok := r.factories[docType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, docType)
	}
	return f(path), nil
}
