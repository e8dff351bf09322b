package embedding

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/embeddings"

	"librarychat/internal/config"
)

// ErrUnknownProvider is returned when a library names an embedding provider
// that was never registered. Provider names are stored on libraries, so an
// unknown name is caller misconfiguration, never a fallback.
var ErrUnknownProvider = errors.New("unknown embedding provider")

// Factory builds a ready-to-use embedder for one provider.
type Factory func() (embeddings.Embedder, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewDefaultRegistry wires the providers known to this deployment.
func NewDefaultRegistry(cfg *config.EmbeddingConfig) *Registry {
	r := NewRegistry()
	r.Register("cohere", func() (embeddings.Embedder, error) {
		return NewCohereEmbedder(&cfg.Cohere)
	})
	r.Register("dashscope", func() (embeddings.Embedder, error) {
		return NewDashscopeEmbedder(&cfg.Dashscope)
	})
	r.Register("openai", func() (embeddings.Embedder, error) {
		return NewOpenAIEmbedder(&cfg.OpenAI)
	})
	r.Register("ollama", func() (embeddings.Embedder, error) {
		return NewOllamaEmbedder(&cfg.Ollama)
	})
	return r
}

func (r *Registry) Register(name string, f Factory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(name string) (embeddings.Embedder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return f()
}
