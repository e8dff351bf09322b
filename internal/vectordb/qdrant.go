package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/qdrant"

	"librarychat/internal/config"
)

// QdrantStore talks to a qdrant server. qdrant requires collections to be
// created with an explicit vector size before the first upsert, so Ingest
// checks existence and creates on demand, probing the embedder for its
// dimensionality.
type QdrantStore struct {
	baseURL *url.URL
	apiKey  string
	topK    int
	client  *http.Client
}

func NewQdrantStore(cfg config.QdrantConfig, topK int) (*QdrantStore, error) {
	if topK <= 0 {
		topK = 4
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing qdrant url: %v", err)
	}
	return &QdrantStore{
		baseURL: u,
		apiKey:  cfg.APIKey,
		topK:    topK,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (s *QdrantStore) Ingest(ctx context.Context, collection string, embedder embeddings.Embedder, docs []schema.Document) error {
	if len(docs) == 0 {
		return nil
	}

	probe, err := embedder.EmbedQuery(ctx, docs[0].PageContent)
	if err != nil {
		return err
	}
	if err := s.ensureCollection(ctx, collection, len(probe)); err != nil {
		return err
	}

	store, err := s.langchainStore(collection, embedder)
	if err != nil {
		return err
	}
	_, err = store.AddDocuments(ctx, docs)
	return err
}

func (s *QdrantStore) Retriever(collection string, embedder embeddings.Embedder) (schema.Retriever, error) {
	store, err := s.langchainStore(collection, embedder)
	if err != nil {
		return nil, err
	}
	retriever := vectorstores.ToRetriever(store, s.topK)
	return retriever, nil
}

func (s *QdrantStore) langchainStore(collection string, embedder embeddings.Embedder) (qdrant.Store, error) {
	return qdrant.New(
		qdrant.WithURL(*s.baseURL),
		qdrant.WithAPIKey(s.apiKey),
		qdrant.WithCollectionName(collection),
		qdrant.WithEmbedder(embedder),
	)
}

// ensureCollection creates the collection when a GET reports it missing.
// Any other status is a hard error.
func (s *QdrantStore) ensureCollection(ctx context.Context, collection string, dimension int) error {
	endpoint := s.endpoint("/collections/" + collection)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("checking collection %s: %v", collection, err)
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return s.createCollection(ctx, collection, dimension)
	default:
		return fmt.Errorf("checking collection %s: status %d", collection, resp.StatusCode)
	}
}

func (s *QdrantStore) createCollection(ctx context.Context, collection string, dimension int) error {
	body, err := json.Marshal(map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint("/collections/"+collection), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("creating collection %s: %v", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("creating collection %s: status %d", collection, resp.StatusCode)
	}
	return nil
}

func (s *QdrantStore) endpoint(path string) string {
	u := *s.baseURL
	u.Path = path
	return u.String()
}

func (s *QdrantStore) setHeaders(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}
