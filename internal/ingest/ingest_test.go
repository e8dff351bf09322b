package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"

	"librarychat/internal/embedding"
	"librarychat/internal/loader"
	"librarychat/internal/vectordb"
)

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

func (fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

// memStore records ingested documents per collection.
type memStore struct {
	collections map[string][]schema.Document
}

func newMemStore() *memStore {
	return &memStore{collections: make(map[string][]schema.Document)}
}

func (s *memStore) Ingest(ctx context.Context, collection string, embedder embeddings.Embedder, docs []schema.Document) error {
	s.collections[collection] = append(s.collections[collection], docs...)
	return nil
}

func (s *memStore) Retriever(collection string, embedder embeddings.Embedder) (schema.Retriever, error) {
	return memRetriever{docs: s.collections[collection]}, nil
}

type memRetriever struct {
	docs []schema.Document
}

func (r memRetriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	return r.docs, nil
}

func newTestPipeline(store vectordb.Store) *Pipeline {
	providers := embedding.NewRegistry()
	providers.Register("cohere", func() (embeddings.Embedder, error) { return fakeEmbedder{}, nil })
	backends := vectordb.NewRegistry()
	backends.Register("qdrant", store)
	return NewPipeline(loader.NewDefaultRegistry(), providers, backends, 1000, 200)
}

func TestPipelineIngestsWebPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Example page content for ingestion.</p></body></html>"))
	}))
	defer srv.Close()

	store := newMemStore()
	p := newTestPipeline(store)

	libraryID := uuid.New()
	ok, err := p.Document(context.Background(), "web_page", srv.URL, libraryID, "cohere", "qdrant")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !ok {
		t.Fatal("expected success")
	}

	collection := vectordb.CollectionName(libraryID)
	if got := len(store.collections[collection]); got == 0 {
		t.Fatalf("collection %s empty after ingest", collection)
	}
	doc := store.collections[collection][0]
	if doc.Metadata["library_id"] != libraryID.String() {
		t.Errorf("chunk missing library reference: %v", doc.Metadata)
	}
	if _, ok := doc.Metadata["start_index"].(int); !ok {
		t.Errorf("chunk missing start offset: %v", doc.Metadata)
	}
}

func TestPipelineAppendsAcrossRuns(t *testing.T) {
	pages := []string{
		"<html><body><p>first document text</p></body></html>",
		"<html><body><p>second document text</p></body></html>",
	}
	var page int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pages[page]))
	}))
	defer srv.Close()

	store := newMemStore()
	p := newTestPipeline(store)
	libraryID := uuid.New()

	if _, err := p.Document(context.Background(), "web_page", srv.URL, libraryID, "cohere", "qdrant"); err != nil {
		t.Fatal(err)
	}
	firstCount := len(store.collections[vectordb.CollectionName(libraryID)])

	page = 1
	if _, err := p.Document(context.Background(), "web_page", srv.URL, libraryID, "cohere", "qdrant"); err != nil {
		t.Fatal(err)
	}
	total := len(store.collections[vectordb.CollectionName(libraryID)])

	if total != firstCount*2 {
		t.Errorf("expected append semantics: %d then %d total", firstCount, total)
	}
}

func TestPipelineUnknownDocumentType(t *testing.T) {
	p := newTestPipeline(newMemStore())
	ok, err := p.Document(context.Background(), "spreadsheet_3d", "x", uuid.New(), "cohere", "qdrant")
	if ok || !errors.Is(err, loader.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got ok=%v err=%v", ok, err)
	}
}

func TestPipelineUnknownEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>text</body></html>"))
	}))
	defer srv.Close()

	p := newTestPipeline(newMemStore())
	ok, err := p.Document(context.Background(), "web_page", srv.URL, uuid.New(), "word2vec", "qdrant")
	if ok || !errors.Is(err, embedding.ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got ok=%v err=%v", ok, err)
	}
}

func TestPipelineUnknownBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>text</body></html>"))
	}))
	defer srv.Close()

	p := newTestPipeline(newMemStore())
	ok, err := p.Document(context.Background(), "web_page", srv.URL, uuid.New(), "cohere", "pinecone")
	if ok || !errors.Is(err, vectordb.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got ok=%v err=%v", ok, err)
	}
}

func TestPipelineSourceUnavailable(t *testing.T) {
	p := newTestPipeline(newMemStore())
	ok, err := p.Document(context.Background(), "web_page", "http://127.0.0.1:1/none", uuid.New(), "cohere", "qdrant")
	if ok || !errors.Is(err, loader.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got ok=%v err=%v", ok, err)
	}
}
