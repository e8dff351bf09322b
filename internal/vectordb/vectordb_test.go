package vectordb

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/schema"

	"librarychat/internal/config"
)

// hashEmbedder maps text to a small deterministic vector so similarity
// search is exercisable without a provider.
type hashEmbedder struct{}

func (hashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = embedText(text)
	}
	return out, nil
}

func (hashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return embedText(text), nil
}

func embedText(text string) []float32 {
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%8] += float32(r % 31)
	}
	return vec
}

func TestCollectionName(t *testing.T) {
	id := uuid.MustParse("cfc0bd70-be32-4d62-85f8-cbdb65ce2ab7")
	got := CollectionName(id)
	if got != "cfc0bd70be324d6285f8cbdb65ce2ab7" {
		t.Errorf("unexpected collection name %q", got)
	}
}

func TestRegistryUnknownBackend(t *testing.T) {
	r := NewRegistry()
	store, err := NewChromemStore(config.ChromemConfig{InMemory: true}, 4)
	if err != nil {
		t.Fatal(err)
	}
	r.Register("chromem", store)

	if _, err := r.Get("pinecone"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
	if _, err := r.Get("chromem"); err != nil {
		t.Fatalf("registered backend lookup failed: %v", err)
	}
}

func TestChromemIngestAppends(t *testing.T) {
	ctx := context.Background()
	store, err := NewChromemStore(config.ChromemConfig{InMemory: true}, 10)
	if err != nil {
		t.Fatal(err)
	}

	collection := CollectionName(uuid.New())
	emb := hashEmbedder{}

	first := []schema.Document{
		{PageContent: "alpha chunk about storage"},
		{PageContent: "beta chunk about retrieval"},
	}
	if err := store.Ingest(ctx, collection, emb, first); err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	second := []schema.Document{{PageContent: "gamma chunk about chains"}}
	if err := store.Ingest(ctx, collection, emb, second); err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	retriever, err := store.Retriever(collection, emb)
	if err != nil {
		t.Fatalf("retriever: %v", err)
	}
	docs, err := retriever.GetRelevantDocuments(ctx, "chunk")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("expected union of both ingests (3 chunks), got %d", len(docs))
	}
}

func TestChromemReingestDuplicates(t *testing.T) {
	ctx := context.Background()
	store, err := NewChromemStore(config.ChromemConfig{InMemory: true}, 10)
	if err != nil {
		t.Fatal(err)
	}

	collection := CollectionName(uuid.New())
	emb := hashEmbedder{}
	docs := []schema.Document{{PageContent: "same chunk twice"}}

	if err := store.Ingest(ctx, collection, emb, docs); err != nil {
		t.Fatal(err)
	}
	if err := store.Ingest(ctx, collection, emb, docs); err != nil {
		t.Fatal(err)
	}

	retriever, err := store.Retriever(collection, emb)
	if err != nil {
		t.Fatal(err)
	}
	results, err := retriever.GetRelevantDocuments(ctx, "same chunk twice")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("re-ingestion must duplicate, got %d entries", len(results))
	}
}

func TestChromemRetrieverScoresNonIncreasing(t *testing.T) {
	ctx := context.Background()
	store, err := NewChromemStore(config.ChromemConfig{InMemory: true}, 5)
	if err != nil {
		t.Fatal(err)
	}

	collection := CollectionName(uuid.New())
	emb := hashEmbedder{}
	docs := []schema.Document{
		{PageContent: "postgres tables"},
		{PageContent: "vector similarity search"},
		{PageContent: "chat history records"},
	}
	if err := store.Ingest(ctx, collection, emb, docs); err != nil {
		t.Fatal(err)
	}

	retriever, err := store.Retriever(collection, emb)
	if err != nil {
		t.Fatal(err)
	}
	results, err := retriever.GetRelevantDocuments(ctx, "vector similarity search")
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores increase at %d: %v then %v", i, results[i-1].Score, results[i].Score)
		}
	}
}

func TestChromemEmptyCollection(t *testing.T) {
	store, err := NewChromemStore(config.ChromemConfig{InMemory: true}, 4)
	if err != nil {
		t.Fatal(err)
	}
	retriever, err := store.Retriever(CollectionName(uuid.New()), hashEmbedder{})
	if err != nil {
		t.Fatal(err)
	}
	docs, err := retriever.GetRelevantDocuments(context.Background(), "anything")
	if err != nil {
		t.Fatalf("empty collection query: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestVectorLiteral(t *testing.T) {
	got := vectorLiteral([]float32{0.5, -1, 2})
	if got != "[0.5,-1,2]" {
		t.Errorf("got %q", got)
	}
}
