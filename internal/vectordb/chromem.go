package vectordb

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"

	"librarychat/internal/config"
)

// ChromemStore is the embedded backend. chromem creates collections on
// first write, so Ingest needs no existence check of its own.
type ChromemStore struct {
	db   *chromem.DB
	topK int
}

func NewChromemStore(cfg config.ChromemConfig, topK int) (*ChromemStore, error) {
	if topK <= 0 {
		topK = 4
	}

	var db *chromem.DB
	var err error
	if cfg.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, fmt.Errorf("opening chromem database: %v", err)
		}
	}
	return &ChromemStore{db: db, topK: topK}, nil
}

func (s *ChromemStore) Ingest(ctx context.Context, collection string, embedder embeddings.Embedder, docs []schema.Document) error {
	if len(docs) == 0 {
		return nil
	}

	col, err := s.db.GetOrCreateCollection(collection, nil, queryEmbeddingFunc(embedder))
	if err != nil {
		return fmt.Errorf("creating collection %s: %v", collection, err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return err
	}

	// Fresh IDs per ingest: re-ingesting the same chunk appends a new
	// entry rather than overwriting, matching the no-dedup contract.
	records := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		records[i] = chromem.Document{
			ID:        uuid.NewString(),
			Content:   doc.PageContent,
			Metadata:  stringifyMetadata(doc.Metadata),
			Embedding: vectors[i],
		}
	}
	return col.AddDocuments(ctx, records, runtime.NumCPU())
}

func (s *ChromemStore) Retriever(collection string, embedder embeddings.Embedder) (schema.Retriever, error) {
	col, err := s.db.GetOrCreateCollection(collection, nil, queryEmbeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %v", collection, err)
	}
	return &chromemRetriever{col: col, topK: s.topK}, nil
}

type chromemRetriever struct {
	col  *chromem.Collection
	topK int
}

func (r *chromemRetriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	// chromem rejects result counts above the collection size.
	n := r.topK
	if count := r.col.Count(); count < n {
		n = count
	}
	if n == 0 {
		return nil, nil
	}

	results, err := r.col.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, len(results))
	for i, res := range results {
		metadata := make(map[string]any, len(res.Metadata))
		for k, v := range res.Metadata {
			metadata[k] = v
		}
		docs[i] = schema.Document{
			PageContent: res.Content,
			Metadata:    metadata,
			Score:       res.Similarity,
		}
	}
	return docs, nil
}

func queryEmbeddingFunc(embedder embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
}

func stringifyMetadata(metadata map[string]any) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		switch val := v.(type) {
		case string:
			out[k] = val
		case int:
			out[k] = strconv.Itoa(val)
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
