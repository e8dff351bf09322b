// Package ingest composes loader, chunker, embedding provider and vector
// backend into the one-shot document ingestion path.
package ingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/schema"

	"librarychat/internal/embedding"
	"librarychat/internal/loader"
	"librarychat/internal/splitter"
	"librarychat/internal/vectordb"
)

type Pipeline struct {
	loaders      *loader.Registry
	embeddings   *embedding.Registry
	backends     *vectordb.Registry
	chunkSize    int
	chunkOverlap int
}

func NewPipeline(loaders *loader.Registry, embeddings *embedding.Registry, backends *vectordb.Registry, chunkSize, chunkOverlap int) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = splitter.DefaultChunkSize
	}
	if chunkOverlap <= 0 {
		chunkOverlap = splitter.DefaultChunkOverlap
	}
	return &Pipeline{
		loaders:      loaders,
		embeddings:   embeddings,
		backends:     backends,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Document runs one document through load, chunk, embed and store. It is
// synchronous and all-or-nothing: true means every chunk reached the
// library's collection; any stage failure propagates with nothing marked
// done. Re-running appends to the collection.
func (p *Pipeline) Document(ctx context.Context, docType, docPath string, libraryID uuid.UUID, libEmbedding, libVectorDB string) (bool, error) {
	l, err := p.loaders.Get(docType, docPath)
	if err != nil {
		return false, err
	}
	text, err := l.Load(ctx)
	if err != nil {
		return false, err
	}

	chunks := splitter.Split(text, p.chunkSize, p.chunkOverlap)
	if len(chunks) == 0 {
		log.Warn().Str("path", docPath).Msg("document produced no chunks")
		return true, nil
	}

	embedder, err := p.embeddings.Get(libEmbedding)
	if err != nil {
		return false, err
	}
	backend, err := p.backends.Get(libVectorDB)
	if err != nil {
		return false, err
	}

	docs := make([]schema.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = schema.Document{
			PageContent: chunk.Text,
			Metadata: map[string]any{
				"start_index": chunk.Start,
				"library_id":  libraryID.String(),
			},
		}
	}

	collection := vectordb.CollectionName(libraryID)
	if err := backend.Ingest(ctx, collection, embedder, docs); err != nil {
		return false, err
	}

	log.Info().
		Str("collection", collection).
		Int("chunks", len(docs)).
		Str("embedding", libEmbedding).
		Str("vectordb", libVectorDB).
		Msg("document ingested")
	return true, nil
}
