package vectordb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/uptrace/bun"
)

// PGVectorStore keeps each collection in its own postgres table with a
// pgvector column. Table names get a leading underscore so the hex-digest
// collection name is a valid identifier.
type PGVectorStore struct {
	db   *bun.DB
	topK int
}

type chunkRow struct {
	bun.BaseModel `bun:"table:_chunks,alias:c"`

	ID         int64   `bun:"id,pk,autoincrement"`
	Content    string  `bun:"content,notnull"`
	Embedding  string  `bun:"embedding,notnull,type:vector"`
	DocumentID string  `bun:"document_id"`
	StartIndex int     `bun:"start_index"`
	Distance   float64 `bun:"distance,scanonly"`
}

func NewPGVectorStore(db *bun.DB, topK int) *PGVectorStore {
	if topK <= 0 {
		topK = 4
	}
	return &PGVectorStore{db: db, topK: topK}
}

func (s *PGVectorStore) Ingest(ctx context.Context, collection string, embedder embeddings.Embedder, docs []schema.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return err
	}

	table := tableName(collection)
	if err := s.createTable(ctx, table, len(vectors[0])); err != nil {
		return err
	}

	rows := make([]chunkRow, len(docs))
	for i, doc := range docs {
		rows[i] = chunkRow{
			Content:    doc.PageContent,
			Embedding:  vectorLiteral(vectors[i]),
			DocumentID: metadataString(doc.Metadata, "document_id"),
			StartIndex: metadataInt(doc.Metadata, "start_index"),
		}
	}

	_, err = s.db.NewInsert().
		Model(&rows).
		ModelTableExpr("? AS c", bun.Ident(table)).
		Exec(ctx)
	return err
}

func (s *PGVectorStore) Retriever(collection string, embedder embeddings.Embedder) (schema.Retriever, error) {
	return &pgvectorRetriever{store: s, table: tableName(collection), embedder: embedder}, nil
}

func (s *PGVectorStore) createTable(ctx context.Context, table string, dimension int) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (
			id BIGSERIAL PRIMARY KEY,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			document_id TEXT,
			start_index BIGINT
		)`, table, dimension))
	if err != nil {
		return fmt.Errorf("creating table %s: %v", table, err)
	}
	return nil
}

type pgvectorRetriever struct {
	store    *PGVectorStore
	table    string
	embedder embeddings.Embedder
}

func (r *pgvectorRetriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	queryVector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	literal := vectorLiteral(queryVector)

	var rows []chunkRow
	err = r.store.db.NewSelect().
		Model(&rows).
		ModelTableExpr("? AS c", bun.Ident(r.table)).
		ColumnExpr("c.content, c.document_id, c.start_index").
		ColumnExpr("c.embedding <-> ? AS distance", literal).
		OrderExpr("c.embedding <-> ?", literal).
		Limit(r.store.topK).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, len(rows))
	for i, row := range rows {
		docs[i] = schema.Document{
			PageContent: row.Content,
			Metadata: map[string]any{
				"document_id": row.DocumentID,
				"start_index": row.StartIndex,
			},
			Score: float32(1 / (1 + row.Distance)),
		}
	}
	return docs, nil
}

func tableName(collection string) string {
	return "_" + collection
}

func vectorLiteral(vector []float32) string {
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func metadataString(metadata map[string]any, key string) string {
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}

func metadataInt(metadata map[string]any, key string) int {
	if v, ok := metadata[key].(int); ok {
		return v
	}
	return 0
}
