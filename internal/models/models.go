package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"librarychat/internal/history"
)

// Library owns one vector collection. The embedding provider and vector
// backend are fixed at creation: changing either would orphan the vectors
// already stored under the library's collection.
type Library struct {
	bun.BaseModel `bun:"table:libraries,alias:l"`

	ID          int64     `bun:"id,pk,autoincrement" json:"-"`
	UUID        uuid.UUID `bun:"uuid,notnull,type:uuid,unique" json:"uuid"`
	UserID      uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id"`
	Name        string    `bun:"name,notnull" json:"name" binding:"required,min=3,max=32"`
	Description string    `bun:"description,notnull" json:"description" binding:"required,min=3,max=64"`
	Embedding   string    `bun:"embedding,notnull" json:"embedding" binding:"required,min=1,max=64"`
	VectorDB    string    `bun:"vectordb,notnull" json:"vectordb" binding:"required,min=1,max=128"`
	CreatedAt   time.Time `bun:"datetime_created,nullzero,notnull,default:current_timestamp" json:"datetime_created"`
	RemovedAt   time.Time `bun:"datetime_removed,soft_delete,nullzero" json:"-"`
}

// Document is metadata about one source. Embedding it into the library's
// collection is a separate, explicit action after creation.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID        int64     `bun:"id,pk,autoincrement" json:"-"`
	UUID      uuid.UUID `bun:"uuid,notnull,type:uuid,unique" json:"uuid"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id"`
	LibraryID uuid.UUID `bun:"library_id,notnull,type:uuid" json:"library_id" binding:"required"`
	Type      string    `bun:"type,notnull" json:"type" binding:"required,max=64"`
	Path      string    `bun:"path,notnull" json:"path"`
	Name      string    `bun:"name,notnull" json:"name" binding:"required,min=1,max=128"`
	CreatedAt time.Time `bun:"datetime_created,nullzero,notnull,default:current_timestamp" json:"datetime_created"`
	RemovedAt time.Time `bun:"datetime_removed,soft_delete,nullzero" json:"-"`
}

// Dialogue accumulates chat turns. Content is append-only: each successful
// prompt adds exactly one human and one ai record.
type Dialogue struct {
	bun.BaseModel `bun:"table:dialogues,alias:dl"`

	ID        int64            `bun:"id,pk,autoincrement" json:"-"`
	UUID      uuid.UUID        `bun:"uuid,notnull,type:uuid,unique" json:"uuid"`
	UserID    uuid.UUID        `bun:"user_id,notnull,type:uuid" json:"user_id"`
	LibraryID uuid.UUID        `bun:"library_id,notnull,type:uuid" json:"library_id" binding:"required"`
	LLM       string           `bun:"llm,notnull" json:"llm" binding:"required,min=3,max=128"`
	Title     string           `bun:"title,notnull" json:"title"`
	Content   []history.Record `bun:"content,type:jsonb" json:"content"`
	CreatedAt time.Time        `bun:"datetime_created,nullzero,notnull,default:current_timestamp" json:"datetime_created"`
	UpdatedAt time.Time        `bun:"datetime_updated,nullzero,notnull,default:current_timestamp" json:"datetime_updated"`
	RemovedAt time.Time        `bun:"datetime_removed,soft_delete,nullzero" json:"-"`
}

const DefaultDialogueTitle = "New Dialogue"
