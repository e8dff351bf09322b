// Package db wires the postgres connection and the relational repository
// for libraries, documents and dialogues.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"librarychat/internal/config"
	"librarychat/internal/models"
)

// ErrNotFound reports that no live row matched the user/uuid pair. Soft
// deleted rows count as not found.
var ErrNotFound = errors.New("record not found")

func Connect(cfg *config.DatabaseConfig) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithPassword(cfg.Password),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func Init(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{
		(*models.Library)(nil),
		(*models.Document)(nil),
		(*models.Dialogue)(nil),
	} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %v", model, err)
		}
	}
	return nil
}

type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateLibrary(ctx context.Context, library *models.Library) error {
	_, err := r.db.NewInsert().Model(library).Exec(ctx)
	return err
}

func (r *Repository) GetLibrary(ctx context.Context, userID, id uuid.UUID) (*models.Library, error) {
	library := new(models.Library)
	err := r.db.NewSelect().
		Model(library).
		Where("l.user_id = ?", userID).
		Where("l.uuid = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return library, nil
}

func (r *Repository) ListLibraries(ctx context.Context, userID uuid.UUID) ([]models.Library, error) {
	var libraries []models.Library
	err := r.db.NewSelect().
		Model(&libraries).
		Where("l.user_id = ?", userID).
		Order("l.datetime_created DESC").
		Scan(ctx)
	return libraries, err
}

func (r *Repository) UpdateLibrary(ctx context.Context, library *models.Library) error {
	res, err := r.db.NewUpdate().
		Model(library).
		Column("name", "description").
		Where("l.user_id = ?", library.UserID).
		Where("l.uuid = ?", library.UUID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *Repository) DeleteLibrary(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*models.Library)(nil)).
		Where("l.user_id = ?", userID).
		Where("l.uuid = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *Repository) CreateDocument(ctx context.Context, document *models.Document) error {
	_, err := r.db.NewInsert().Model(document).Exec(ctx)
	return err
}

func (r *Repository) GetDocument(ctx context.Context, userID, id uuid.UUID) (*models.Document, error) {
	document := new(models.Document)
	err := r.db.NewSelect().
		Model(document).
		Where("d.user_id = ?", userID).
		Where("d.uuid = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return document, nil
}

func (r *Repository) ListDocuments(ctx context.Context, userID, libraryID uuid.UUID) ([]models.Document, error) {
	var documents []models.Document
	q := r.db.NewSelect().
		Model(&documents).
		Where("d.user_id = ?", userID)
	if libraryID != uuid.Nil {
		q = q.Where("d.library_id = ?", libraryID)
	}
	err := q.Order("d.datetime_created DESC").Scan(ctx)
	return documents, err
}

func (r *Repository) DeleteDocument(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*models.Document)(nil)).
		Where("d.user_id = ?", userID).
		Where("d.uuid = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *Repository) CreateDialogue(ctx context.Context, dialogue *models.Dialogue) error {
	_, err := r.db.NewInsert().Model(dialogue).Exec(ctx)
	return err
}

func (r *Repository) GetDialogue(ctx context.Context, userID, id uuid.UUID) (*models.Dialogue, error) {
	dialogue := new(models.Dialogue)
	err := r.db.NewSelect().
		Model(dialogue).
		Where("dl.user_id = ?", userID).
		Where("dl.uuid = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return dialogue, nil
}

func (r *Repository) ListDialogues(ctx context.Context, userID, libraryID uuid.UUID) ([]models.Dialogue, error) {
	var dialogues []models.Dialogue
	q := r.db.NewSelect().
		Model(&dialogues).
		Where("dl.user_id = ?", userID)
	if libraryID != uuid.Nil {
		q = q.Where("dl.library_id = ?", libraryID)
	}
	err := q.Order("dl.datetime_updated DESC").Scan(ctx)
	return dialogues, err
}

// UpdateDialogue persists the appended chat turns and the refreshed title.
func (r *Repository) UpdateDialogue(ctx context.Context, dialogue *models.Dialogue) error {
	res, err := r.db.NewUpdate().
		Model(dialogue).
		Column("title", "content", "datetime_updated").
		Where("dl.user_id = ?", dialogue.UserID).
		Where("dl.uuid = ?", dialogue.UUID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *Repository) DeleteDialogue(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*models.Dialogue)(nil)).
		Where("dl.user_id = ?", userID).
		Where("dl.uuid = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
