// Package chat is the application service behind the HTTP handlers. It
// owns library, document and dialogue workflows and drives the retrieval
// chain for prompts.
package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"librarychat/internal/embedding"
	"librarychat/internal/history"
	"librarychat/internal/ingest"
	"librarychat/internal/llmservice"
	"librarychat/internal/models"
	"librarychat/internal/rag"
	"librarychat/internal/vectordb"
)

const titleRuneLimit = 64

// Store is the persistence surface the service needs. *db.Repository
// satisfies it.
type Store interface {
	CreateLibrary(ctx context.Context, library *models.Library) error
	GetLibrary(ctx context.Context, userID, id uuid.UUID) (*models.Library, error)
	ListLibraries(ctx context.Context, userID uuid.UUID) ([]models.Library, error)
	UpdateLibrary(ctx context.Context, library *models.Library) error
	DeleteLibrary(ctx context.Context, userID, id uuid.UUID) error

	CreateDocument(ctx context.Context, document *models.Document) error
	GetDocument(ctx context.Context, userID, id uuid.UUID) (*models.Document, error)
	ListDocuments(ctx context.Context, userID, libraryID uuid.UUID) ([]models.Document, error)
	DeleteDocument(ctx context.Context, userID, id uuid.UUID) error

	CreateDialogue(ctx context.Context, dialogue *models.Dialogue) error
	GetDialogue(ctx context.Context, userID, id uuid.UUID) (*models.Dialogue, error)
	ListDialogues(ctx context.Context, userID, libraryID uuid.UUID) ([]models.Dialogue, error)
	UpdateDialogue(ctx context.Context, dialogue *models.Dialogue) error
	DeleteDialogue(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	store       Store
	llms        *llmservice.Registry
	embeddings  *embedding.Registry
	backends    *vectordb.Registry
	pipeline    *ingest.Pipeline
	temperature float64
}

func NewService(store Store, llms *llmservice.Registry, embeddings *embedding.Registry, backends *vectordb.Registry, pipeline *ingest.Pipeline, temperature float64) *Service {
	return &Service{
		store:       store,
		llms:        llms,
		embeddings:  embeddings,
		backends:    backends,
		pipeline:    pipeline,
		temperature: temperature,
	}
}

// CreateLibrary resolves the embedding provider and vector backend before
// inserting, so a typo fails at creation instead of at first ingest.
func (s *Service) CreateLibrary(ctx context.Context, userID uuid.UUID, library *models.Library) error {
	if _, err := s.embeddings.Get(library.Embedding); err != nil {
		return err
	}
	if _, err := s.backends.Get(library.VectorDB); err != nil {
		return err
	}
	library.UUID = uuid.New()
	library.UserID = userID
	return s.store.CreateLibrary(ctx, library)
}

func (s *Service) GetLibrary(ctx context.Context, userID, id uuid.UUID) (*models.Library, error) {
	return s.store.GetLibrary(ctx, userID, id)
}

func (s *Service) ListLibraries(ctx context.Context, userID uuid.UUID) ([]models.Library, error) {
	return s.store.ListLibraries(ctx, userID)
}

func (s *Service) UpdateLibrary(ctx context.Context, userID uuid.UUID, library *models.Library) error {
	library.UserID = userID
	return s.store.UpdateLibrary(ctx, library)
}

func (s *Service) DeleteLibrary(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.DeleteLibrary(ctx, userID, id)
}

// CreateDocument records the source only; embedding happens on an explicit
// EmbedDocument call.
func (s *Service) CreateDocument(ctx context.Context, userID uuid.UUID, document *models.Document) error {
	if _, err := s.store.GetLibrary(ctx, userID, document.LibraryID); err != nil {
		return err
	}
	document.UUID = uuid.New()
	document.UserID = userID
	return s.store.CreateDocument(ctx, document)
}

func (s *Service) GetDocument(ctx context.Context, userID, id uuid.UUID) (*models.Document, error) {
	return s.store.GetDocument(ctx, userID, id)
}

func (s *Service) ListDocuments(ctx context.Context, userID, libraryID uuid.UUID) ([]models.Document, error) {
	return s.store.ListDocuments(ctx, userID, libraryID)
}

func (s *Service) DeleteDocument(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.DeleteDocument(ctx, userID, id)
}

// EmbedDocument pushes one document's chunks into its library's
// collection. Re-embedding appends; nothing is deduplicated.
func (s *Service) EmbedDocument(ctx context.Context, userID, documentID uuid.UUID) (bool, error) {
	document, err := s.store.GetDocument(ctx, userID, documentID)
	if err != nil {
		return false, err
	}
	library, err := s.store.GetLibrary(ctx, userID, document.LibraryID)
	if err != nil {
		return false, err
	}
	return s.pipeline.Document(ctx, document.Type, document.Path, library.UUID, library.Embedding, library.VectorDB)
}

// CreateDialogue resolves the LLM name up front and starts with an empty
// history.
func (s *Service) CreateDialogue(ctx context.Context, userID uuid.UUID, dialogue *models.Dialogue) error {
	if _, err := s.llms.Get(dialogue.LLM, s.temperature); err != nil {
		return err
	}
	if _, err := s.store.GetLibrary(ctx, userID, dialogue.LibraryID); err != nil {
		return err
	}
	dialogue.UUID = uuid.New()
	dialogue.UserID = userID
	if dialogue.Title == "" {
		dialogue.Title = models.DefaultDialogueTitle
	}
	dialogue.Content = []history.Record{}
	return s.store.CreateDialogue(ctx, dialogue)
}

func (s *Service) GetDialogue(ctx context.Context, userID, id uuid.UUID) (*models.Dialogue, error) {
	return s.store.GetDialogue(ctx, userID, id)
}

func (s *Service) ListDialogues(ctx context.Context, userID, libraryID uuid.UUID) ([]models.Dialogue, error) {
	return s.store.ListDialogues(ctx, userID, libraryID)
}

func (s *Service) DeleteDialogue(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.DeleteDialogue(ctx, userID, id)
}

// Ask runs one prompt through the retrieval chain and appends the turn to
// the dialogue: exactly one human record and one ai record per successful
// call. On failure nothing is appended.
func (s *Service) Ask(ctx context.Context, userID, dialogueID uuid.UUID, prompt string) (string, error) {
	dialogue, err := s.store.GetDialogue(ctx, userID, dialogueID)
	if err != nil {
		return "", err
	}
	library, err := s.store.GetLibrary(ctx, userID, dialogue.LibraryID)
	if err != nil {
		return "", err
	}

	chatHistory, err := history.Decode(dialogue.Content)
	if err != nil {
		return "", err
	}

	model, err := s.llms.Get(dialogue.LLM, s.temperature)
	if err != nil {
		return "", err
	}
	embedder, err := s.embeddings.Get(library.Embedding)
	if err != nil {
		return "", err
	}
	backend, err := s.backends.Get(library.VectorDB)
	if err != nil {
		return "", err
	}
	retriever, err := backend.Retriever(vectordb.CollectionName(library.UUID), embedder)
	if err != nil {
		return "", err
	}

	answer, err := rag.NewChain(model, retriever).Invoke(ctx, prompt, chatHistory)
	if err != nil {
		return "", err
	}

	if len(dialogue.Content) == 0 && dialogue.Title == models.DefaultDialogueTitle {
		dialogue.Title = truncateTitle(prompt)
	}
	dialogue.Content = append(dialogue.Content,
		history.Record{Type: history.RoleHuman, Content: prompt},
		history.Record{Type: history.RoleAI, Content: answer},
	)
	dialogue.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateDialogue(ctx, dialogue); err != nil {
		return "", err
	}

	log.Info().
		Str("dialogue", dialogue.UUID.String()).
		Str("llm", dialogue.LLM).
		Int("turns", len(dialogue.Content)/2).
		Msg("prompt answered")
	return answer, nil
}

func truncateTitle(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= titleRuneLimit {
		return prompt
	}
	return string(runes[:titleRuneLimit])
}
