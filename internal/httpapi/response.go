package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"librarychat/internal/auth"
	"librarychat/internal/db"
	"librarychat/internal/embedding"
	"librarychat/internal/history"
	"librarychat/internal/llmservice"
	"librarychat/internal/loader"
	"librarychat/internal/vectordb"
)

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "data": data})
}

func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

// respondError maps service errors onto HTTP statuses. Unknown provider,
// backend and llm names are client misconfiguration, not server faults.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		respondFail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, embedding.ErrUnknownProvider),
		errors.Is(err, vectordb.ErrUnknownBackend),
		errors.Is(err, llmservice.ErrUnknownLLM),
		errors.Is(err, loader.ErrUnsupportedType):
		respondFail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, loader.ErrSourceUnavailable):
		respondFail(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, auth.ErrUnknownUser), errors.Is(err, auth.ErrInvalidToken):
		respondFail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, history.ErrUnknownRole):
		log.Error().Err(err).Msg("stored dialogue history is corrupt")
		respondFail(c, http.StatusInternalServerError, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		respondFail(c, http.StatusInternalServerError, "internal error")
	}
}
