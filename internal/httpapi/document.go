package httpapi

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"librarychat/internal/helper"
	"librarychat/internal/models"
)

func (h *Handler) CreateDocument(c *gin.Context) {
	var document models.Document
	if err := c.ShouldBindJSON(&document); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.CreateDocument(c.Request.Context(), currentUser(c), &document); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, document)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	libraryID := uuid.Nil
	if raw := c.Query("library_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondFail(c, http.StatusBadRequest, "malformed library_id")
			return
		}
		libraryID = id
	}

	documents, err := h.svc.ListDocuments(c.Request.Context(), currentUser(c), libraryID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, documents)
}

func (h *Handler) GetDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	document, err := h.svc.GetDocument(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, document)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteDocument(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"uuid": id})
}

// UploadDocument stores a multipart file under the upload directory and
// returns the server-side path for a follow-up document creation.
func (h *Handler) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "file field required")
		return
	}

	name, err := helper.UploadFilename(file.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, gin.H{"path": dst, "name": file.Filename})
}

// EmbedDocument chunks, embeds and stores one document into its library's
// collection. Calling it again appends a second copy of every chunk.
func (h *Handler) EmbedDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	done, err := h.svc.EmbedDocument(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"embedded": done})
}
