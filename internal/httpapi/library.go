package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"librarychat/internal/models"
)

func (h *Handler) CreateLibrary(c *gin.Context) {
	var library models.Library
	if err := c.ShouldBindJSON(&library); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.CreateLibrary(c.Request.Context(), currentUser(c), &library); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, library)
}

func (h *Handler) ListLibraries(c *gin.Context) {
	libraries, err := h.svc.ListLibraries(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, libraries)
}

func (h *Handler) GetLibrary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	library, err := h.svc.GetLibrary(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, library)
}

type updateLibraryReq struct {
	Name        string `json:"name" binding:"required,min=3,max=32"`
	Description string `json:"description" binding:"required,min=3,max=64"`
}

func (h *Handler) UpdateLibrary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateLibraryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	library := &models.Library{UUID: id, Name: req.Name, Description: req.Description}
	if err := h.svc.UpdateLibrary(c.Request.Context(), currentUser(c), library); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"uuid": id})
}

// ListLibraryDocuments lists the documents registered under one library.
func (h *Handler) ListLibraryDocuments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	documents, err := h.svc.ListDocuments(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, documents)
}

// ListLibraryDialogues lists the dialogues held over one library.
func (h *Handler) ListLibraryDialogues(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	dialogues, err := h.svc.ListDialogues(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dialogues)
}

func (h *Handler) DeleteLibrary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteLibrary(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"uuid": id})
}
