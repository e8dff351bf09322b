package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"librarychat/internal/models"
)

func (h *Handler) CreateDialogue(c *gin.Context) {
	var dialogue models.Dialogue
	if err := c.ShouldBindJSON(&dialogue); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.CreateDialogue(c.Request.Context(), currentUser(c), &dialogue); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dialogue)
}

func (h *Handler) ListDialogues(c *gin.Context) {
	dialogues, err := h.svc.ListDialogues(c.Request.Context(), currentUser(c), uuid.Nil)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dialogues)
}

func (h *Handler) GetDialogue(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	dialogue, err := h.svc.GetDialogue(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dialogue)
}

func (h *Handler) DeleteDialogue(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteDialogue(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"uuid": id})
}

type promptReq struct {
	Prompt string `json:"prompt" binding:"required"`
}

// SendPrompt answers one question in the dialogue's library and persists
// the new human/ai turn.
func (h *Handler) SendPrompt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req promptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	answer, err := h.svc.Ask(c.Request.Context(), currentUser(c), id, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"answer": answer})
}
