package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"librarychat/internal/auth"
	"librarychat/internal/chat"
)

type Handler struct {
	svc       *chat.Service
	auth      *auth.Authenticator
	uploadDir string
}

func NewHandler(svc *chat.Service, a *auth.Authenticator, uploadDir string) *Handler {
	return &Handler{svc: svc, auth: a, uploadDir: uploadDir}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.auth.Login(req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"token": token})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "malformed id")
		return uuid.Nil, false
	}
	return id, true
}
