// Package httpapi exposes the service over a gin route tree. All routes
// except login require a bearer token.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"librarychat/internal/auth"
	"librarychat/internal/chat"
)

func NewRouter(svc *chat.Service, a *auth.Authenticator, uploadDir string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		respondFail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		respondFail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	h := NewHandler(svc, a, uploadDir)

	api := r.Group("/api")
	api.POST("/auth/", h.Login)

	authed := api.Group("/")
	authed.Use(AuthRequired(a))

	library := authed.Group("/library")
	library.POST("/", h.CreateLibrary)
	library.GET("/", h.ListLibraries)
	library.GET("/:id/", h.GetLibrary)
	library.PUT("/:id/", h.UpdateLibrary)
	library.DELETE("/:id/", h.DeleteLibrary)
	library.GET("/:id/document/", h.ListLibraryDocuments)
	library.GET("/:id/dialogue/", h.ListLibraryDialogues)

	document := authed.Group("/document")
	document.POST("/", h.CreateDocument)
	document.GET("/", h.ListDocuments)
	document.POST("/upload/", h.UploadDocument)
	document.GET("/:id/", h.GetDocument)
	document.DELETE("/:id/", h.DeleteDocument)
	document.POST("/:id/embed/", h.EmbedDocument)

	dialogue := authed.Group("/dialogue")
	dialogue.POST("/", h.CreateDialogue)
	dialogue.GET("/", h.ListDialogues)
	dialogue.GET("/:id/", h.GetDialogue)
	dialogue.DELETE("/:id/", h.DeleteDialogue)
	dialogue.POST("/:id/", h.SendPrompt)

	return r
}
