package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every endpoint. entriesURL defaults to "/entries".
func SetupRoutes(router *gin.Engine, h *Handlers, entriesURL string) {
	if entriesURL == "" {
		entriesURL = "/entries"
	}

	router.GET(entriesURL, h.HandleListEntries)
	router.POST(entriesURL, h.HandleInsert)
	router.POST("/save", h.HandleSave)
	router.POST("/restore", h.HandleRestore)
	router.GET("/snapshots", h.HandleListSnapshots)
	router.POST("/snapshots/:name", h.HandleSaveSnapshot)
	router.POST("/snapshots/:name/restore", h.HandleRestoreSnapshot)
}
