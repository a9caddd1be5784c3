package handlers

import (
	"log"
	"net/http"
	"yatube/internal/cache"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	cache cache.Store
}

func NewAdminHandler(store cache.Store) *AdminHandler {
	return &AdminHandler{cache: store}
}

// ClearCache drops every cached home page. Staff only.
func (h *AdminHandler) ClearCache(c *gin.Context) {
	if err := h.cache.Clear(c.Request.Context()); err != nil {
		log.Printf("clear cache: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to clear cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
