package handlers

import (
	"errors"
	"log"
	"net/http"
	"yatube/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the generic error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "core/error.html", gin.H{"Error": message})
}

// NotFound renders the 404 page. Also used as the engine's NoRoute handler.
func NotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "core/404.html", nil)
}

// fail answers a lookup error: 404 for a missing record, otherwise a logged 500.
func fail(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c)
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	RenderError(c, http.StatusInternalServerError, "Internal server error")
}
