package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"storefront-shell/internal/domain"
	"storefront-shell/internal/guard"
)

type pageView struct {
	Path string       `json:"path"`
	Tier guard.Tier   `json:"tier"`
	User *domain.User `json:"user"`
}

// pageHandler serves every unmatched GET as a page navigation. The guard
// decides whether the visitor is redirected.
func pageHandler(g navigationGuard, sess sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		decision := g.Before(c.Request.Context(), path)
		if !decision.Allowed() {
			c.Redirect(http.StatusFound, decision.Redirect)
			return
		}
		c.JSON(http.StatusOK, pageView{
			Path: path,
			Tier: decision.Tier,
			User: sess.Snapshot().User,
		})
	}
}
