package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-shell/internal/domain"
)

func (h *handlers) listNotifications(c *gin.Context) {
	list := h.notes.List()
	if list == nil {
		list = []domain.Notification{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) clearNotifications(c *gin.Context) {
	h.notes.Clear()
	c.Status(http.StatusNoContent)
}

func (h *handlers) removeNotification(c *gin.Context) {
	if !h.notes.Remove(c.Param("id")) {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
