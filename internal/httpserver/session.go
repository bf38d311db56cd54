package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-shell/internal/domain"
	"storefront-shell/internal/service/auth"
)

type sessionView struct {
	Authenticated bool         `json:"authenticated"`
	IsAdmin       bool         `json:"isAdmin"`
	User          *domain.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (h *handlers) sessionView() sessionView {
	snap := h.session.Snapshot()
	return sessionView{
		Authenticated: snap.Authenticated(),
		IsAdmin:       snap.IsAdmin(),
		User:          snap.User,
	}
}

// getSession refreshes the identity before reporting it. A transient failure
// is reported as unauthenticated.
func (h *handlers) getSession(c *gin.Context) {
	if _, err := h.session.LoadIdentity(c.Request.Context()); err != nil {
		h.logger.WithError(err).Debug("identity refresh failed")
	}
	c.JSON(http.StatusOK, h.sessionView())
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if _, err := h.auth.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionView())
}

func (h *handlers) register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if _, err := h.auth.Register(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.sessionView())
}

func (h *handlers) logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// setToken installs a token obtained elsewhere and resolves it immediately.
func (h *handlers) setToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	ctx := c.Request.Context()
	h.session.SetToken(ctx, req.Token)
	if _, err := h.session.LoadIdentity(ctx); err != nil {
		if errors.Is(err, domain.ErrCredentialRejected) {
			writeError(c, err)
			return
		}
		h.logger.WithError(err).Warn("token stored but identity unresolved")
	}
	c.JSON(http.StatusOK, h.sessionView())
}
