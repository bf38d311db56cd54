package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-shell/internal/domain"
	"storefront-shell/internal/httpclient"
	"storefront-shell/internal/service/auth"
	"storefront-shell/internal/service/cart"
)

var errBadRequest = errors.New("bad request")

// writeError maps service and client errors onto a JSON error response.
func writeError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func errorStatus(err error) (int, string) {
	var apiErr *httpclient.APIError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, cart.ErrProductIDRequired), errors.Is(err, cart.ErrInvalidPrice):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, httpclient.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrCredentialRejected):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, httpclient.ErrUnavailable), errors.Is(err, domain.ErrTransientResolution):
		return http.StatusBadGateway, "storefront api unavailable"
	case errors.As(err, &apiErr):
		if apiErr.Status >= http.StatusInternalServerError {
			return http.StatusBadGateway, "storefront api error"
		}
		if apiErr.Detail != "" {
			return apiErr.Status, apiErr.Detail
		}
		return apiErr.Status, http.StatusText(apiErr.Status)
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
