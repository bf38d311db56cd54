package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront-shell/internal/domain"
)

// ErrInvalidCredentials is returned when email/password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Me resolves the identity bound to token. A 401 maps to
// domain.ErrCredentialRejected; every other failure wraps
// domain.ErrTransientResolution.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &user); err != nil {
		if StatusOf(err) == http.StatusUnauthorized {
			return nil, domain.ErrCredentialRejected
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientResolution, err)
	}
	return &user, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", in, &out); err != nil {
		if StatusOf(err) == http.StatusUnauthorized {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("login response missing access token")
	}
	return out.AccessToken, nil
}

// Register creates an account and returns its first access token.
func (c *Client) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", in, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("register response missing access token")
	}
	return out.AccessToken, nil
}
