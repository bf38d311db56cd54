package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-shell/internal/domain"
	"storefront-shell/internal/httpclient"
)

// ErrInvalidInput marks credentials rejected before reaching the API.
var ErrInvalidInput = errors.New("invalid input")

type authAPI interface {
	Login(ctx context.Context, in httpclient.LoginInput) (string, error)
	Register(ctx context.Context, in httpclient.RegisterInput) (string, error)
}

type sessionStore interface {
	SetToken(ctx context.Context, token string)
	LoadIdentity(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context)
}

// Service performs login and registration against the storefront API and
// hands the resulting token to the session.
type Service struct {
	api         authAPI
	session     sessionStore
	passwordMin int
}

func New(api authAPI, session sessionStore) *Service {
	return &Service{api: api, session: session, passwordMin: 6}
}

// Login stores the issued token and resolves the user it belongs to.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}
	token, err := s.api.Login(ctx, httpclient.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, token)
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register creates the account, stores its token and resolves the user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email required", ErrInvalidInput)
	}
	if len(in.Password) < s.passwordMin {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, s.passwordMin)
	}
	token, err := s.api.Register(ctx, httpclient.RegisterInput{
		Email:    email,
		Password: in.Password,
		FullName: strings.TrimSpace(in.FullName),
	})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, token)
}

func (s *Service) Logout(ctx context.Context) {
	s.session.Logout(ctx)
}

func (s *Service) establish(ctx context.Context, token string) (*domain.User, error) {
	s.session.SetToken(ctx, token)
	user, err := s.session.LoadIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrCredentialRejected
	}
	return user, nil
}
