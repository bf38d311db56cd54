// Package session holds the visitor's bearer token and resolved identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"storefront-shell/internal/domain"
	tokenrepo "storefront-shell/internal/repository/token"
)

// Resolver exchanges a token for the current user. It must return
// domain.ErrCredentialRejected when the server refuses the token.
type Resolver interface {
	Me(ctx context.Context, token string) (*domain.User, error)
}

// Snapshot is an immutable copy of the session used for policy decisions.
type Snapshot struct {
	Token string
	User  *domain.User
}

func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

func (s Snapshot) IsAdmin() bool {
	return s.User.IsAdmin()
}

type Service struct {
	mu       sync.Mutex
	token    string
	user     *domain.User
	gen      uint64
	tokens   tokenrepo.Repository
	resolver Resolver
	logger   logrus.FieldLogger
}

// New reads the persisted token. The user stays unresolved until LoadIdentity.
func New(ctx context.Context, tokens tokenrepo.Repository, resolver Resolver, logger logrus.FieldLogger) *Service {
	logger = logger.WithField("component", "session")
	token, err := tokens.Load(ctx)
	if err != nil {
		logger.WithError(err).Warn("load token, starting logged out")
		token = ""
	}
	return &Service{
		token:    token,
		tokens:   tokens,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the resolved user or nil.
func (s *Service) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.user)
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Token: s.token, User: cloneUser(s.user)}
}

// SetToken replaces the token and persists it; "" clears durable storage.
// The user is not refreshed; call LoadIdentity afterwards when needed.
func (s *Service) SetToken(ctx context.Context, token string) {
	s.mu.Lock()
	s.setTokenLocked(ctx, token)
	s.mu.Unlock()
}

func (s *Service) setTokenLocked(ctx context.Context, token string) {
	s.token = token
	s.gen++
	if token == "" {
		s.user = nil
		if err := s.tokens.Clear(ctx); err != nil {
			s.logger.WithError(err).Error("clear token")
		}
		return
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		s.logger.WithError(err).Error("persist token")
	}
}

// Logout clears the token and the resolved user.
func (s *Service) Logout(ctx context.Context) {
	s.SetToken(ctx, "")
}

// LoadIdentity resolves the user for the current token. Without a token the
// user is cleared and no request is made. A rejected credential clears the
// token; any other failure clears only the user. The returned error is
// informational: session state has already been updated when it returns.
//
// Overlapping calls are not de-duplicated and the last to finish wins. A
// resolution that finishes after the token changed is discarded.
func (s *Service) LoadIdentity(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	token := s.token
	gen := s.gen
	if token == "" {
		s.user = nil
		s.mu.Unlock()
		return nil, nil
	}
	s.mu.Unlock()

	user, err := s.resolver.Me(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("token changed during identity resolution, discarding result")
		return cloneUser(s.user), nil
	}
	if err != nil {
		s.user = nil
		if errors.Is(err, domain.ErrCredentialRejected) {
			s.logger.Info("credential rejected, clearing token")
			s.setTokenLocked(ctx, "")
			return nil, err
		}
		s.logger.WithError(err).Warn("identity resolution failed")
		if !errors.Is(err, domain.ErrTransientResolution) {
			err = fmt.Errorf("%w: %v", domain.ErrTransientResolution, err)
		}
		return nil, err
	}
	s.user = cloneUser(user)
	return cloneUser(user), nil
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
