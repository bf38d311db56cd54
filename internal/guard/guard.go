// Package guard decides, before each navigation, whether the visitor may
// reach a route or must be redirected.
package guard

import (
	"context"

	"github.com/sirupsen/logrus"
	"storefront-shell/internal/config"
	"storefront-shell/internal/domain"
	"storefront-shell/internal/service/session"
)

type identitySource interface {
	LoadIdentity(ctx context.Context) (*domain.User, error)
	Snapshot() session.Snapshot
}

type Guard struct {
	session identitySource
	routes  *Routes
	landing Landing
	logger  logrus.FieldLogger
}

// New builds a Guard from a route table.
func New(sess identitySource, table config.RouteTable, logger logrus.FieldLogger) (*Guard, error) {
	routes, err := NewRoutes(table.Routes)
	if err != nil {
		return nil, err
	}
	return &Guard{
		session: sess,
		routes:  routes,
		landing: Landing{
			Login:   table.Landing.Login,
			Admin:   table.Landing.Admin,
			Catalog: table.Landing.Catalog,
		},
		logger: logger.WithField("component", "guard"),
	}, nil
}

// Before runs for every navigation. It always re-resolves the identity and
// waits for it before applying the policy. A failed resolution counts as no
// user; there is no retry.
func (g *Guard) Before(ctx context.Context, destination string) Decision {
	if _, err := g.session.LoadIdentity(ctx); err != nil {
		g.logger.WithError(err).Debug("identity resolution failed, continuing unauthenticated")
	}
	decision := Evaluate(g.routes.Classify(destination), g.session.Snapshot(), g.landing)
	if !decision.Allowed() {
		g.logger.WithFields(logrus.Fields{
			"destination": destination,
			"redirect":    decision.Redirect,
			"reason":      decision.Reason,
		}).Info("navigation redirected")
	}
	return decision
}

// Classify exposes the tier of a path without evaluating the policy.
func (g *Guard) Classify(destination string) Tier {
	return g.routes.Classify(destination)
}
