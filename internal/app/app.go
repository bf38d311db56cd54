// Package app builds the storefront runtime shared by the shell and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"storefront-shell/internal/config"
	"storefront-shell/internal/guard"
	"storefront-shell/internal/httpclient"
	cartrepo "storefront-shell/internal/repository/cart"
	"storefront-shell/internal/repository/kv"
	tokenrepo "storefront-shell/internal/repository/token"
	"storefront-shell/internal/service/auth"
	cartsvc "storefront-shell/internal/service/cart"
	"storefront-shell/internal/service/notify"
	"storefront-shell/internal/service/product"
	"storefront-shell/internal/service/session"
)

// App owns one instance of every store. Consumers receive these instances
// rather than building their own.
type App struct {
	Config        config.Config
	Storage       kv.Repository
	Notifications *notify.Center
	Cart          *cartsvc.Service
	Session       *session.Service
	API           *httpclient.Client
	Catalog       *product.Service
	Auth          *auth.Service
	Guard         *guard.Guard
}

// New opens storage and wires the stores. The caller must Close the App.
func New(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*App, error) {
	routes, err := config.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		return nil, err
	}
	store, err := kv.Open(ctx, cfg.StorageDSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return build(ctx, cfg, routes, store, logger)
}

func build(ctx context.Context, cfg config.Config, routes config.RouteTable, store kv.Repository, logger logrus.FieldLogger) (*App, error) {
	a := &App{Config: cfg, Storage: store}

	a.Notifications = notify.New(cfg.NotificationTTL, logger)
	a.Cart = cartsvc.New(ctx, cartrepo.NewKV(store), a.Notifications, logger)

	// The client reads the token from the session, which resolves identities
	// through the client.
	a.API = httpclient.New(cfg.APIBaseURL, cfg.APITimeout, httpclient.TokenFunc(func() string {
		return a.Session.Token()
	}), logger)
	a.Session = session.New(ctx, tokenrepo.NewKV(store), a.API, logger)
	a.Auth = auth.New(a.API, a.Session)
	a.Catalog = product.New(a.API, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)

	g, err := guard.New(a.Session, routes, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build guard: %w", err)
	}
	a.Guard = g
	return a, nil
}

func (a *App) Close() error {
	return a.Storage.Close()
}
