package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"storefront-shell/internal/app"
	"storefront-shell/internal/config"
	"storefront-shell/internal/httpserver"
	"storefront-shell/internal/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat).WithField("app", "storefront")

	ctx := context.Background()
	shell, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init storefront: %v", err)
	}
	defer shell.Close()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Storage:       shell.Storage,
		Session:       shell.Session,
		Auth:          shell.Auth,
		Cart:          shell.Cart,
		Catalog:       shell.Catalog,
		Orders:        shell.API,
		Notifications: shell.Notifications,
		Guard:         shell.Guard,
		CORSOrigins:   cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	} else {
		logger.Info("server stopped")
	}
}
