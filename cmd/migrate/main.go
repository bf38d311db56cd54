package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"storefront-shell/internal/config"
	"storefront-shell/internal/logging"
	"storefront-shell/internal/repository/kv"
)

// Opening the store applies any pending migrations for its backend.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat).WithField("app", "migrate")

	store, err := kv.Open(context.Background(), cfg.StorageDSN)
	if err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	defer store.Close()

	logger.Info("migrations applied")
}
