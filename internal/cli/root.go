// Package cli implements cartctl, the operator tool for the storefront's
// durable cart and session.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"storefront-shell/internal/app"
	"storefront-shell/internal/config"
	"storefront-shell/internal/logging"
)

type openFunc func(ctx context.Context, cfg config.Config, cmd *cobra.Command) (*app.App, error)

type runtime struct {
	open openFunc
	app  *app.App

	storageDSN string
	apiBaseURL string
	routesFile string
	logLevel   string
}

func defaultOpen(ctx context.Context, cfg config.Config, cmd *cobra.Command) (*app.App, error) {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return app.New(ctx, cfg, logger)
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultOpen)
}

func newRootCmd(open openFunc) *cobra.Command {
	rt := &runtime{open: open}

	rootCmd := &cobra.Command{
		Use:           "cartctl",
		Short:         "Inspect and edit the storefront's local cart and session",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.start(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return rt.stop()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rt.storageDSN, "storage", "", "storage DSN (overrides STORAGE_DSN)")
	flags.StringVar(&rt.apiBaseURL, "api", "", "storefront API base URL (overrides API_BASE_URL)")
	flags.StringVar(&rt.routesFile, "routes", "", "route table file (overrides ROUTES_FILE)")
	flags.StringVar(&rt.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		newCartCommand(rt),
		newSessionCommand(rt),
		newRouteCommand(rt),
	)

	return rootCmd
}

func (rt *runtime) start(cmd *cobra.Command) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if rt.storageDSN != "" {
		cfg.StorageDSN = rt.storageDSN
	}
	if rt.apiBaseURL != "" {
		cfg.APIBaseURL = rt.apiBaseURL
	}
	if rt.routesFile != "" {
		cfg.RoutesFile = rt.routesFile
	}
	if rt.logLevel != "" {
		cfg.LogLevel = rt.logLevel
	}
	a, err := rt.open(cmd.Context(), cfg, cmd)
	if err != nil {
		return err
	}
	rt.app = a
	return nil
}

func (rt *runtime) stop() error {
	if rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	return err
}

var errInvalidCart = errors.New("cart is not valid")
