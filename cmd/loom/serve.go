package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loom-ui/loom/internal/config"
	"github.com/loom-ui/loom/pkg/bridge"
)

func serveCmd() *cobra.Command {
	var (
		configDir string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application",
		Long: `Serve starts a bridge server rendering the built-in demo
application. Configuration is read from loom.toml in the config
directory; missing values fall back to defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configDir)
			if err != nil {
				return err
			}

			bridgeCfg := cfg.Bridge()
			if addr != "" {
				bridgeCfg.Addr = addr
			}

			logger := cfg.Logger(os.Stderr).With("app", cfg.Name)
			srv := bridge.New(bridgeCfg, demoApp, bridge.WithLogger(logger))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting", "addr", bridgeCfg.Addr)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configDir, "config-dir", "c", ".", "Directory containing loom.toml")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides loom.toml)")

	return cmd
}
