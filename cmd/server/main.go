package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cosmicwatch/cosmicwatch-server/internal/app"
	"github.com/cosmicwatch/cosmicwatch-server/internal/config"
	"github.com/cosmicwatch/cosmicwatch-server/internal/log"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "cosmicwatch-server",
		Short:        "Cosmic Watch backend: asteroid feed, chat rooms, realtime relay",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(configPath string) error {
	// Optional .env for local development; env vars feed the viper loader.
	_ = godotenv.Load()

	bootLogger := log.New("info", false)

	cfg, path, err := config.Load(bootLogger, configPath)
	if err != nil {
		return err
	}

	logger := log.New(cfg.LogLevel, cfg.LogJSON)
	logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting cosmicwatch server")

	application, err := app.New(&cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
