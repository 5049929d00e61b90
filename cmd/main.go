package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytimport/internal/services"
	"github.com/desertthunder/ytimport/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	_ = godotenv.Load()

	logger := shared.NewLogger(nil)

	configPath := os.Getenv("YTIMPORT_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			logger.Fatal("invalid configuration", "path", configPath, "error", err)
		}
		config = loaded
	}
	config.ApplyEnv(os.Getenv)

	youtube := services.NewYouTubeService(config.Credentials.YouTube.ProxyURL, nil)
	if headers := config.Credentials.YouTube.HeadersPath; headers != "" {
		if err := youtube.Authenticate(context.Background(), map[string]string{"auth_file": headers}); err != nil {
			logger.Warn("youtube music auth not configured", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    youtube,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:    "ytimport",
		Usage:   "Import Spotify tracks into YouTube Music playlists",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted")
			os.Exit(130)
		}
		logger.Fatalf("application error: %v", err)
	}
}
