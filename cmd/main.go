package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/saishagoel27/scribbly/internal/services"
	"github.com/saishagoel27/scribbly/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	scribblyService := services.NewScribblyService(services.ScribblyOpts{
		BaseURL:      config.API.BaseURL,
		APIKey:       config.API.APIKey,
		Timeout:      time.Duration(config.API.TimeoutSeconds) * time.Second,
		RateLimit:    config.API.RateLimit,
		TokenURL:     config.API.TokenURL,
		ClientID:     config.API.ClientID,
		ClientSecret: config.API.ClientSecret,
		Scopes:       config.API.Scopes,
	})
	apiService := services.NewAPIService(config.API.BaseURL, nil)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Scribbly: scribblyService,
		API:      apiService,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "scribbly",
		Usage:    "Turn lecture notes and documents into summaries & flashcards",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
