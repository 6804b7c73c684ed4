package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chromosweep/chromosweep/internal/config"
	"github.com/chromosweep/chromosweep/internal/ctxlog"
	"github.com/chromosweep/chromosweep/internal/engine"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	campaign *config.Campaign
	engine   engine.Engine
	cfg      *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. Passing a nil
// engine selects the external command engine from the campaign file;
// tests substitute their own.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, eng engine.Engine) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	campaign, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load campaign configuration: %w", err))
	}
	if appConfig.BasePath != "" {
		campaign.BasePath = appConfig.BasePath
	}
	logger.Debug("Campaign configuration loaded and validated.")

	if eng == nil {
		eng = engine.NewCommandEngine(campaign.EngineBin)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		campaign: campaign,
		engine:   eng,
		cfg:      appConfig,
	}
}

// Campaign returns the loaded campaign model. This is primarily for testing.
func (a *App) Campaign() *config.Campaign {
	return a.campaign
}
