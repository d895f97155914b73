// Package providers contains dependency injection providers for bookfinder.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookfinder/internal/config"
	"github.com/listenupapp/bookfinder/internal/logger"
)

// Args are the command-line arguments without the program name.
type Args []string

// ProvideConfig provides the client configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	args := do.MustInvoke[Args](i)
	return config.Load(args)
}

// ProvideLogger provides the client logger. Output goes to the configured log file
// because the terminal belongs to the UI.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log, err := logger.Open(cfg.Logger.File, logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Starting bookfinder",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"api_url", cfg.API.BaseURL,
		"probe_covers", cfg.UI.ProbeCovers,
	)

	return log, nil
}
