package providers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookfinder/internal/config"
	"github.com/listenupapp/bookfinder/internal/devserver"
	"github.com/listenupapp/bookfinder/internal/logger"
)

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of the server.
	shutdownTimeout = 10 * time.Second

	readHeaderTimeout = 5 * time.Second
)

// ProvideDevServerConfig provides the dev server configuration.
func ProvideDevServerConfig(i do.Injector) (*config.DevServerConfig, error) {
	args := do.MustInvoke[Args](i)
	return config.LoadDevServer(args)
}

// ProvideDevServerLogger provides the dev server logger, writing to stdout.
func ProvideDevServerLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.DevServerConfig](i)

	return logger.New(logger.Config{
		Writer:      os.Stdout,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}), nil
}

// CatalogHandle wraps the in-memory catalog with shutdown capability.
type CatalogHandle struct {
	*devserver.Catalog
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	return h.Close()
}

// ProvideCatalog loads and indexes the dev server catalog.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.DevServerConfig](i)
	log := do.MustInvoke[*logger.Logger](i)

	cat, err := devserver.LoadCatalog(cfg.Catalog, log.Component("catalog").Logger)
	if err != nil {
		log.WithError(err).Error("Catalog load failed", "source", cfg.Catalog)
		return nil, err
	}

	source := cfg.Catalog
	if source == "" {
		source = "built-in sample"
	}
	log.Info("Catalog ready", "source", source, "books", cat.Len())

	return &CatalogHandle{Catalog: cat}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideDevHTTPServer provides the dev server's HTTP server.
func ProvideDevHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.DevServerConfig](i)
	log := do.MustInvoke[*logger.Logger](i)
	cat := do.MustInvoke[*CatalogHandle](i)

	srv := devserver.NewServer(cat.Catalog, log.Component("http").Logger)

	return &HTTPServerHandle{
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           srv,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}
