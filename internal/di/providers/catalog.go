package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookfinder/internal/catalog"
	"github.com/listenupapp/bookfinder/internal/config"
	"github.com/listenupapp/bookfinder/internal/logger"
)

// CatalogClientHandle wraps the catalog client with shutdown capability.
type CatalogClientHandle struct {
	*catalog.Client
}

// Shutdown implements do.Shutdownable.
func (h *CatalogClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideCatalogClient provides the catalog gateway.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := catalog.New(catalog.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		RPS:     cfg.API.RPS,
	}, log.Component("catalog").Logger)

	log.Info("Catalog client initialized",
		"base_url", client.BaseURL(),
		"timeout", cfg.API.Timeout,
		"rps", cfg.API.RPS,
	)

	return &CatalogClientHandle{Client: client}, nil
}
