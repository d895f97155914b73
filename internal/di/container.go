// Package di provides dependency injection configuration for bookfinder.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookfinder/internal/config"
	"github.com/listenupapp/bookfinder/internal/di/providers"
	"github.com/listenupapp/bookfinder/internal/logger"
	"github.com/listenupapp/bookfinder/internal/query"
	"github.com/listenupapp/bookfinder/internal/tui"
	"github.com/listenupapp/bookfinder/internal/validation"
	"github.com/listenupapp/bookfinder/internal/view"
)

// NewContainer creates the terminal client's container. args are the command-line
// arguments without the program name.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, providers.Args(args))

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Gateway
	do.Provide(injector, providers.ProvideCatalogClient)

	// View state and query builders
	do.Provide(injector, providers.ProvideViewController)
	do.Provide(injector, providers.ProvideSearchBuilder)
	do.Provide(injector, providers.ProvideRecommendationBuilder)

	// Renderer
	do.Provide(injector, providers.ProvideApp)

	return injector
}

// Bootstrap resolves every client service so configuration and wiring errors surface
// before the terminal is taken over.
func Bootstrap(injector *do.RootScope) (tui.App, error) {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return tui.App{}, err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return tui.App{}, err
	}
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.CatalogClientHandle](injector)
	_ = do.MustInvoke[*view.Controller](injector)
	_ = do.MustInvoke[*query.SearchBuilder](injector)
	_ = do.MustInvoke[*query.RecommendationBuilder](injector)

	return do.Invoke[tui.App](injector)
}

// NewDevServerContainer creates the dev server's container.
func NewDevServerContainer(args []string) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, providers.Args(args))

	do.Provide(injector, providers.ProvideDevServerConfig)
	do.Provide(injector, providers.ProvideDevServerLogger)
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideDevHTTPServer)

	return injector
}

// BootstrapDevServer resolves the dev server and returns its HTTP handle.
func BootstrapDevServer(injector *do.RootScope) (*providers.HTTPServerHandle, error) {
	if _, err := do.Invoke[*config.DevServerConfig](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*providers.CatalogHandle](injector); err != nil {
		return nil, err
	}
	return do.Invoke[*providers.HTTPServerHandle](injector)
}
