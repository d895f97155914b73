package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookfinder/internal/config"
	"github.com/listenupapp/bookfinder/internal/logger"
	"github.com/listenupapp/bookfinder/internal/query"
	"github.com/listenupapp/bookfinder/internal/tui"
	"github.com/listenupapp/bookfinder/internal/validation"
	"github.com/listenupapp/bookfinder/internal/view"
)

// ProvideValidator provides the shared struct validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideViewController provides the view controller.
func ProvideViewController(i do.Injector) (*view.Controller, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*CatalogClientHandle](i)

	return view.New(client.Client,
		view.WithSearchLimit(cfg.UI.SearchLimit),
		view.WithLogger(log.Component("view").Logger),
	), nil
}

// ProvideSearchBuilder provides the search field state.
func ProvideSearchBuilder(_ do.Injector) (*query.SearchBuilder, error) {
	return query.NewSearchBuilder(), nil
}

// ProvideRecommendationBuilder provides the recommendation form state.
func ProvideRecommendationBuilder(i do.Injector) (*query.RecommendationBuilder, error) {
	client := do.MustInvoke[*CatalogClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return query.NewRecommendationBuilder(client.Client, v, log.Component("recommendations").Logger), nil
}

// ProvideApp provides the root terminal model.
func ProvideApp(i do.Injector) (tui.App, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*CatalogClientHandle](i)

	var probe tui.CoverProber
	if cfg.UI.ProbeCovers {
		probe = client.ProbeCover
	}

	return tui.New(tui.Config{
		Controller:      do.MustInvoke[*view.Controller](i),
		Search:          do.MustInvoke[*query.SearchBuilder](i),
		Recommendations: do.MustInvoke[*query.RecommendationBuilder](i),
		ProbeCover:      probe,
		Logger:          log.Component("tui").Logger,
	}), nil
}
