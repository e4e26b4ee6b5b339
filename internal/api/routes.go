package api

import (
	"net/http"

	"github.com/JaimeStill/leafscan/internal/config"
	"github.com/JaimeStill/leafscan/internal/predictions"
	"github.com/JaimeStill/leafscan/internal/runs"
	"github.com/JaimeStill/leafscan/pkg/openapi"
	"github.com/JaimeStill/leafscan/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	adminGuard []func(http.Handler) http.Handler,
) {
	groups := []routes.Group{
		domain.Predictions.Handler(cfg.API.MaxUploadSizeBytes(), adminGuard...).Routes(),
	}
	if domain.Runs != nil {
		groups = append(groups, domain.Runs.Handler().Routes())
	}
	routes.Register(mux, groups...)
}

func buildSpec(cfg *config.Config, domain *Domain) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.AddSchemas(predictions.Schemas())
	spec.AddPaths("", predictions.Paths(cfg.API.Auth.Enabled))

	if domain.Runs != nil {
		spec.AddSchemas(runs.Schemas())
		spec.AddPaths("", runs.Paths())
	}

	return spec
}
