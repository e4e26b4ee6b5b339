package main

import (
	"net/http"

	"github.com/JaimeStill/leafscan/internal/api"
	"github.com/JaimeStill/leafscan/internal/config"
	"github.com/JaimeStill/leafscan/internal/infrastructure"
	"github.com/JaimeStill/leafscan/internal/predictions"
	"github.com/JaimeStill/leafscan/pkg/handlers"
	"github.com/JaimeStill/leafscan/pkg/middleware"
	"github.com/JaimeStill/leafscan/pkg/module"
	"github.com/JaimeStill/leafscan/web/docs"
)

// Modules holds the HTTP modules mounted on the router.
type Modules struct {
	API  *api.API
	Docs *module.Module
}

// NewModules builds every module from the shared infrastructure.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.New(cfg, infra, api.Options{})
	if err != nil {
		return nil, err
	}
	docsModule, err := docs.NewModule("/docs", docs.Page{
		Title:   cfg.API.OpenAPI.Title,
		SpecURL: cfg.API.BasePath + "/openapi.json",
	})
	if err != nil {
		return nil, err
	}
	docsModule.Use(middleware.Logger(infra.Logger))

	return &Modules{API: apiModule, Docs: docsModule}, nil
}

// Mount registers every module on router.
func (m *Modules) Mount(router *module.Router) error {
	if err := router.Mount(m.API.Module); err != nil {
		return err
	}
	return router.Mount(m.Docs)
}

func buildRouter(infra *infrastructure.Infrastructure, modules *Modules) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		status, err := modules.API.Domain.Predictions.Status(r.Context())
		if err != nil {
			handlers.RespondError(w, infra.Logger, predictions.MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, status)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	return router
}
