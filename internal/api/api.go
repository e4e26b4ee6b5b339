// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/JaimeStill/leafscan/internal/config"
	"github.com/JaimeStill/leafscan/internal/infrastructure"
	"github.com/JaimeStill/leafscan/pkg/lifecycle"
	"github.com/JaimeStill/leafscan/pkg/middleware"
	"github.com/JaimeStill/leafscan/pkg/module"
	"github.com/JaimeStill/leafscan/pkg/openapi"
)

const discoveryTimeout = 15 * time.Second

// API is the mounted module together with the domain systems behind it.
type API struct {
	Module *module.Module
	Domain *Domain
}

// Options overrides collaborators that are normally built from config.
type Options struct {
	// Verifier replaces OIDC discovery when auth is enabled.
	Verifier middleware.TokenVerifier
}

// New creates the API module with all domain handlers and middleware.
func New(cfg *config.Config, infra *infrastructure.Infrastructure, opts Options) (*API, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	var adminGuard []func(http.Handler) http.Handler
	if cfg.API.Auth.Enabled {
		verifier := opts.Verifier
		if verifier == nil {
			ctx, cancel := context.WithTimeout(context.Background(), discoveryTimeout)
			defer cancel()

			verifier, err = middleware.NewOIDCVerifier(ctx, &cfg.API.Auth)
			if err != nil {
				return nil, fmt.Errorf("auth init failed: %w", err)
			}
		}
		adminGuard = append(adminGuard, middleware.Auth(verifier, runtime.Logger))
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, adminGuard)

	specBytes, err := openapi.MarshalJSON(buildSpec(cfg, domain))
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return &API{Module: m, Domain: domain}, nil
}

// Start registers the domain startup hooks. Call it after the
// infrastructure has started so storage is prepared first.
func (a *API) Start(lc *lifecycle.Coordinator) error {
	return a.Domain.Predictions.Start(lc)
}
