package api

import (
	"fmt"

	"github.com/JaimeStill/leafscan/internal/config"
	"github.com/JaimeStill/leafscan/internal/predictions"
	"github.com/JaimeStill/leafscan/internal/runs"
)

// Domain holds all domain systems that comprise the API. Runs is nil when
// the training-run database is disabled.
type Domain struct {
	Predictions predictions.System
	Runs        runs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	predictionsSystem, err := predictions.New(
		runtime.Artifacts,
		predictions.Config{
			ArtifactKey: cfg.Model.ArtifactKey,
			CacheSize:   cfg.Model.CacheSize,
			MaxPixels:   cfg.Model.MaxPixels,
		},
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("predictions init failed: %w", err)
	}

	domain := &Domain{Predictions: predictionsSystem}

	if runtime.Database != nil {
		domain.Runs = runs.New(
			runtime.Database.Connection(),
			runtime.Logger,
			runtime.Pagination,
		)
	}

	return domain, nil
}
