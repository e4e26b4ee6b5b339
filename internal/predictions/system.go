// Package predictions serves leaf classification over HTTP. It owns the
// model served by the process: loading it from the artifact store at
// startup, reloading on demand and memoising repeated uploads.
package predictions

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/JaimeStill/leafscan/pkg/artifact"
	"github.com/JaimeStill/leafscan/pkg/imaging"
	"github.com/JaimeStill/leafscan/pkg/lifecycle"
	"github.com/JaimeStill/leafscan/pkg/prediction"
)

// System defines the public contract for prediction operations.
type System interface {
	// Handler builds the HTTP handler. adminGuard wraps the endpoints that
	// change the served model.
	Handler(maxUploadSize int64, adminGuard ...func(http.Handler) http.Handler) *Handler

	// Start loads the artifact when the lifecycle starts. A corrupt
	// artifact fails startup; an absent one leaves the service running
	// without a model.
	Start(lc *lifecycle.Coordinator) error

	// Status describes the served model and whether an artifact is
	// currently stored under the configured key.
	Status(ctx context.Context) (Status, error)
	ModelLoaded() bool
	Predict(ctx context.Context, data []byte) (*prediction.Result, error)
	Reload(ctx context.Context) (Status, error)
	// Delete removes the stored artifact and stops serving the model.
	Delete(ctx context.Context) (Status, error)
}

// Config selects the artifact and bounds per-request work.
type Config struct {
	ArtifactKey string
	// CacheSize of zero or less disables result caching.
	CacheSize int
	// MaxPixels caps decoded uploads; zero uses imaging.DefaultMaxPixels.
	MaxPixels int
}

type system struct {
	store     *artifact.Store
	key       string
	decoder   imaging.Decoder
	predictor *prediction.Predictor
	cache     *resultCache
	logger    *slog.Logger
	modelMu   sync.Mutex
}

// New creates a prediction system reading the model from cfg.ArtifactKey
// in store. No model is served until Start or Reload finds one.
func New(store *artifact.Store, cfg Config, logger *slog.Logger) (System, error) {
	predictor, err := prediction.New(nil)
	if err != nil {
		return nil, err
	}

	cache, err := newResultCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("prediction cache: %w", err)
	}

	return &system{
		store:     store,
		key:       cfg.ArtifactKey,
		decoder:   imaging.Decoder{MaxPixels: cfg.MaxPixels},
		predictor: predictor,
		cache:     cache,
		logger:    logger.With("system", "predictions"),
	}, nil
}

func (s *system) Handler(maxUploadSize int64, adminGuard ...func(http.Handler) http.Handler) *Handler {
	return NewHandler(s, s.logger, maxUploadSize, adminGuard...)
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() error {
		status, err := s.Reload(lc.Context())
		if err != nil {
			return err
		}
		if !status.ModelLoaded {
			s.logger.Warn("no model artifact found, predictions disabled", "key", s.key)
		}
		return nil
	})
	return nil
}

func (s *system) Status(ctx context.Context) (Status, error) {
	status := s.modelStatus(false)
	present, err := s.store.Exists(ctx, s.key)
	if err != nil {
		return status, err
	}
	status.ArtifactPresent = present
	return status, nil
}

func (s *system) ModelLoaded() bool {
	return s.predictor.Loaded()
}

func (s *system) modelStatus(present bool) Status {
	status := Status{
		OK:              true,
		Service:         ServiceName,
		ArtifactKey:     s.key,
		ArtifactPresent: present,
	}

	m := s.predictor.Model()
	if m == nil {
		return status
	}

	id, created := m.ID, m.CreatedAt
	status.ModelLoaded = true
	status.ModelID = &id
	status.Classifier = string(m.Kind())
	status.Classes = m.Codec.Classes()
	status.CreatedAt = &created
	return status
}

func (s *system) Predict(ctx context.Context, data []byte) (*prediction.Result, error) {
	m := s.predictor.Model()
	if m == nil {
		return nil, prediction.ErrModelUnavailable
	}

	key := cacheKey(m.ID, data)
	if r, ok := s.cache.get(key); ok {
		return r, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := s.decoder.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	result, err := s.predictor.Predict(img)
	if err != nil {
		return nil, err
	}

	s.cache.add(cacheKey(result.ModelID, data), result)
	return result, nil
}

// Reload re-reads the artifact. An absent artifact keeps the current model.
func (s *system) Reload(ctx context.Context) (Status, error) {
	s.modelMu.Lock()
	defer s.modelMu.Unlock()

	m, found, err := s.store.Load(ctx, s.key)
	if err != nil {
		return s.modelStatus(true), fmt.Errorf("reload model: %w", err)
	}
	if !found {
		s.logger.Info("model artifact absent, keeping current state", "key", s.key)
		return s.modelStatus(false), nil
	}

	if err := s.predictor.Load(m); err != nil {
		return s.modelStatus(true), err
	}
	s.cache.purge()

	s.logger.Info(
		"model loaded",
		"key", s.key,
		"id", m.ID,
		"classifier", m.Kind(),
		"classes", m.Codec.Len(),
	)
	return s.modelStatus(true), nil
}

// Delete removes the artifact and unloads the model so predictions fail
// with ErrModelUnavailable until a new artifact is reloaded. A missing
// artifact returns storage.ErrNotFound and leaves the served model alone.
func (s *system) Delete(ctx context.Context) (Status, error) {
	s.modelMu.Lock()
	defer s.modelMu.Unlock()

	if err := s.store.Delete(ctx, s.key); err != nil {
		return s.modelStatus(false), err
	}

	if err := s.predictor.Load(nil); err != nil {
		return s.modelStatus(false), err
	}
	s.cache.purge()

	s.logger.Info("model artifact deleted, predictions disabled", "key", s.key)
	return s.modelStatus(false), nil
}
