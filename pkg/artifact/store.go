package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/leafscan/pkg/storage"
)

// ContentType is recorded on uploaded artifacts.
const ContentType = "application/json"

// Store saves and loads models through a storage.System.
type Store struct {
	storage storage.System
	logger  *slog.Logger
}

func NewStore(s storage.System, logger *slog.Logger) *Store {
	return &Store{
		storage: s,
		logger:  logger.With("system", "artifact"),
	}
}

// Save encodes m and writes it to key, replacing any previous artifact.
func (s *Store) Save(ctx context.Context, key string, m *Model) error {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	if err := s.storage.Upload(ctx, key, &buf, ContentType); err != nil {
		return fmt.Errorf("save model %s: %w", key, err)
	}

	s.logger.Info("model saved", "key", key, "id", m.ID, "classes", m.Codec.Len())
	return nil
}

// Load reads the model at key. A missing artifact is reported as
// (nil, false, nil) so callers can start without a model. An artifact that
// exists but cannot be decoded returns ErrCorrupt.
func (s *Store) Load(ctx context.Context, key string) (*Model, bool, error) {
	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info("no model artifact found", "key", key)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load model %s: %w", key, err)
	}
	defer rc.Close()

	m, err := Decode(rc)
	if err != nil {
		return nil, false, fmt.Errorf("load model %s: %w", key, err)
	}

	s.logger.Info("model loaded", "key", key, "id", m.ID, "kind", m.Kind(), "classes", m.Codec.Len())
	return m, true, nil
}

// Exists reports whether an artifact is stored at key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.storage.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("stat model %s: %w", key, err)
	}
	return ok, nil
}

// Delete removes the artifact at key. A missing artifact returns an error
// wrapping storage.ErrNotFound.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete model %s: %w", key, err)
	}
	s.logger.Info("model deleted", "key", key)
	return nil
}
