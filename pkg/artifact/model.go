// Package artifact persists trained models as self-describing JSON records
// in blob storage.
package artifact

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/leafscan/pkg/classifier"
	"github.com/JaimeStill/leafscan/pkg/features"
	"github.com/JaimeStill/leafscan/pkg/labels"
)

var (
	// ErrCorrupt indicates an artifact exists but cannot be decoded into a
	// usable model.
	ErrCorrupt = errors.New("model artifact is corrupt")
	// ErrInvalidModel indicates model components disagree on shape.
	ErrInvalidModel = errors.New("invalid model")
)

// Model bundles everything needed to classify an image: the extraction
// parameters, the label codec and the fitted pipeline. A Model is never
// mutated after construction.
type Model struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Features  features.Config
	Codec     *labels.Codec
	Pipeline  *classifier.Pipeline
}

// New assembles a Model with a fresh ID, checking that the components agree
// on feature dimension and class count.
func New(cfg features.Config, codec *labels.Codec, pipeline *classifier.Pipeline) (*Model, error) {
	m := &Model{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Features:  cfg,
		Codec:     codec,
		Pipeline:  pipeline,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Kind reports the estimator family of the model's pipeline.
func (m *Model) Kind() classifier.Kind {
	kind, _ := m.Pipeline.Kind()
	return kind
}

func (m *Model) validate() error {
	if m.Codec == nil || m.Pipeline == nil {
		return fmt.Errorf("%w: missing codec or pipeline", ErrInvalidModel)
	}
	if err := m.Features.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	if m.Features.Dim() != m.Pipeline.Dim() {
		return fmt.Errorf("%w: features produce %d values, pipeline expects %d", ErrInvalidModel, m.Features.Dim(), m.Pipeline.Dim())
	}
	if m.Codec.Len() != m.Pipeline.NumClasses() {
		return fmt.Errorf("%w: %d classes, pipeline scores %d", ErrInvalidModel, m.Codec.Len(), m.Pipeline.NumClasses())
	}
	return nil
}
