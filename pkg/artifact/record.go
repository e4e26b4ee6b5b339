package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/leafscan/pkg/classifier"
	"github.com/JaimeStill/leafscan/pkg/features"
	"github.com/JaimeStill/leafscan/pkg/labels"
)

// FormatVersion is written into every record and checked on read.
const FormatVersion = 1

type record struct {
	Version    int                        `json:"version"`
	ID         uuid.UUID                  `json:"id"`
	CreatedAt  time.Time                  `json:"created_at"`
	Features   features.Config            `json:"features"`
	Classes    []string                   `json:"classes"`
	Scaler     classifier.ScalerParams    `json:"scaler"`
	Classifier classifier.EstimatorParams `json:"classifier"`
}

// Encode writes m as a single JSON record.
func Encode(w io.Writer, m *Model) error {
	params, err := m.Pipeline.Params()
	if err != nil {
		return fmt.Errorf("export pipeline: %w", err)
	}

	rec := record{
		Version:    FormatVersion,
		ID:         m.ID,
		CreatedAt:  m.CreatedAt,
		Features:   m.Features,
		Classes:    m.Codec.Classes(),
		Scaler:     params.Scaler,
		Classifier: params.Classifier,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// Decode reads a record written by Encode. Every failure wraps ErrCorrupt.
func Decode(r io.Reader) (*Model, error) {
	var rec record
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty artifact", ErrCorrupt)
		}
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if rec.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, rec.Version)
	}

	codec, err := labels.FromClasses(rec.Classes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	pipeline, err := classifier.FromParams(classifier.Params{
		Scaler:     rec.Scaler,
		Classifier: rec.Classifier,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	m := &Model{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Features:  rec.Features,
		Codec:     codec,
		Pipeline:  pipeline,
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return m, nil
}
