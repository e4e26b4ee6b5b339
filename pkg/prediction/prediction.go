// Package prediction serves single-image classification from a loaded
// model.
package prediction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/JaimeStill/leafscan/pkg/artifact"
	"github.com/JaimeStill/leafscan/pkg/features"
)

// ErrModelUnavailable indicates no model has been loaded.
var ErrModelUnavailable = errors.New("model not loaded")

// Score is the probability assigned to one class.
type Score struct {
	Label       string
	Probability float64
}

// Scores is ordered by descending probability. Equal probabilities keep
// class order.
type Scores []Score

// MarshalJSON encodes the scores as a JSON object whose keys follow the
// slice order.
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sc.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(sc.Probability)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Result is the outcome of classifying one image.
type Result struct {
	Label   string    `json:"label"`
	Scores  Scores    `json:"scores"`
	ModelID uuid.UUID `json:"model_id"`
}

type loaded struct {
	model     *artifact.Model
	extractor *features.Extractor
}

// Predictor classifies images with the currently loaded model. The model is
// swapped atomically by Load, so in-flight predictions finish against the
// model they started with. Safe for concurrent use.
type Predictor struct {
	current atomic.Pointer[loaded]
}

// New returns a Predictor serving model. A nil model is allowed; Predict
// then reports ErrModelUnavailable until Load is called.
func New(model *artifact.Model) (*Predictor, error) {
	p := &Predictor{}
	if err := p.Load(model); err != nil {
		return nil, err
	}
	return p, nil
}

// Load replaces the served model. Passing nil unloads it.
func (p *Predictor) Load(model *artifact.Model) error {
	if model == nil {
		p.current.Store(nil)
		return nil
	}

	ext, err := features.New(model.Features)
	if err != nil {
		return fmt.Errorf("load model %s: %w", model.ID, err)
	}
	p.current.Store(&loaded{model: model, extractor: ext})
	return nil
}

// Model returns the served model, or nil.
func (p *Predictor) Model() *artifact.Model {
	if l := p.current.Load(); l != nil {
		return l.model
	}
	return nil
}

// Loaded reports whether a model is being served.
func (p *Predictor) Loaded() bool {
	return p.current.Load() != nil
}

// Predict extracts features from img and scores them.
func (p *Predictor) Predict(img image.Image) (*Result, error) {
	l := p.current.Load()
	if l == nil {
		return nil, ErrModelUnavailable
	}

	vec := l.extractor.Extract(img)
	proba, err := l.model.Pipeline.PredictProba(vec)
	if err != nil {
		return nil, err
	}

	classes := l.model.Codec.Classes()
	if len(proba) != len(classes) {
		return nil, fmt.Errorf("model %s scores %d classes, codec has %d", l.model.ID, len(proba), len(classes))
	}

	scores := make(Scores, len(proba))
	for i, v := range proba {
		scores[i] = Score{Label: classes[i], Probability: v}
	}
	slices.SortStableFunc(scores, func(a, b Score) int {
		switch {
		case a.Probability > b.Probability:
			return -1
		case a.Probability < b.Probability:
			return 1
		}
		return 0
	})

	return &Result{
		Label:   classes[floats.MaxIdx(proba)],
		Scores:  scores,
		ModelID: l.model.ID,
	}, nil
}
