// Package training fits a model artifact from labeled image files.
package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/leafscan/pkg/artifact"
	"github.com/JaimeStill/leafscan/pkg/classifier"
	"github.com/JaimeStill/leafscan/pkg/features"
	"github.com/JaimeStill/leafscan/pkg/imaging"
	"github.com/JaimeStill/leafscan/pkg/labels"
)

var (
	// ErrConfiguration indicates the training request itself is unusable.
	ErrConfiguration = errors.New("invalid training configuration")
	// ErrInput indicates a training image could not be read.
	ErrInput = errors.New("invalid training input")
)

// Options controls feature extraction and estimator selection.
type Options struct {
	Features   features.Config
	Classifier classifier.Options
	// Workers bounds concurrent feature extraction. Values below 1 mean 1.
	Workers int
	// MaxPixels rejects oversized images as ErrInput; zero uses
	// imaging.DefaultMaxPixels.
	MaxPixels int
}

// DefaultOptions returns the default feature config, a logistic estimator
// and sequential extraction.
func DefaultOptions() Options {
	return Options{
		Features:   features.DefaultConfig(),
		Classifier: classifier.Options{Kind: classifier.KindLogistic},
		Workers:    1,
	}
}

// Result describes a completed training run.
type Result struct {
	Model       *artifact.Model
	Samples     int
	ClassCounts map[string]int
	// Accuracy is measured on the training set.
	Accuracy float64
	Duration time.Duration
}

// Trainer builds models from labeled images.
type Trainer struct {
	opts    Options
	decoder imaging.Decoder
	logger  *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Trainer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Trainer{
		opts:    opts,
		decoder: imaging.Decoder{MaxPixels: opts.MaxPixels},
		logger:  logger.With("system", "training"),
	}
}

// Train extracts features from every path, fits the label codec and the
// classifier pipeline, and returns the assembled model. The request is
// validated before any image is decoded.
func (t *Trainer) Train(ctx context.Context, paths, names []string) (*Result, error) {
	start := time.Now()

	if err := validate(paths, names); err != nil {
		return nil, err
	}

	ext, err := features.New(t.opts.Features)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if _, err := classifier.ParseKind(string(t.opts.Classifier.Kind)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	t.logger.Info("extracting features", "samples", len(paths), "workers", t.opts.Workers)

	X, err := t.extract(ctx, ext, paths)
	if err != nil {
		return nil, err
	}

	codec, err := labels.Fit(names)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	y, err := codec.EncodeAll(names)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	pipeline, err := classifier.Fit(X, y, codec.Len(), t.opts.Classifier)
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}

	model, err := artifact.New(ext.Config(), codec, pipeline)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, codec.Len())
	for _, n := range names {
		counts[n]++
	}

	result := &Result{
		Model:       model,
		Samples:     len(paths),
		ClassCounts: counts,
		Accuracy:    accuracy(pipeline, X, y),
		Duration:    time.Since(start),
	}

	t.logger.Info(
		"training complete",
		"model_id", model.ID,
		"kind", model.Kind(),
		"classes", codec.Classes(),
		"accuracy", result.Accuracy,
		"duration", result.Duration,
	)

	return result, nil
}

func validate(paths, names []string) error {
	if len(paths) != len(names) {
		return fmt.Errorf("%w: %d paths but %d labels", ErrConfiguration, len(paths), len(names))
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: no training samples", ErrConfiguration)
	}

	distinct := make(map[string]struct{})
	for _, n := range names {
		distinct[n] = struct{}{}
	}
	if len(distinct) < 2 {
		return fmt.Errorf("%w: need at least 2 distinct labels, found %d", ErrConfiguration, len(distinct))
	}
	return nil
}

// extract decodes and encodes every image. Results are stored by index, so
// the matrix is identical for any worker count.
func (t *Trainer) extract(ctx context.Context, ext *features.Extractor, paths []string) ([]features.Vector, error) {
	X := make([]features.Vector, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := t.decoder.DecodeFile(path)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInput, err)
			}
			X[i] = ext.Extract(img)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return X, nil
}

func accuracy(p *classifier.Pipeline, X []features.Vector, y []int) float64 {
	correct := 0
	for i, x := range X {
		if pred, err := p.Predict(x); err == nil && pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X))
}
