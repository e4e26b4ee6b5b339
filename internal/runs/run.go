// Package runs records training runs in PostgreSQL and exposes them over
// HTTP.
package runs

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/leafscan/pkg/training"
)

// Run is one recorded training run.
type Run struct {
	ID          uuid.UUID    `json:"id"`
	ArtifactKey string       `json:"artifact_key"`
	ModelID     uuid.UUID    `json:"model_id"`
	Classifier  string       `json:"classifier"`
	Samples     int          `json:"samples"`
	Accuracy    float64      `json:"accuracy"`
	DurationMS  int64        `json:"duration_ms"`
	CreatedAt   time.Time    `json:"created_at"`
	Classes     []ClassCount `json:"classes,omitempty"`
}

// ClassCount is the number of training samples seen for one class.
type ClassCount struct {
	Class   string `json:"class"`
	Samples int    `json:"samples"`
}

// RecordCommand carries a finished training run.
type RecordCommand struct {
	ArtifactKey string
	ModelID     uuid.UUID
	Classifier  string
	Samples     int
	Accuracy    float64
	Duration    time.Duration
	Classes     []ClassCount
}

// CommandFromResult builds a RecordCommand for a model saved under key.
// Classes are listed in codec order.
func CommandFromResult(key string, res *training.Result) RecordCommand {
	classes := make([]ClassCount, 0, len(res.ClassCounts))
	for _, name := range res.Model.Codec.Classes() {
		classes = append(classes, ClassCount{Class: name, Samples: res.ClassCounts[name]})
	}

	return RecordCommand{
		ArtifactKey: key,
		ModelID:     res.Model.ID,
		Classifier:  string(res.Model.Kind()),
		Samples:     res.Samples,
		Accuracy:    res.Accuracy,
		Duration:    res.Duration,
		Classes:     classes,
	}
}

// Validate reports whether cmd can be stored.
func (c RecordCommand) Validate() error {
	switch {
	case strings.TrimSpace(c.ArtifactKey) == "":
		return fmt.Errorf("%w: artifact key required", ErrInvalidRun)
	case c.ModelID == uuid.Nil:
		return fmt.Errorf("%w: model id required", ErrInvalidRun)
	case c.Samples < 1:
		return fmt.Errorf("%w: samples must be positive", ErrInvalidRun)
	case c.Accuracy < 0 || c.Accuracy > 1:
		return fmt.Errorf("%w: accuracy %v outside [0,1]", ErrInvalidRun, c.Accuracy)
	case len(c.Classes) < 2:
		return fmt.Errorf("%w: at least two classes required", ErrInvalidRun)
	}

	total := 0
	for _, cc := range c.Classes {
		total += cc.Samples
	}
	if total != c.Samples {
		return fmt.Errorf("%w: class counts sum to %d, want %d", ErrInvalidRun, total, c.Samples)
	}

	names := make([]string, len(c.Classes))
	for i, cc := range c.Classes {
		names[i] = cc.Class
	}
	slices.Sort(names)
	if len(slices.Compact(names)) != len(c.Classes) {
		return fmt.Errorf("%w: duplicate class", ErrInvalidRun)
	}
	return nil
}
