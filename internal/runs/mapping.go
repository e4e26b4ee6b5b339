package runs

import (
	"net/url"

	"github.com/JaimeStill/leafscan/pkg/query"
	"github.com/JaimeStill/leafscan/pkg/repository"
)

// projection names fields by their JSON keys so sort and filter parameters
// use the same names clients see.
var projection = query.
	NewProjectionMap("public", "training_runs", "r").
	Project("id", "id").
	Project("artifact_key", "artifact_key").
	Project("model_id", "model_id").
	Project("classifier", "classifier").
	Project("samples", "samples").
	Project("accuracy", "accuracy").
	Project("duration_ms", "duration_ms").
	Project("created_at", "created_at")

var defaultSort = query.SortField{
	Field:      "created_at",
	Descending: true,
}

var errorMap = repository.ErrorMap{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Invalid:   ErrInvalidRun,
}

// Filters narrows run listings. Nil fields are ignored.
type Filters struct {
	Classifier  *string `json:"classifier,omitempty"`
	ArtifactKey *string `json:"artifact_key,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("classifier", f.Classifier).
		WhereEquals("artifact_key", f.ArtifactKey)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if c := values.Get("classifier"); c != "" {
		f.Classifier = &c
	}
	if k := values.Get("artifact_key"); k != "" {
		f.ArtifactKey = &k
	}
	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.ID,
		&r.ArtifactKey,
		&r.ModelID,
		&r.Classifier,
		&r.Samples,
		&r.Accuracy,
		&r.DurationMS,
		&r.CreatedAt,
	)
	return r, err
}

func scanClassCount(s repository.Scanner) (ClassCount, error) {
	var c ClassCount
	err := s.Scan(&c.Class, &c.Samples)
	return c, err
}
