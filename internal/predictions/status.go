package predictions

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/leafscan/pkg/prediction"
)

// ServiceName identifies the service in status replies.
const ServiceName = "leafscan"

// Status describes the served model. ArtifactPresent reports the store,
// which can differ from ModelLoaded until the next reload.
type Status struct {
	OK              bool       `json:"ok"`
	Service         string     `json:"service"`
	ModelLoaded     bool       `json:"model_loaded"`
	ModelID         *uuid.UUID `json:"model_id,omitempty"`
	Classifier      string     `json:"classifier,omitempty"`
	Classes         []string   `json:"classes,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	ArtifactKey     string     `json:"artifact_key"`
	ArtifactPresent bool       `json:"artifact_present"`
}

// Response is the body of a successful prediction.
type Response struct {
	OK bool `json:"ok"`
	*prediction.Result
}
