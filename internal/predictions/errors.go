package predictions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/leafscan/pkg/classifier"
	"github.com/JaimeStill/leafscan/pkg/imaging"
	"github.com/JaimeStill/leafscan/pkg/prediction"
	"github.com/JaimeStill/leafscan/pkg/storage"
)

// Domain errors for prediction requests.
var (
	ErrMissingFile   = errors.New("missing file in form-data under key 'file'")
	ErrEmptyFilename = errors.New("empty filename")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidImage  = errors.New("unable to open image")
)

// ModelUnavailableHint tells clients how to get a model in place.
const ModelUnavailableHint = "Train a model with cmd/train and store it under the configured model.artifact_key, then call POST /api/model/reload or restart the service."

// MapHTTPStatus maps prediction errors to HTTP status codes. Errors from
// the artifact store fall through to storage.MapHTTPStatus.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, prediction.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrFileTooLarge),
		errors.Is(err, imaging.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMissingFile),
		errors.Is(err, ErrEmptyFilename),
		errors.Is(err, ErrInvalidImage),
		errors.Is(err, imaging.ErrMalformed),
		errors.Is(err, imaging.ErrEmpty),
		errors.Is(err, classifier.ErrDimensionMismatch):
		return http.StatusBadRequest
	default:
		return storage.MapHTTPStatus(err)
	}
}
