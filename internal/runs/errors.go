package runs

import (
	"errors"
	"net/http"
)

// Domain errors for training run operations.
var (
	ErrNotFound   = errors.New("training run not found")
	ErrDuplicate  = errors.New("training run already exists")
	ErrInvalidRun = errors.New("invalid training run")
	ErrInvalidID  = errors.New("invalid training run id")
)

// MapHTTPStatus maps training run errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRun), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
