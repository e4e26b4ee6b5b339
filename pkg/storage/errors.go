package storage

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
)

var (
	// ErrNotFound indicates no artifact blob exists at the key.
	ErrNotFound = errors.New("blob not found")
	// ErrEmptyKey indicates an empty storage key was provided.
	ErrEmptyKey = errors.New("storage key must not be empty")
	// ErrInvalidKey indicates the storage key contains a path traversal segment.
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
)

// MapHTTPStatus maps storage errors to HTTP status codes. Artifact keys come
// from server configuration rather than requests, so a bad key is a server
// fault. A backend call that outlives its context maps to 504.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if slices.Contains(strings.Split(strings.ReplaceAll(key, `\`, "/"), "/"), "..") {
		return ErrInvalidKey
	}
	return nil
}
