package handlers_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/leafscan/pkg/handlers"
)

var discard = slog.New(slog.DiscardHandler)

func decode(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var body handlers.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]int{"n": 1})

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: %s", ct)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		err     error
		wantMsg string
	}{
		{"client error keeps message", http.StatusBadRequest, errors.New("unable to open image"), "unable to open image"},
		{"internal error hides message", http.StatusInternalServerError, errors.New("pq: secret table"), "Internal Server Error"},
		{"unavailable keeps message", http.StatusServiceUnavailable, errors.New("model not loaded"), "model not loaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondError(rec, discard, tt.status, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			body := decode(t, rec)
			if body.OK || body.Error != tt.wantMsg {
				t.Errorf("body: %+v", body)
			}
		})
	}
}

func TestRespondErrorHint(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondErrorHint(rec, discard, http.StatusServiceUnavailable, errors.New("model not loaded"), "train a model")

	if body := decode(t, rec); body.Hint != "train a model" {
		t.Errorf("hint: got %q", body.Hint)
	}
}
