package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/leafscan/pkg/routes"
)

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}
	okHandler := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}

	routes.Register(mux, routes.Group{
		Prefix: "/api",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/model", Handler: okHandler},
			{Method: "POST", Pattern: "/model/reload", Handler: okHandler, Middleware: []func(http.Handler) http.Handler{deny}},
		},
		Children: []routes.Group{{
			Prefix: "/runs",
			Routes: []routes.Route{{Method: "GET", Pattern: "/{id}", Handler: okHandler}},
		}},
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/api/model", http.StatusNoContent},
		{"POST", "/api/model/reload", http.StatusForbidden},
		{"GET", "/api/runs/abc", http.StatusNoContent},
		{"DELETE", "/api/model", http.StatusMethodNotAllowed},
		{"GET", "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: got %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}
