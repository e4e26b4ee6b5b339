package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/leafscan/pkg/middleware"
)

var discard = slog.New(slog.DiscardHandler)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		cfg        middleware.CORSConfig
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{
			name:       "disabled",
			cfg:        middleware.CORSConfig{Enabled: false, Origins: []string{"*"}},
			method:     http.MethodGet,
			origin:     "http://a.test",
			wantOrigin: "",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "wildcard",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"*"}},
			method:     http.MethodGet,
			origin:     "http://a.test",
			wantOrigin: "*",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "wildcard with credentials echoes origin",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"*"}, AllowCredentials: true},
			method:     http.MethodGet,
			origin:     "http://a.test",
			wantOrigin: "http://a.test",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "listed origin",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"http://a.test"}},
			method:     http.MethodGet,
			origin:     "http://a.test",
			wantOrigin: "http://a.test",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "unlisted origin",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"http://a.test"}},
			method:     http.MethodGet,
			origin:     "http://b.test",
			wantOrigin: "",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "preflight",
			cfg:        middleware.CORSConfig{Enabled: true, Origins: []string{"*"}},
			method:     http.MethodOptions,
			origin:     "http://a.test",
			wantOrigin: "*",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Finalize(nil); err != nil {
				t.Fatal(err)
			}
			h := middleware.CORS(&cfg)(http.HandlerFunc(ok))

			req := httptest.NewRequest(tt.method, "/api/predict-image", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin: got %q, want %q", got, tt.wantOrigin)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := middleware.Logger(logger)(http.HandlerFunc(ok))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/model?x=1", nil))

	out := buf.String()
	for _, want := range []string{"method=GET", "uri=\"/api/model?x=1\"", "status=418"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

type fakeVerifier struct {
	valid string
}

func (f fakeVerifier) Verify(_ context.Context, raw string) error {
	if raw != f.valid {
		return errors.New("bad token")
	}
	return nil
}

func TestAuth(t *testing.T) {
	h := middleware.Auth(fakeVerifier{valid: "good"}, discard)(http.HandlerFunc(ok))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusTeapot},
		{"case-insensitive scheme", "bearer good", http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/model/reload", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthConfigFinalize(t *testing.T) {
	env := &middleware.AuthEnv{
		Enabled:   "TEST_AUTH_ENABLED",
		IssuerURL: "TEST_AUTH_ISSUER_URL",
		ClientID:  "TEST_AUTH_CLIENT_ID",
	}

	disabled := &middleware.AuthConfig{}
	if err := disabled.Finalize(env); err != nil {
		t.Errorf("disabled auth should not require settings: %v", err)
	}

	t.Setenv("TEST_AUTH_ENABLED", "true")
	incomplete := &middleware.AuthConfig{}
	if err := incomplete.Finalize(env); err == nil {
		t.Error("expected error for enabled auth without issuer")
	}

	t.Setenv("TEST_AUTH_ISSUER_URL", "https://issuer.test")
	t.Setenv("TEST_AUTH_CLIENT_ID", "leafscan")
	complete := &middleware.AuthConfig{}
	if err := complete.Finalize(env); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if !complete.Enabled || complete.IssuerURL != "https://issuer.test" || complete.ClientID != "leafscan" {
		t.Errorf("Finalize() = %+v", complete)
	}
}

func TestSystemApplyOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	mw := middleware.New()
	mw.Use(tag("first"))
	mw.Use(tag("second"))

	mw.Apply(http.HandlerFunc(ok)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second" {
		t.Errorf("order: got %v", order)
	}
}

func TestSystemSkipsNilLayers(t *testing.T) {
	var guard middleware.Func
	mw := middleware.New()
	mw.Use(guard, middleware.Logger(discard), nil)

	if mw.Len() != 1 {
		t.Fatalf("Len(): got %d, want 1", mw.Len())
	}

	rec := httptest.NewRecorder()
	mw.Apply(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestCORSConfigFinalize(t *testing.T) {
	env := &middleware.CORSEnv{
		Origins:        "TEST_CORS_ORIGINS",
		AllowedMethods: "TEST_CORS_METHODS",
		AllowedHeaders: "TEST_CORS_HEADERS",
		MaxAge:         "TEST_CORS_MAX_AGE",
	}

	t.Run("defaults", func(t *testing.T) {
		var cfg middleware.CORSConfig
		if err := cfg.Finalize(env); err != nil {
			t.Fatal(err)
		}
		if got := strings.Join(cfg.AllowedMethods, ","); got != "GET,POST,DELETE,OPTIONS" {
			t.Errorf("methods: got %s", got)
		}
		if got := strings.Join(cfg.AllowedHeaders, ","); got != "Content-Type,Authorization" {
			t.Errorf("headers: got %s", got)
		}
		if cfg.MaxAge != middleware.DefaultCORSMaxAge {
			t.Errorf("max age: got %d, want %d", cfg.MaxAge, middleware.DefaultCORSMaxAge)
		}

		cfg.AllowedMethods[0] = "PATCH"
		if middleware.DefaultCORSMethods[0] != "GET" {
			t.Error("defaults must not share backing storage with a config")
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("TEST_CORS_ORIGINS", " http://a.test , ,http://b.test")
		t.Setenv("TEST_CORS_METHODS", "get, post")
		t.Setenv("TEST_CORS_HEADERS", ",,")
		t.Setenv("TEST_CORS_MAX_AGE", "120")

		var cfg middleware.CORSConfig
		if err := cfg.Finalize(env); err != nil {
			t.Fatal(err)
		}
		if got := strings.Join(cfg.Origins, ","); got != "http://a.test,http://b.test" {
			t.Errorf("origins: got %s", got)
		}
		if got := strings.Join(cfg.AllowedMethods, ","); got != "GET,POST" {
			t.Errorf("methods: got %s", got)
		}
		if got := strings.Join(cfg.AllowedHeaders, ","); got != "Content-Type,Authorization" {
			t.Errorf("blank header list should keep defaults, got %s", got)
		}
		if cfg.MaxAge != 120 {
			t.Errorf("max age: got %d, want 120", cfg.MaxAge)
		}
	})
}

func TestCORSPreflightAdvertisesUpload(t *testing.T) {
	cfg := middleware.CORSConfig{Enabled: true, Origins: []string{"http://a.test"}}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	h := middleware.CORS(&cfg)(http.HandlerFunc(ok))

	req := httptest.NewRequest(http.MethodOptions, "/api/predict-image", nil)
	req.Header.Set("Origin", "http://a.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	tests := []struct {
		header string
		want   string
	}{
		{"Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS"},
		{"Access-Control-Allow-Headers", "Content-Type, Authorization"},
		{"Access-Control-Max-Age", "600"},
	}
	for _, tt := range tests {
		if got := rec.Header().Get(tt.header); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.header, got, tt.want)
		}
	}
}
