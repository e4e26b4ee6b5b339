package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/leafscan/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Leafscan API", "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Leafscan API" || spec.Info.Version != "1.0.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if _, ok := spec.Components.Schemas["Error"]; !ok {
		t.Error("components should define the Error schema")
	}
	if _, ok := spec.Components.SecuritySchemes[openapi.BearerAuth]; !ok {
		t.Error("components should define the bearer scheme")
	}
}

func TestAddPaths(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddPaths("/api", map[string]*openapi.PathItem{
		"/model": {Get: &openapi.Operation{Summary: "status"}},
	})
	spec.AddSchemas(map[string]*openapi.Schema{"Status": {Type: "object"}})

	if item, ok := spec.Paths["/api/model"]; !ok || item.Get.Summary != "status" {
		t.Errorf("paths: got %v", spec.Paths)
	}
	if _, ok := spec.Components.Schemas["Status"]; !ok {
		t.Error("schema not merged")
	}
	if _, ok := spec.Components.Schemas["Error"]; !ok {
		t.Error("default schema lost on merge")
	}
}

func TestSecuredOperation(t *testing.T) {
	op := (&openapi.Operation{Summary: "reload"}).Secured(openapi.BearerAuth)

	data, err := json.Marshal(op)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"security":[{"bearerAuth":[]}]`) {
		t.Errorf("security: got %s", data)
	}
}

func TestRequestBodyFile(t *testing.T) {
	body := openapi.RequestBodyFile("file", "leaf image")

	media, ok := body.Content["multipart/form-data"]
	if !ok {
		t.Fatal("expected multipart content")
	}
	if media.Schema.Properties["file"].Format != "binary" {
		t.Errorf("file format: got %s", media.Schema.Properties["file"].Format)
	}
	if !body.Required {
		t.Error("file body should be required")
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type: got %s", ct)
	}

	body, _ := io.ReadAll(rec.Body)
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("served spec is not JSON: %v", err)
	}
	if decoded["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", decoded["openapi"])
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Custom")

	cfg := openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Custom" {
		t.Errorf("title: got %s, want Custom", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description should default")
	}
}
