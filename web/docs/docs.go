// Package docs serves an interactive API reference page that renders the
// OpenAPI document published by the API module.
package docs

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/leafscan/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

// Page configures the rendered reference page.
type Page struct {
	Title   string
	SpecURL string
}

// NewModule creates a module serving the reference page at prefix.
func NewModule(prefix string, page Page) (*module.Module, error) {
	router, err := buildRouter(page)
	if err != nil {
		return nil, err
	}
	return module.New(prefix, router)
}

func buildRouter(page Page) (http.Handler, error) {
	tmpl, err := template.ParseFS(staticFS, "index.html")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return nil, err
	}
	html := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
	})
	return mux, nil
}
