package predictions

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/leafscan/pkg/handlers"
	"github.com/JaimeStill/leafscan/pkg/prediction"
	"github.com/JaimeStill/leafscan/pkg/routes"
)

const formField = "file"

// Handler provides HTTP endpoints for prediction and model management.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
	adminGuard    []func(http.Handler) http.Handler
}

// NewHandler creates a Handler. adminGuard wraps the reload and delete
// endpoints only.
func NewHandler(
	sys System,
	logger *slog.Logger,
	maxUploadSize int64,
	adminGuard ...func(http.Handler) http.Handler,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "predictions"),
		maxUploadSize: maxUploadSize,
		adminGuard:    adminGuard,
	}
}

// Routes returns the route group definition for prediction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/predict-image", Handler: h.Predict},
			{Method: "GET", Pattern: "/model", Handler: h.Model},
			{Method: "DELETE", Pattern: "/model", Handler: h.Delete, Middleware: h.adminGuard},
			{Method: "POST", Pattern: "/model/reload", Handler: h.Reload, Middleware: h.adminGuard},
		},
	}
}

// Predict classifies the image uploaded as multipart field "file".
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if !h.sys.ModelLoaded() {
		h.respondError(w, prediction.ErrModelUnavailable)
		return
	}

	data, err := h.readUpload(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	result, err := h.sys.Predict(r.Context(), data)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{OK: true, Result: result})
}

// Model reports the served model and whether its artifact is stored.
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	status, err := h.sys.Status(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, status)
}

// Delete removes the model artifact and stops serving predictions.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	status, err := h.sys.Delete(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, status)
}

// Reload re-reads the model artifact from storage.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	status, err := h.sys.Reload(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, status)
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, ErrMissingFile
	}

	file, header, err := r.FormFile(formField)
	if err != nil {
		// Parts sent without a filename are parsed as plain values.
		if _, ok := r.MultipartForm.Value[formField]; ok {
			return nil, ErrEmptyFilename
		}
		return nil, ErrMissingFile
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, ErrEmptyFilename
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := MapHTTPStatus(err)
	if status == http.StatusServiceUnavailable {
		handlers.RespondErrorHint(w, h.logger, status, err, ModelUnavailableHint)
		return
	}
	handlers.RespondError(w, h.logger, status, err)
}
