package asset

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/inamate/svgscript/internal/typeid"
)

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
}

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	lib    *Library
	logger *slog.Logger
}

func NewHandler(lib *Library, logger *slog.Logger) *Handler {
	return &Handler{lib: lib, logger: logger}
}

// Upload handles POST /api/assets (multipart form with a "file" field).
// The stored name is what scripts pass to the image call.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAssetSize+1<<20)

	if err := r.ParseMultipartForm(maxAssetSize); err != nil {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAssetSize+1))
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}
	if len(data) > maxAssetSize {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	id := typeid.NewAssetID()
	name, info, err := h.lib.Store(id, data)
	if errors.Is(err, ErrNotAnImage) {
		http.Error(w, "unsupported image: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("store asset", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	h.logger.Info("asset stored", "id", id, "name", name, "mime", info.MIME)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UploadResponse{
		ID:     id,
		Name:   name,
		URL:    "/assets/" + name,
		Width:  info.Width,
		Height: info.Height,
		Type:   info.MIME,
	})
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.lib.Dir()))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset names embed a unique id, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}
