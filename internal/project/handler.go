package project

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/svgscript/internal/auth"
	"github.com/inamate/svgscript/internal/document"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// A drawing request carries the script as text so TOML scripts can be
// stored verbatim.
type drawingRequest struct {
	Name   string          `json:"name"`
	Format document.Format `json:"format"`
	Script string          `json:"script"`
}

func (req *drawingRequest) format() document.Format {
	if req.Format == "" {
		return document.FormatJSON
	}
	return req.Format
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req *drawingRequest) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.service.maxBytes*2)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	client := auth.ClientFromContext(r.Context())

	var req drawingRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	d, err := h.service.Create(r.Context(), client, req.Name, req.format(), []byte(req.Script))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	client := auth.ClientFromContext(r.Context())
	d, err := h.service.Get(r.Context(), mux.Vars(r)["drawingId"], client)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	client := auth.ClientFromContext(r.Context())
	drawings, err := h.service.List(r.Context(), client)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drawings)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	client := auth.ClientFromContext(r.Context())

	var req drawingRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.service.Update(r.Context(), mux.Vars(r)["drawingId"], client, req.Name, req.format(), []byte(req.Script))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) Rerender(w http.ResponseWriter, r *http.Request) {
	client := auth.ClientFromContext(r.Context())
	d, err := h.service.Rerender(r.Context(), mux.Vars(r)["drawingId"], client)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	client := auth.ClientFromContext(r.Context())
	if err := h.service.Delete(r.Context(), mux.Vars(r)["drawingId"], client); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SVG handles GET /api/drawings/{drawingId}/svg.
func (h *Handler) SVG(w http.ResponseWriter, r *http.Request) {
	client := auth.ClientFromContext(r.Context())
	d, err := h.service.Get(r.Context(), mux.Vars(r)["drawingId"], client)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Render-Problems", strconv.Itoa(len(d.Problems)))
	w.Header().Set("ETag", strconv.Quote(d.ID+"-"+strconv.Itoa(d.Version)))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, d.SVG)
}

// Render handles POST /render: a script in the body (JSON, or TOML by
// Content-Type) rendered without saving. Clients that accept JSON get the
// problems list alongside the drawing.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.service.maxBytes)
	script, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "script too large"})
		return
	}

	res, err := h.service.Render(r.Context(), document.FormatFromContentType(r.Header.Get("Content-Type")), script)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, http.StatusOK, map[string]any{"svg": string(res.SVG), "problems": res.Problems})
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Render-Problems", strconv.Itoa(len(res.Problems)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.SVG)
}

// Sample handles GET /sample; ?format=toml returns the TOML form.
func (h *Handler) Sample(w http.ResponseWriter, r *http.Request) {
	f := document.FormatJSON
	ct := "application/json"
	if r.URL.Query().Get("format") == string(document.FormatTOML) {
		f, ct = document.FormatTOML, "application/toml"
	}
	w.Header().Set("Content-Type", ct)
	if err := document.Encode(w, document.Sample(), f); err != nil {
		h.logger.Error("encode sample", "error", err)
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
