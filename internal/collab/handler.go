package collab

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/svgscript/internal/auth"
	"github.com/inamate/svgscript/internal/project"
)

type Handler struct {
	hub     *Hub
	auth    *auth.Service
	origins []string
	logger  *slog.Logger
}

// NewHandler serves preview sockets. allowedOrigins takes the same
// comma-separated list as the CORS middleware.
func NewHandler(hub *Hub, authSvc *auth.Service, allowedOrigins string, logger *slog.Logger) *Handler {
	return &Handler{hub: hub, auth: authSvc, origins: originPatterns(allowedOrigins), logger: logger}
}

// originPatterns reduces origins such as http://localhost:5173 to the
// host patterns websocket.Accept matches against.
func originPatterns(allowed string) []string {
	var out []string
	for _, o := range strings.Split(allowed, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			o = u.Host
		}
		out = append(out, o)
	}
	return out
}

// Preview handles /ws/preview/{drawingId}. The token travels in the query
// string since browsers cannot set headers on websocket requests.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	drawingID := mux.Vars(r)["drawingId"]

	userID, err := h.auth.Authenticate(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	d, err := h.hub.drawings.Get(r.Context(), drawingID, userID)
	switch {
	case err == nil:
	case errors.Is(err, project.ErrNotFound):
		http.Error(w, "drawing not found", http.StatusNotFound)
		return
	case errors.Is(err, project.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	default:
		h.logger.Error("load drawing", "error", err, "drawing", drawingID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.logger.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, userID, drawingID, uuid.New().String(), d)
	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
