package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name    string
		allowed string
		method  string
		origin  string
		status  int
		header  string
	}{
		{"allowed origin", "http://localhost:5173,http://a.test", http.MethodGet, "http://a.test", http.StatusTeapot, "http://a.test"},
		{"other origin", "http://a.test", http.MethodGet, "http://b.test", http.StatusTeapot, ""},
		{"wildcard", "*", http.MethodGet, "http://b.test", http.StatusTeapot, "http://b.test"},
		{"preflight", "http://a.test", http.MethodOptions, "http://a.test", http.StatusNoContent, "http://a.test"},
		{"no origin", "*", http.MethodGet, "", http.StatusTeapot, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/render", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed)(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.header, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRecoveryAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	Logger(logger)(Recovery(logger)(boom)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "msg=panic")
	assert.Contains(t, buf.String(), "status=500")
	assert.Contains(t, buf.String(), "path=/x")
}
