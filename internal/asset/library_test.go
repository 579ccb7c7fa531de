package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestLibrary(t *testing.T) *Library {
	return NewLibrary(t.TempDir(), slog.New(slog.DiscardHandler))
}

func TestInspect(t *testing.T) {
	info, err := Inspect(testPNG(t, 7, 3))
	require.NoError(t, err)
	assert.Equal(t, Info{MIME: "image/png", Ext: "png", Width: 7, Height: 3}, info)

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 5))))
	info, err = Inspect(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/bmp", info.MIME)
	assert.Equal(t, 4, info.Width)
	assert.Equal(t, 5, info.Height)

	_, err = Inspect([]byte("hello, not an image"))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestEmbed(t *testing.T) {
	lib := newTestLibrary(t)
	data := testPNG(t, 2, 2)
	require.NoError(t, os.MkdirAll(filepath.Join(lib.Dir(), "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(lib.Dir(), "sub", "dot.png"), data, 0o644))

	img, err := lib.Embed(context.Background(), "sub/dot.png")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
	require.True(t, strings.HasPrefix(img.URI, "data:image/png;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(img.URI, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEmbedErrors(t *testing.T) {
	lib := newTestLibrary(t)
	require.NoError(t, os.WriteFile(filepath.Join(lib.Dir(), "notes.txt"), []byte("plain text"), 0o644))

	tests := []struct {
		name string
		want error
	}{
		{"missing.png", ErrNotFound},
		{"../escape.png", ErrInvalidName},
		{"/etc/passwd", ErrInvalidName},
		{"", ErrInvalidName},
		{"notes.txt", ErrNotAnImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.Embed(context.Background(), tt.name)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := lib.Embed(ctx, "missing.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreAndDelete(t *testing.T) {
	lib := newTestLibrary(t)
	name, info, err := lib.Store("asset_x", testPNG(t, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, "asset_x.png", name)
	assert.Equal(t, 3, info.Width)
	assert.FileExists(t, filepath.Join(lib.Dir(), name))

	require.NoError(t, lib.Delete(name))
	assert.ErrorIs(t, lib.Delete(name), ErrNotFound)
	assert.ErrorIs(t, lib.Delete("../x"), ErrInvalidName)
}

func TestUploadAndServe(t *testing.T) {
	lib := newTestLibrary(t)
	h := NewHandler(lib, slog.New(slog.DiscardHandler))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "dot.png")
	require.NoError(t, err)
	_, err = part.Write(testPNG(t, 5, 6))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, strings.HasPrefix(resp.ID, "asset_"))
	assert.Equal(t, resp.ID+".png", resp.Name)
	assert.Equal(t, "/assets/"+resp.Name, resp.URL)
	assert.Equal(t, 5, resp.Width)
	assert.Equal(t, 6, resp.Height)

	rec = httptest.NewRecorder()
	h.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	assert.Equal(t, 0, bytes.Index(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := NewHandler(newTestLibrary(t), slog.New(slog.DiscardHandler))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "a.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("just text"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
