// Package asset stores raster images and turns them into data URIs that a
// drawing can embed.
package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/inamate/svgscript/internal/scene"
)

var (
	ErrNotFound    = errors.New("asset not found")
	ErrNotAnImage  = errors.New("not a supported image")
	ErrInvalidName = errors.New("invalid asset name")
)

const maxAssetSize = 10 << 20

// Library resolves image names relative to a root directory. Names that
// would escape the directory are rejected.
type Library struct {
	dir    string
	logger *slog.Logger
}

// NewLibrary creates a library rooted at dir, creating it if needed.
func NewLibrary(dir string, logger *slog.Logger) *Library {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Library{dir: dir, logger: logger}
}

func (l *Library) Dir() string { return l.dir }

// Info describes a stored image.
type Info struct {
	MIME   string
	Ext    string
	Width  int
	Height int
}

// Inspect sniffs the image type and reads its pixel size without decoding
// the whole image.
func Inspect(data []byte) (Info, error) {
	kind, err := filetype.Image(data)
	if err != nil || kind == filetype.Unknown {
		return Info{}, ErrNotAnImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrNotAnImage, kind.MIME.Value, err)
	}
	return Info{MIME: kind.MIME.Value, Ext: kind.Extension, Width: cfg.Width, Height: cfg.Height}, nil
}

// DataURI encodes data as a base64 data URI of the given MIME type.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Read returns the raw bytes of a stored image.
func (l *Library) Read(name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	root, err := os.OpenRoot(l.dir)
	if err != nil {
		return nil, fmt.Errorf("open asset dir: %w", err)
	}
	defer root.Close()

	f, err := root.Open(filepath.FromSlash(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrNotAnImage, name, maxAssetSize)
	}
	return data, nil
}

// Embed implements scene.ImageLoader.
func (l *Library) Embed(ctx context.Context, name string) (scene.EmbeddedImage, error) {
	if err := ctx.Err(); err != nil {
		return scene.EmbeddedImage{}, err
	}
	data, err := l.Read(name)
	if err != nil {
		return scene.EmbeddedImage{}, err
	}
	info, err := Inspect(data)
	if err != nil {
		return scene.EmbeddedImage{}, err
	}
	l.logger.Debug("embed image", "name", name, "mime", info.MIME, "width", info.Width, "height", info.Height)
	return scene.EmbeddedImage{URI: DataURI(info.MIME, data), Width: info.Width, Height: info.Height}, nil
}

// Store writes data under a fresh name derived from id and the sniffed type.
func (l *Library) Store(id string, data []byte) (string, Info, error) {
	info, err := Inspect(data)
	if err != nil {
		return "", Info{}, err
	}
	name := id + "." + info.Ext
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return "", Info{}, fmt.Errorf("write asset: %w", err)
	}
	return name, info, nil
}

// Delete removes a stored image.
func (l *Library) Delete(name string) error {
	if !fs.ValidPath(name) || name == "." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	err := os.Remove(filepath.Join(l.dir, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}
