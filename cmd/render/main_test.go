package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/svgscript/internal/document"
)

func testOptions(input string) options {
	return options{input: input, output: "-", assets: ".", width: 100, height: 100, unit: "px"}
}

func TestRunStdin(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(`{"calls": [{"op": "circle", "center": [1, 2], "r": 3}, {"op": "polygon"}]}`)

	err := run(context.Background(), testOptions("-"), in, &out, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Contains(t, out.String(), `width="100.000px"`)
	assert.Contains(t, out.String(), `<circle cx="1" cy="2" r="3"`)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "drawing.toml")
	require.NoError(t, os.WriteFile(script, []byte("[[calls]]\nop = \"ellipse\"\ncenter = [5, 5]\nrx = 2\nry = 1\n"), 0o644))

	opts := testOptions(script)
	opts.output = filepath.Join(dir, "drawing.svg")
	require.NoError(t, run(context.Background(), opts, nil, nil, slog.New(slog.DiscardHandler)))

	svg, err := os.ReadFile(opts.output)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<ellipse")
	assert.NoFileExists(t, opts.output+".tmp")
}

func TestScriptFormat(t *testing.T) {
	tests := []struct {
		input, format string
		want          document.Format
		wantErr       bool
	}{
		{"a.json", "", document.FormatJSON, false},
		{"a.TOML", "", document.FormatTOML, false},
		{"-", "", document.FormatJSON, false},
		{"a.txt", "toml", document.FormatTOML, false},
		{"a.txt", "", "", true},
		{"a.json", "yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input+"/"+tt.format, func(t *testing.T) {
			opts := testOptions(tt.input)
			opts.format = tt.format
			got, err := scriptFormat(opts)
			if tt.wantErr {
				assert.ErrorIs(t, err, document.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunErrors(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	err := run(context.Background(), testOptions(filepath.Join(t.TempDir(), "missing.json")), nil, nil, logger)
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = run(context.Background(), testOptions("-"), strings.NewReader(`{"calls": []}`), &bytes.Buffer{}, logger)
	assert.ErrorIs(t, err, document.ErrEmptyScript)

	opts := testOptions("-")
	opts.watch = true
	assert.Error(t, run(context.Background(), opts, strings.NewReader("{}"), &bytes.Buffer{}, logger))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "live.json")
	require.NoError(t, os.WriteFile(script, []byte(`{"calls": [{"op": "circle", "center": [0, 0], "r": 1}]}`), 0o644))

	opts := testOptions(script)
	opts.output = filepath.Join(dir, "live.svg")
	opts.watch = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, opts, nil, nil, slog.New(slog.DiscardHandler)) }()

	require.Eventually(t, func() bool {
		svg, err := os.ReadFile(opts.output)
		return err == nil && bytes.Contains(svg, []byte("<circle"))
	}, 5*time.Second, 20*time.Millisecond)

	// Give the watcher time to subscribe before the edit.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(script, []byte(`{"calls": [{"op": "rect", "pt1": [0, 0], "pt2": [2, 2]}]}`), 0o644))

	require.Eventually(t, func() bool {
		svg, err := os.ReadFile(opts.output)
		return err == nil && bytes.Contains(svg, []byte("<rect"))
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
