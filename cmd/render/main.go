// Command render turns a drawing script into an SVG file.
//
//	render [flags] script.json|script.toml|-
//
// With -watch it re-renders whenever the script changes.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inamate/svgscript/internal/asset"
	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/engine"
)

const maxScriptBytes = 16 << 20

type options struct {
	input   string
	output  string
	format  string
	assets  string
	width   float64
	height  float64
	unit    string
	watch   bool
	verbose bool
}

func main() {
	var opts options
	flag.StringVar(&opts.output, "o", "-", "output file, - for stdout")
	flag.StringVar(&opts.format, "format", "", "script format (json or toml); guessed from the file extension when empty")
	flag.StringVar(&opts.assets, "assets", ".", "directory images are loaded from")
	flag.Float64Var(&opts.width, "width", 210, "page width when the script sets none")
	flag.Float64Var(&opts.height, "height", 297, "page height when the script sets none")
	flag.StringVar(&opts.unit, "unit", "mm", "page unit")
	flag.BoolVar(&opts.watch, "watch", false, "re-render when the script changes")
	flag.BoolVar(&opts.verbose, "v", false, "log debug output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] script\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.input = flag.Arg(0)

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	format, err := scriptFormat(opts)
	if err != nil {
		return err
	}
	if opts.watch && opts.input == "-" {
		return errors.New("-watch needs a script file")
	}

	eng := engine.New(
		engine.Page{Width: opts.width, Height: opts.height, Unit: opts.unit},
		engine.WithImages(asset.NewLibrary(opts.assets, logger)),
		engine.WithLogger(logger),
	)

	r := &renderer{eng: eng, opts: opts, format: format, stdin: stdin, stdout: stdout, logger: logger}
	err = r.once(ctx)
	if !opts.watch {
		return err
	}
	if err != nil {
		logger.Error("render failed", "error", err)
	}
	return r.watch(ctx)
}

func scriptFormat(opts options) (document.Format, error) {
	switch opts.format {
	case string(document.FormatJSON), string(document.FormatTOML):
		return document.Format(opts.format), nil
	case "":
		if opts.input == "-" {
			return document.FormatJSON, nil
		}
		return document.FormatFromPath(opts.input)
	default:
		return "", fmt.Errorf("%w: %q", document.ErrUnknownFormat, opts.format)
	}
}

type renderer struct {
	eng    *engine.Engine
	opts   options
	format document.Format
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
}

func (r *renderer) once(ctx context.Context) error {
	in := r.stdin
	if r.opts.input != "-" {
		f, err := os.Open(r.opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	s, err := document.Read(in, r.format, maxScriptBytes)
	if err != nil {
		return fmt.Errorf("read %s: %w", r.opts.input, err)
	}
	res, err := r.eng.Render(ctx, s)
	if err != nil {
		return err
	}
	for _, p := range res.Problems {
		r.logger.Warn("problem", "call", p.Call, "op", p.Op, "name", p.Name, "message", p.Message)
	}

	if r.opts.output == "-" {
		_, err = io.Copy(r.stdout, bytes.NewReader(res.SVG))
		return err
	}
	// Atomic replace.
	tmp := r.opts.output + ".tmp"
	if err := os.WriteFile(tmp, res.SVG, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, r.opts.output); err != nil {
		return err
	}
	r.logger.Info("rendered", "output", r.opts.output, "objects", res.Objects, "problems", len(res.Problems))
	return nil
}

// watch re-renders after changes to the script settle. The directory is
// watched rather than the file since editors often save by renaming.
func (r *renderer) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(r.opts.input)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	r.logger.Info("watching", "script", target)

	const settle = 100 * time.Millisecond
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(event.Name)
			if name != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			r.logger.Debug("script changed", "op", event.Op.String())
			timer.Reset(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", "error", err)
		case <-timer.C:
			if err := r.once(ctx); err != nil {
				r.logger.Error("render failed", "error", err)
			}
		}
	}
}
