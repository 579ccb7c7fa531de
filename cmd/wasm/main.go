//go:build js && wasm

package main

import (
	"context"
	"strings"
	"syscall/js"

	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.New(engine.Page{Width: 210, Height: 297, Unit: "mm"})

	api := js.Global().Get("Object").New()

	api.Set("renderScript", js.FuncOf(renderScript))
	api.Set("getSample", js.FuncOf(getSample))
	api.Set("getOps", js.FuncOf(getOps))

	js.Global().Set("svgscriptEngine", api)
	js.Global().Set("svgscriptWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// renderScript(text, format?) returns {svg, problems} or {error}.
func renderScript(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing script"})
	}

	s, err := document.Decode([]byte(args[0].String()), formatArg(args, 1))
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	res, err := eng.Render(context.Background(), s)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	problems := make([]interface{}, len(res.Problems))
	for i, p := range res.Problems {
		problems[i] = map[string]interface{}{
			"call":    p.Call,
			"op":      p.Op,
			"name":    p.Name,
			"message": p.Message,
		}
	}
	return js.ValueOf(map[string]interface{}{
		"svg":      string(res.SVG),
		"problems": problems,
		"objects":  res.Objects,
	})
}

// getSample(format?) returns the sample script as text.
func getSample(this js.Value, args []js.Value) interface{} {
	var b strings.Builder
	if err := document.Encode(&b, document.Sample(), formatArg(args, 0)); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(b.String())
}

func getOps(this js.Value, args []js.Value) interface{} {
	ops := make([]interface{}, len(document.Ops))
	for i, op := range document.Ops {
		ops[i] = string(op)
	}
	return js.ValueOf(ops)
}

func formatArg(args []js.Value, i int) document.Format {
	if len(args) > i && args[i].Type() == js.TypeString && args[i].String() == string(document.FormatTOML) {
		return document.FormatTOML
	}
	return document.FormatJSON
}
