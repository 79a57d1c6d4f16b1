//go:build js && wasm

package main

import (
	"image"
	"syscall/js"

	ys "yuvsketch/pkg/yuvsketch"
)

var (
	lastFrame   ys.Frame
	lastVariant ys.Variant
	engine      = ys.NewEngine(nil)
)

func main() {
	js.Global().Set("sketchFrame", js.FuncOf(sketchFrame))
	js.Global().Set("renderSketch", js.FuncOf(renderSketch))
	select {} // block forever
}

// sketchFrame(frameBytes, format, width, height, options) transforms one
// raw frame and returns the transformed bytes plus an edge analysis.
// options: {median: bool, color: bool, rect: [x0, y0, x1, y1]}.
func sketchFrame(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return errorResult("usage: sketchFrame(frameBytes, format, width, height, options)")
	}

	jsBytes := args[0]
	length := jsBytes.Get("length").Int()
	frameBytes := make([]byte, length)
	js.CopyBytesToGo(frameBytes, jsBytes)

	format, err := ys.ParsePixelFormat(args[1].String())
	if err != nil {
		return errorResult(err.Error())
	}
	width, height := args[2].Int(), args[3].Int()

	params := ys.NewParams()
	var rect *image.Rectangle
	if len(args) >= 5 && args[4].Type() == js.TypeObject {
		opts := args[4]
		if v := opts.Get("median"); v.Type() == js.TypeBoolean {
			params.MedianFilter = v.Bool()
		}
		if v := opts.Get("color"); v.Type() == js.TypeBoolean {
			params.ColorEdges = v.Bool()
		}
		if v := opts.Get("rect"); v.Type() == js.TypeObject && v.Length() == 4 {
			rect = &image.Rectangle{
				Min: image.Point{X: v.Index(0).Int(), Y: v.Index(1).Int()},
				Max: image.Point{X: v.Index(2).Int(), Y: v.Index(3).Int()},
			}
		}
	}
	engine = ys.NewEngine(params)
	engine.SetDestinationRect(rect)

	src, err := ys.ReadRawFrameFromBytes(frameBytes, format, width, height)
	if err != nil {
		return errorResult("frame parse error: " + err.Error())
	}
	if err := engine.Configure(format, width, height); err != nil {
		return errorResult("configure error: " + err.Error())
	}
	dst, err := ys.NewFrame(format, width, height)
	if err != nil {
		return errorResult(err.Error())
	}
	if err := engine.Transform(src, dst); err != nil {
		return errorResult("transform error: " + err.Error())
	}
	lastFrame = dst
	lastVariant = engine.Variant()

	out := js.Global().Get("Uint8Array").New(len(dst.Data))
	js.CopyBytesToJS(out, dst.Data)

	jsResult := map[string]interface{}{
		"width":     width,
		"height":    height,
		"format":    format.String(),
		"variant":   lastVariant.String(),
		"imageSize": int(engine.ImageSize()),
		"frame":     out,
	}

	analysis := ys.AnalyzeEdges(dst, ys.DefaultInkThreshold, !params.ColorEdges)
	if analysis != nil {
		jsZones := make([]interface{}, len(ys.ZoneOrder))
		for i, pos := range ys.ZoneOrder {
			z := analysis.Zones[pos]
			jsZones[i] = map[string]interface{}{
				"label":       z.Label,
				"inkFraction": z.InkFraction,
				"meanLuma":    z.MeanLuma,
				"samples":     z.Samples,
			}
		}
		jsResult["analysis"] = map[string]interface{}{
			"zones":    jsZones,
			"coverage": analysis.Coverage,
			"busiest":  analysis.Busiest,
			"quietest": analysis.Quietest,
		}
	}

	return js.ValueOf(jsResult)
}

func renderSketch(this js.Value, args []js.Value) interface{} {
	if lastFrame.Data == nil {
		return js.Null()
	}

	jpegBytes, err := ys.RenderFrameBytes(lastFrame, lastVariant.String(), "jpeg")
	if err != nil {
		return js.Null()
	}

	uint8Array := js.Global().Get("Uint8Array").New(len(jpegBytes))
	js.CopyBytesToJS(uint8Array, jpegBytes)
	return uint8Array
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
