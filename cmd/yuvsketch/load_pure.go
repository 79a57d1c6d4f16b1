//go:build purego || js

package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	ys "yuvsketch/pkg/yuvsketch"
)

func loadImageFrame(path string, format ys.PixelFormat) (ys.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return ys.Frame{}, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return ys.Frame{}, fmt.Errorf("decoding image: %w", err)
	}
	return ys.FrameFromImage(img, format)
}
