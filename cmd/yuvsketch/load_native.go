//go:build !purego && !js

package main

import (
	"fmt"

	"gocv.io/x/gocv"

	ys "yuvsketch/pkg/yuvsketch"
)

func loadImageFrame(path string, format ys.PixelFormat) (ys.Frame, error) {
	src := gocv.IMRead(path, gocv.IMReadColor)
	if src.Empty() {
		return ys.Frame{}, fmt.Errorf("could not load image: %s", path)
	}
	defer src.Close()

	img, err := src.ToImage()
	if err != nil {
		return ys.Frame{}, fmt.Errorf("converting image: %w", err)
	}
	return ys.FrameFromImage(img, format)
}
