//go:build !purego && !js

package yuvsketch

import (
	"gocv.io/x/gocv"
)

// MedianBackend names the median implementation compiled in.
const MedianBackend = "opencv"

// medianLuma runs OpenCV's 3x3 median blur on the extracted luma plane.
// OpenCV replicates the border; the border samples are then restored from
// the source so only interior samples carry the median.
func medianLuma(dst []byte, src Frame) {
	w, h := src.Width, src.Height
	if w < 3 || h < 3 {
		extractLuma(dst, src)
		return
	}
	luma := make([]byte, w*h)
	extractLuma(luma, src)

	in, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, luma)
	if err != nil {
		medianLumaPure(dst, src)
		return
	}
	defer in.Close()
	out := gocv.NewMat()
	defer out.Close()

	gocv.MedianBlur(in, &out, 3)
	if out.Empty() || out.Rows() != h || out.Cols() != w {
		medianLumaPure(dst, src)
		return
	}
	copy(dst[:w*h], out.ToBytes())
	restoreMedianBorders(dst, luma, w, h)
}
