//go:build purego || js

package yuvsketch

// MedianBackend names the median implementation compiled in.
const MedianBackend = "purego"

func medianLuma(dst []byte, src Frame) {
	medianLumaPure(dst, src)
}
