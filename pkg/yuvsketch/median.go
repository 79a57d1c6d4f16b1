package yuvsketch

import "fmt"

// Median9 returns the median of nine samples, the 5th smallest of the
// multiset. It selects by partitioning a local copy, so the result does not
// depend on the order of the arguments.
func Median9(v [9]byte) byte {
	const k = 4
	lo, hi := 0, len(v)-1
	for lo < hi {
		pivot := v[(lo+hi)/2]
		i, j := lo, hi
		for i <= j {
			for v[i] < pivot {
				i++
			}
			for v[j] > pivot {
				j--
			}
			if i <= j {
				v[i], v[j] = v[j], v[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return v[k]
		}
	}
	return v[k]
}

// MedianFilter writes the 3x3 median-filtered luma plane of src into
// scratch, tightly packed (row y starts at y*Width). The first and last
// rows and the first and last column of every row are copied unchanged.
func MedianFilter(src Frame, scratch []byte) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if n := src.Width * src.Height; len(scratch) < n {
		return fmt.Errorf("scratch needs %d bytes, have %d: %w", n, len(scratch), ErrBufferTooSmall)
	}
	medianLuma(scratch, src)
	return nil
}

// extractLuma copies the luma samples of src into a tightly packed plane.
func extractLuma(dst []byte, src Frame) {
	w := src.Width
	if src.Format == FormatNV12 {
		for y := 0; y < src.Height; y++ {
			copy(dst[y*w:(y+1)*w], src.Data[y*src.Stride:])
		}
		return
	}
	for y := 0; y < src.Height; y++ {
		row := dst[y*w : (y+1)*w]
		for x := range row {
			row[x] = src.Luma(x, y)
		}
	}
}

// restoreMedianBorders copies the unfiltered border samples of a tightly
// packed luma plane into dst.
func restoreMedianBorders(dst, luma []byte, w, h int) {
	copy(dst[:w], luma[:w])
	copy(dst[(h-1)*w:h*w], luma[(h-1)*w:h*w])
	for y := 1; y < h-1; y++ {
		dst[y*w] = luma[y*w]
		dst[y*w+w-1] = luma[y*w+w-1]
	}
}

// medianLumaPure is the portable median filter. It reads the source frame
// through its layout, so it needs no intermediate plane.
func medianLumaPure(dst []byte, src Frame) {
	w, h := src.Width, src.Height
	if w < 3 || h < 3 {
		extractLuma(dst, src)
		return
	}
	for x := 0; x < w; x++ {
		dst[x] = src.Luma(x, 0)
		dst[(h-1)*w+x] = src.Luma(x, h-1)
	}
	for y := 1; y < h-1; y++ {
		out := dst[y*w : (y+1)*w]
		out[0] = src.Luma(0, y)
		for x := 1; x < w-1; x++ {
			out[x] = Median9([9]byte{
				src.Luma(x-1, y-1), src.Luma(x, y-1), src.Luma(x+1, y-1),
				src.Luma(x-1, y), src.Luma(x, y), src.Luma(x+1, y),
				src.Luma(x-1, y+1), src.Luma(x, y+1), src.Luma(x+1, y+1),
			})
		}
		out[w-1] = src.Luma(w-1, y)
	}
}
