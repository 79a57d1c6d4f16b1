package yuvsketch

import (
	"image"
	"sync"
)

// lumaPlane addresses luma samples in either a source frame or the tightly
// packed scratch plane: sample (x, y) lives at y*stride + x*step + offset.
type lumaPlane struct {
	data   []byte
	stride int
	step   int
	offset int
}

func (p lumaPlane) at(x, y int) byte {
	return p.data[y*p.stride+x*p.step+p.offset]
}

func sourcePlane(f Frame) lumaPlane {
	return lumaPlane{data: f.Data, stride: f.Stride, step: f.Format.LumaStep(), offset: f.Format.lumaOffset(0)}
}

func scratchPlane(scratch []byte, width int) lumaPlane {
	return lumaPlane{data: scratch, stride: width, step: 1}
}

// edgeBand is the part of the frame that receives edge detection.
// Rows firstRow <= y < endRow are processed; within them columns
// left <= x < right get neutral chroma, and the columns strictly between
// left and right-1 get a gradient sample.
type edgeBand struct {
	firstRow, endRow int
	left, right      int
}

// newEdgeBand derives the band from a region already clipped to the frame.
// The first and last row of the region pass through, which also keeps the
// 2x2 Roberts window inside the frame.
func newEdgeBand(region image.Rectangle) edgeBand {
	return edgeBand{
		firstRow: region.Min.Y + 1,
		endRow:   region.Max.Y - 1,
		left:     region.Min.X,
		right:    region.Max.X,
	}
}

func (b edgeBand) hasRow(y int) bool {
	return y >= b.firstRow && y < b.endRow && b.left < b.right
}

// gradientKernel returns the output luma for interior sample (x, y).
type gradientKernel func(x, y int) byte

// lumaKernel is the squared Roberts cross through IntensityResponse.
func lumaKernel(p lumaPlane) gradientKernel {
	return func(x, y int) byte {
		return lumaResponse(p.at(x, y), p.at(x+1, y), p.at(x, y+1), p.at(x+1, y+1))
	}
}

// colorKernel sums the linear Roberts magnitudes of the three channels and
// clamps the sum to 255. The sum is not squared.
func colorKernel(rgb *RGBPlanes) gradientKernel {
	w := rgb.Width
	return func(x, y int) byte {
		i := y*w + x
		j := i + w
		m := robertsCross(rgb.R[i], rgb.R[i+1], rgb.R[j], rgb.R[j+1]) +
			robertsCross(rgb.G[i], rgb.G[i+1], rgb.G[j], rgb.G[j+1]) +
			robertsCross(rgb.B[i], rgb.B[i+1], rgb.B[j], rgb.B[j+1])
		if m > 255 {
			return 255
		}
		return byte(m)
	}
}

// edgeRow writes destination row y: a verbatim copy of the source row,
// then, for a processed row, neutral chroma and gradient luma inside the band.
func edgeRow(dst, src Frame, y int, band edgeBand, kernel gradientKernel) {
	copy(dst.Row(y), src.Row(y))
	if !band.hasRow(y) {
		return
	}
	f := src.Format
	out := dst.Data[y*dst.Stride:]
	for x := band.left; x < band.right; x++ {
		if f != FormatNV12 {
			out[f.chromaOffset(x)] = neutralChroma
		}
		if x == band.left || x == band.right-1 {
			continue
		}
		out[f.lumaOffset(x)] = kernel(x, y)
	}
}

// nv12Chroma copies the NV12 chroma plane and neutralises every U,V pair
// whose 2x2 luma block touches the processed band. A pass-through row that
// shares its pair with a processed row therefore loses its source chroma.
func nv12Chroma(dst, src Frame, band edgeBand) {
	w, h := src.Width, src.Height
	for cy := 0; cy < h/2; cy++ {
		so := (h + cy) * src.Stride
		do := (h + cy) * dst.Stride
		out := dst.Data[do : do+w]
		copy(out, src.Data[so:so+w])
		if !band.hasRow(2*cy) && !band.hasRow(2*cy+1) {
			continue
		}
		for c := band.left &^ 1; c < band.right; c += 2 {
			out[c] = neutralChroma
			out[c+1] = neutralChroma
		}
	}
}

// forEachRow calls fn for every row in [0, rows), splitting the rows into
// contiguous bands when workers > 1.
func forEachRow(rows, workers int, fn func(y int)) {
	if workers <= 1 || rows < 2*workers {
		for y := 0; y < rows; y++ {
			fn(y)
		}
		return
	}
	per := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < rows; start += per {
		end := start + per
		if end > rows {
			end = rows
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for y := start; y < end; y++ {
				fn(y)
			}
		}(start, end)
	}
	wg.Wait()
}

// detectEdges runs the gradient over the whole destination frame.
// Any median filtering must already have completed for the full frame.
func detectEdges(dst, src Frame, region image.Rectangle, kernel gradientKernel, workers int) {
	band := newEdgeBand(region)
	forEachRow(src.Height, workers, func(y int) {
		edgeRow(dst, src, y, band, kernel)
	})
	if src.Format == FormatNV12 {
		nv12Chroma(dst, src, band)
	}
}
