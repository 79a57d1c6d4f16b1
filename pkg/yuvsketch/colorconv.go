package yuvsketch

import (
	"fmt"
	"image"
	"image/color"
)

// RGBPlanes holds three full-resolution planes, one byte per sample.
type RGBPlanes struct {
	R, G, B []byte
	Width   int
	Height  int
}

// NewRGBPlanes allocates planes for a w x h frame from one backing slice.
func NewRGBPlanes(width, height int) *RGBPlanes {
	n := width * height
	buf := make([]byte, 3*n)
	return &RGBPlanes{R: buf[:n:n], G: buf[n : 2*n : 2*n], B: buf[2*n:], Width: width, Height: height}
}

// YUY2ToRGB expands a YUY2 frame into planar RGB.
//
// Each macropixel Y0 U Y1 V yields two RGB samples sharing the chroma pair.
// With U and V biased by -128:
//
//	R = Y + V + (V*103 >> 8)
//	G = Y - ((U*88 >> 8) + (V*183 >> 8))
//	B = Y + U + (U*198 >> 8)
//
// and every channel clamped to [0, 255].
func YUY2ToRGB(src Frame, dst *RGBPlanes) error {
	if src.Format != FormatYUY2 {
		return fmt.Errorf("rgb expansion of %s: %w", src.Format, ErrInvalidFormat)
	}
	if err := src.Validate(); err != nil {
		return err
	}
	n := src.Width * src.Height
	if dst == nil || len(dst.R) < n || len(dst.G) < n || len(dst.B) < n {
		return fmt.Errorf("rgb planes for %dx%d: %w", src.Width, src.Height, ErrBufferTooSmall)
	}
	dst.Width, dst.Height = src.Width, src.Height

	w := src.Width
	for y := 0; y < src.Height; y++ {
		row := src.Row(y)
		r := dst.R[y*w : (y+1)*w]
		g := dst.G[y*w : (y+1)*w]
		b := dst.B[y*w : (y+1)*w]
		var rdif, gdif, bdif int
		for p := 0; p < w; p++ {
			x := p << 1
			if p%2 == 0 {
				u := int(row[x+1]) - 128
				v := int(row[x+3]) - 128
				rdif = v + (v*103)>>8
				gdif = (u*88)>>8 + (v*183)>>8
				bdif = u + (u*198)>>8
			}
			luma := int(row[x])
			r[p] = clampByte(luma + rdif)
			g[p] = clampByte(luma - gdif)
			b[p] = clampByte(luma + bdif)
		}
	}
	return nil
}

// Image returns the planes as an RGBA image.
func (p *RGBPlanes) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			i := y*p.Width + x
			img.SetRGBA(x, y, color.RGBA{R: p.R[i], G: p.G[i], B: p.B[i], A: 255})
		}
	}
	return img
}
