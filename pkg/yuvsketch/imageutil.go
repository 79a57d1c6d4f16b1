package yuvsketch

import (
	"fmt"
	"image"
	"image/color"
)

// FrameToImage converts a frame to an *image.YCbCr (4:2:2 for the packed
// layouts, 4:2:0 for NV12) that the standard encoders understand.
func FrameToImage(f Frame) (*image.YCbCr, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	ratio := image.YCbCrSubsampleRatio422
	if f.Format == FormatNV12 {
		ratio = image.YCbCrSubsampleRatio420
	}
	img := image.NewYCbCr(image.Rect(0, 0, f.Width, f.Height), ratio)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.Y[y*img.YStride+x] = f.Luma(x, y)
		}
	}
	cw := f.Width / 2
	ch := f.Height
	if f.Format == FormatNV12 {
		ch = f.Height / 2
	}
	for cy := 0; cy < ch; cy++ {
		ly := cy
		if f.Format == FormatNV12 {
			ly = cy * 2
		}
		for cx := 0; cx < cw; cx++ {
			u, v := f.Chroma(cx*2, ly)
			img.Cb[cy*img.CStride+cx] = u
			img.Cr[cy*img.CStride+cx] = v
		}
	}
	// 4:2:0 rounds the chroma rows up; an odd height repeats the last pair row.
	if rows := len(img.Cb) / img.CStride; rows > ch && ch > 0 {
		last := (ch - 1) * img.CStride
		for r := ch; r < rows; r++ {
			copy(img.Cb[r*img.CStride:(r+1)*img.CStride], img.Cb[last:last+img.CStride])
			copy(img.Cr[r*img.CStride:(r+1)*img.CStride], img.Cr[last:last+img.CStride])
		}
	}
	return img, nil
}

// LumaImage returns the luma plane of a frame as a grayscale image.
func LumaImage(f Frame) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.Pix[y*img.Stride+x] = f.Luma(x, y)
		}
	}
	return img
}

// FrameFromImage encodes an image into a tightly strided frame. An odd
// image width is cropped by one column; chroma is averaged over the
// samples that share it.
func FrameFromImage(img image.Image, format PixelFormat) (Frame, error) {
	b := img.Bounds()
	w, h := b.Dx()&^1, b.Dy()
	f, err := NewFrame(format, w, h)
	if err != nil {
		return Frame{}, fmt.Errorf("frame from %dx%d image: %w", b.Dx(), b.Dy(), err)
	}

	ys := make([]byte, w*h)
	us := make([]int, w*h)
	vs := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.YCbCrModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.YCbCr)
			ys[y*w+x] = c.Y
			us[y*w+x] = int(c.Cb)
			vs[y*w+x] = int(c.Cr)
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.SetLuma(x, y, ys[y*w+x])
		}
	}

	switch format {
	case FormatNV12:
		plane := f.ChromaPlane()
		for cy := 0; cy < h/2; cy++ {
			for cx := 0; cx < w/2; cx++ {
				i := 2*cy*w + 2*cx
				j := i + w
				u := (us[i] + us[i+1] + us[j] + us[j+1] + 2) / 4
				v := (vs[i] + vs[i+1] + vs[j] + vs[j+1] + 2) / 4
				plane[cy*f.Stride+2*cx] = byte(u)
				plane[cy*f.Stride+2*cx+1] = byte(v)
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x += 2 {
				i := y*w + x
				u := (us[i] + us[i+1] + 1) / 2
				v := (vs[i] + vs[i+1] + 1) / 2
				f.Data[f.chromaIndex(x, y)] = byte(u)
				f.Data[f.chromaIndex(x+1, y)] = byte(v)
			}
		}
	}
	return f, nil
}
