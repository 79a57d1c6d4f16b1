package yuvsketch

import "fmt"

// Frame is a borrowed view over one video frame. The engine never retains
// a Frame beyond the call it was passed to.
//
// For NV12 the chroma plane follows the luma plane at Stride*Height and
// holds Height/2 rows of Width bytes (interleaved U,V) at the same stride.
type Frame struct {
	Format PixelFormat
	Width  int
	Height int
	Stride int
	Data   []byte
}

// NewFrame allocates a tightly strided frame of the given layout.
func NewFrame(format PixelFormat, width, height int) (Frame, error) {
	stride := format.MinStride(width)
	n, err := RequiredLen(format, stride, width, height)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Format: format, Width: width, Height: height, Stride: stride, Data: make([]byte, n)}, nil
}

// Validate checks the layout, the dimensions, the stride and the buffer
// length. It does not touch the pixel data.
func (f Frame) Validate() error {
	if !f.Format.Valid() {
		return fmt.Errorf("%s: %w", f.Format, ErrInvalidFormat)
	}
	if f.Width <= 0 || f.Height <= 0 || f.Width%2 != 0 {
		return fmt.Errorf("%s %dx%d: %w", f.Format, f.Width, f.Height, ErrInvalidDimensions)
	}
	if _, err := checkedImageSize(f.Format, f.Width, f.Height); err != nil {
		return err
	}
	need, err := RequiredLen(f.Format, f.Stride, f.Width, f.Height)
	if err != nil {
		return err
	}
	if len(f.Data) < need {
		return fmt.Errorf("%s %dx%d stride %d needs %d bytes, have %d: %w",
			f.Format, f.Width, f.Height, f.Stride, need, len(f.Data), ErrBufferTooSmall)
	}
	return nil
}

// sameGeometry reports whether two frames share layout and size.
func (f Frame) sameGeometry(o Frame) bool {
	return f.Format == o.Format && f.Width == o.Width && f.Height == o.Height
}

// Row returns the visible bytes of luma row y (packed layouts include the
// interleaved chroma).
func (f Frame) Row(y int) []byte {
	start := y * f.Stride
	return f.Data[start : start+f.Format.MinStride(f.Width)]
}

// Luma returns the luma sample at (x, y).
func (f Frame) Luma(x, y int) byte {
	return f.Data[y*f.Stride+f.Format.lumaOffset(x)]
}

// SetLuma stores the luma sample at (x, y).
func (f Frame) SetLuma(x, y int, v byte) {
	f.Data[y*f.Stride+f.Format.lumaOffset(x)] = v
}

// chromaIndex returns the index of the chroma byte owned by sample (x, y).
// In NV12 a 2x2 block shares a U,V pair; the U byte is returned.
func (f Frame) chromaIndex(x, y int) int {
	if f.Format == FormatNV12 {
		return f.Stride*f.Height + (y>>1)*f.Stride + f.Format.chromaOffset(x)
	}
	return y*f.Stride + f.Format.chromaOffset(x)
}

// Chroma returns the U and V values that apply to sample (x, y).
func (f Frame) Chroma(x, y int) (u, v byte) {
	switch f.Format {
	case FormatNV12:
		i := f.chromaIndex(x, y)
		return f.Data[i], f.Data[i+1]
	default:
		// Macropixel of two samples carries one U and one V byte.
		base := y*f.Stride + (x&^1)<<1
		if f.Format == FormatYUY2 {
			return f.Data[base+1], f.Data[base+3]
		}
		return f.Data[base], f.Data[base+2]
	}
}

// ChromaPlane returns the NV12 chroma plane, or nil for packed layouts.
func (f Frame) ChromaPlane() []byte {
	if f.Format != FormatNV12 {
		return nil
	}
	start := f.Stride * f.Height
	rows := f.Format.chromaRows(f.Height)
	if rows == 0 {
		return f.Data[start:start]
	}
	return f.Data[start : start+f.Stride*(rows-1)+f.Width]
}

// copyFrame copies every visible byte of src into dst. Both frames must
// share geometry; strides may differ.
func copyFrame(dst, src Frame) {
	rowBytes := src.Format.MinStride(src.Width)
	rows := src.Height + src.Format.chromaRows(src.Height)
	for y := 0; y < rows; y++ {
		copy(dst.Data[y*dst.Stride:y*dst.Stride+rowBytes], src.Data[y*src.Stride:y*src.Stride+rowBytes])
	}
}
