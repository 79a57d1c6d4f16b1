package yuvsketch

import (
	"fmt"
	"math"
)

// neutralChroma is the U/V value of a colourless sample.
const neutralChroma = 128

// LumaStep returns the distance in bytes between consecutive luma samples
// of a row: 2 for the packed 4:2:2 layouts, 1 for NV12.
func (f PixelFormat) LumaStep() int {
	if f == FormatNV12 {
		return 1
	}
	return 2
}

// lumaOffset returns the byte offset of luma sample x within a row.
func (f PixelFormat) lumaOffset(x int) int {
	switch f {
	case FormatYUY2:
		return x << 1
	case FormatUYVY:
		return x<<1 + 1
	default:
		return x
	}
}

// chromaOffset returns the byte offset, within a row, of the chroma byte
// carried by luma sample x in the packed layouts. For NV12 it returns the
// offset of the U byte of the pair covering x in a chroma-plane row.
func (f PixelFormat) chromaOffset(x int) int {
	switch f {
	case FormatYUY2:
		return x<<1 + 1
	case FormatUYVY:
		return x << 1
	default:
		return x &^ 1
	}
}

// MinStride returns the minimal row size in bytes for a frame width.
func (f PixelFormat) MinStride(width int) int {
	return width * f.LumaStep()
}

// DefaultStride returns the stride used when the host does not supply one:
// NV12 rows are tightly packed, the packed layouts round up to 4 bytes.
func DefaultStride(format PixelFormat, width int) (int, error) {
	switch format {
	case FormatNV12:
		return width, nil
	case FormatYUY2, FormatUYVY:
		return (width*2 + 3) &^ 3, nil
	}
	return 0, fmt.Errorf("%s: %w", format, ErrInvalidFormat)
}

// ImageSize returns the tightly packed byte size of a frame.
// YUY2 and UYVY take width*height*2 bytes, NV12 takes width*(height+height/2).
// The size is computed in 32-bit unsigned arithmetic and overflow is
// reported instead of wrapping.
func ImageSize(format PixelFormat, width, height uint32) (uint32, error) {
	switch format {
	case FormatYUY2, FormatUYVY:
		if width > math.MaxUint32/2 || (height != 0 && width*2 > math.MaxUint32/height) {
			return 0, fmt.Errorf("%s %dx%d: %w", format, width, height, ErrDimensionOverflow)
		}
		return width * height * 2, nil
	case FormatNV12:
		if height/2 > math.MaxUint32-height || (width != 0 && height+height/2 > math.MaxUint32/width) {
			return 0, fmt.Errorf("%s %dx%d: %w", format, width, height, ErrDimensionOverflow)
		}
		return width * (height + height/2), nil
	}
	return 0, fmt.Errorf("%s: %w", format, ErrInvalidFormat)
}

// checkedImageSize is ImageSize for int dimensions. Dimensions beyond the
// 32-bit range are reported as overflow before any narrowing conversion.
func checkedImageSize(format PixelFormat, width, height int) (uint32, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%s %dx%d: %w", format, width, height, ErrInvalidDimensions)
	}
	if uint64(width) > math.MaxUint32 || uint64(height) > math.MaxUint32 {
		return 0, fmt.Errorf("%s %dx%d: %w", format, width, height, ErrDimensionOverflow)
	}
	return ImageSize(format, uint32(width), uint32(height))
}

// chromaRows returns the number of rows in the separate chroma plane.
func (f PixelFormat) chromaRows(height int) int {
	if f == FormatNV12 {
		return height / 2
	}
	return 0
}

// RequiredLen returns the number of bytes a buffer with the given stride
// must hold for a frame. The last row only needs its visible bytes.
func RequiredLen(format PixelFormat, stride, width, height int) (int, error) {
	if !format.Valid() {
		return 0, fmt.Errorf("%s: %w", format, ErrInvalidFormat)
	}
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidDimensions)
	}
	rowBytes := format.MinStride(width)
	if stride < rowBytes {
		return 0, fmt.Errorf("stride %d < %d: %w", stride, rowBytes, ErrInvalidStride)
	}
	rows := uint64(height) + uint64(format.chromaRows(height))
	n := uint64(stride)*(rows-1) + uint64(rowBytes)
	if n > math.MaxUint32 || n > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%s stride %d x %d rows: %w", format, stride, rows, ErrDimensionOverflow)
	}
	return int(n), nil
}
