package yuvsketch

import "errors"

// Sentinel errors returned by the transform engine.
// Callers classify them with errors.Is.

// Format and geometry errors. These are reported before any buffer is written.
var (
	// ErrInvalidFormat indicates a pixel layout other than NV12, YUY2 or UYVY,
	// or a variant the layout cannot run (colour edges on a non-YUY2 frame).
	ErrInvalidFormat = errors.New("invalid pixel format")

	// ErrDimensionOverflow indicates the frame size does not fit the
	// 32-bit unsigned size range.
	ErrDimensionOverflow = errors.New("frame dimensions overflow")

	// ErrInvalidDimensions indicates a zero or negative size, or an odd width.
	ErrInvalidDimensions = errors.New("invalid frame dimensions")

	// ErrInvalidStride indicates a stride below the minimal row size.
	ErrInvalidStride = errors.New("stride smaller than row size")

	// ErrBufferTooSmall indicates a source or destination shorter than the
	// frame it is supposed to hold.
	ErrBufferTooSmall = errors.New("buffer too small for frame")
)

// Engine state errors.
var (
	// ErrNotConfigured indicates Transform was called before Configure.
	ErrNotConfigured = errors.New("engine not configured")

	// ErrFrameMismatch indicates a frame whose format or size differs from
	// the configured one.
	ErrFrameMismatch = errors.New("frame does not match engine configuration")
)

// Recoverable conditions. The engine logs and degrades instead of
// returning these from Transform.
var (
	// ErrInvalidRect indicates a destination rectangle with negative or
	// inverted coordinates. The full frame is used instead.
	ErrInvalidRect = errors.New("invalid destination rectangle")

	// ErrAllocationFailure indicates a scratch buffer could not be obtained.
	// The engine falls back to the unfiltered variant.
	ErrAllocationFailure = errors.New("scratch allocation failed")
)
