package yuvsketch

import (
	"fmt"
	"image"
	"strings"

	"github.com/sirupsen/logrus"
)

// PixelFormat identifies one of the supported YUV memory layouts.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatNV12
	FormatYUY2
	FormatUYVY
)

// SupportedFormats lists the layouts in negotiation preference order.
var SupportedFormats = []PixelFormat{FormatNV12, FormatYUY2, FormatUYVY}

func (f PixelFormat) String() string {
	switch f {
	case FormatNV12:
		return "NV12"
	case FormatYUY2:
		return "YUY2"
	case FormatUYVY:
		return "UYVY"
	default:
		return "Unknown"
	}
}

// Valid reports whether f is one of the supported layouts.
func (f PixelFormat) Valid() bool {
	return f == FormatNV12 || f == FormatYUY2 || f == FormatUYVY
}

func makeFourCC(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

// FourCC returns the little-endian FOURCC code of the layout, or 0.
func (f PixelFormat) FourCC() uint32 {
	if !f.Valid() {
		return 0
	}
	return makeFourCC(f.String())
}

// ParsePixelFormat accepts a layout name, case-insensitively.
// "YUYV" is accepted as an alias of YUY2.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NV12":
		return FormatNV12, nil
	case "YUY2", "YUYV":
		return FormatYUY2, nil
	case "UYVY":
		return FormatUYVY, nil
	}
	return FormatUnknown, fmt.Errorf("%q: %w", s, ErrInvalidFormat)
}

// PixelFormatFromFourCC maps a FOURCC code to a layout.
func PixelFormatFromFourCC(fcc uint32) (PixelFormat, error) {
	for _, f := range SupportedFormats {
		if f.FourCC() == fcc {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("fourcc 0x%08x: %w", fcc, ErrInvalidFormat)
}

// Variant is the transform routine selected for a configured engine.
// It is resolved once from (format, scratch available, colour mode).
type Variant int

const (
	VariantNone Variant = iota
	VariantNV12
	VariantNV12Filtered
	VariantYUY2
	VariantYUY2Filtered
	VariantUYVY
	VariantUYVYFiltered
	VariantYUY2Color
)

func (v Variant) String() string {
	switch v {
	case VariantNV12:
		return "NV12"
	case VariantNV12Filtered:
		return "NV12+median"
	case VariantYUY2:
		return "YUY2"
	case VariantYUY2Filtered:
		return "YUY2+median"
	case VariantUYVY:
		return "UYVY"
	case VariantUYVYFiltered:
		return "UYVY+median"
	case VariantYUY2Color:
		return "YUY2+rgb"
	default:
		return "None"
	}
}

// Format returns the layout the variant operates on.
func (v Variant) Format() PixelFormat {
	switch v {
	case VariantNV12, VariantNV12Filtered:
		return FormatNV12
	case VariantYUY2, VariantYUY2Filtered, VariantYUY2Color:
		return FormatYUY2
	case VariantUYVY, VariantUYVYFiltered:
		return FormatUYVY
	default:
		return FormatUnknown
	}
}

// Filtered reports whether the variant reads the median-filtered scratch plane.
func (v Variant) Filtered() bool {
	return v == VariantNV12Filtered || v == VariantYUY2Filtered || v == VariantUYVYFiltered
}

// Color reports whether the variant is the full-colour gradient.
func (v Variant) Color() bool { return v == VariantYUY2Color }

// SelectVariant resolves the transform routine for a format.
// The colour gradient only exists for YUY2 and never uses the scratch plane.
func SelectVariant(format PixelFormat, scratchAvailable, color bool) (Variant, error) {
	if color {
		if format != FormatYUY2 {
			return VariantNone, fmt.Errorf("colour edges on %s: %w", format, ErrInvalidFormat)
		}
		return VariantYUY2Color, nil
	}
	switch format {
	case FormatNV12:
		if scratchAvailable {
			return VariantNV12Filtered, nil
		}
		return VariantNV12, nil
	case FormatYUY2:
		if scratchAvailable {
			return VariantYUY2Filtered, nil
		}
		return VariantYUY2, nil
	case FormatUYVY:
		if scratchAvailable {
			return VariantUYVYFiltered, nil
		}
		return VariantUYVY, nil
	}
	return VariantNone, fmt.Errorf("%s: %w", format, ErrInvalidFormat)
}

// Params configures an Engine.
type Params struct {
	// MedianFilter denoises the luma plane before edge detection.
	MedianFilter bool
	// ColorEdges selects the full-colour gradient (YUY2 only).
	ColorEdges bool
	// Workers is the number of goroutines sharing the edge-detection rows.
	Workers int
	// MaxScratchBytes caps the engine-owned scratch buffers. Exceeding it
	// counts as an allocation failure.
	MaxScratchBytes int
	// Logger receives engine logs. Nil means the logrus standard logger.
	Logger *logrus.Logger
}

// NewParams creates Params with default values.
func NewParams() *Params {
	return &Params{
		MedianFilter:    true,
		ColorEdges:      false,
		Workers:         1,
		MaxScratchBytes: 256 << 20,
	}
}

// ValidateRect reports whether r has non-negative coordinates and is not
// inverted. image.Rect canonicalises its arguments, so inverted
// rectangles only arrive as struct literals from callers.
func ValidateRect(r image.Rectangle) bool {
	if r.Min.X < 0 || r.Min.Y < 0 {
		return false
	}
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		return false
	}
	return true
}

// resolveRegion returns the destination region clipped to the frame.
// A nil or invalid rectangle yields the full frame; the invalid case also
// returns ErrInvalidRect so the caller can log it.
func resolveRegion(r *image.Rectangle, width, height int) (image.Rectangle, error) {
	full := image.Rect(0, 0, width, height)
	if r == nil {
		return full, nil
	}
	if !ValidateRect(*r) {
		return full, fmt.Errorf("%v: %w", *r, ErrInvalidRect)
	}
	return r.Intersect(full), nil
}
