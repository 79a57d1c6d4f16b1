package yuvsketch

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
)

// Transform runs the luma edge detector on one frame without an engine.
//
// A nil rect means the full frame; an invalid rect also falls back to the
// full frame. A scratch buffer of at least width*height bytes selects the
// median-filtered variant, anything shorter the unfiltered one. All
// geometry is validated before dst is written.
func Transform(format PixelFormat, src []byte, srcStride int, dst []byte, dstStride int,
	width, height int, rect *image.Rectangle, scratch []byte) error {
	in := Frame{Format: format, Width: width, Height: height, Stride: srcStride, Data: src}
	out := Frame{Format: format, Width: width, Height: height, Stride: dstStride, Data: dst}
	if err := validatePair(in, out); err != nil {
		return err
	}
	region, err := resolveRegion(rect, width, height)
	if err != nil {
		logInvalidRect(logrus.StandardLogger(), "Transform", err)
	}
	variant, err := SelectVariant(format, len(scratch) >= width*height, false)
	if err != nil {
		return err
	}
	runVariant(variant, out, in, region, scratch, nil, 1)
	return nil
}

// TransformColor runs the full-colour gradient on one YUY2 frame. rgb may
// be nil, in which case the planes are allocated for this call.
func TransformColor(src, dst Frame, rect *image.Rectangle, rgb *RGBPlanes) error {
	if src.Format != FormatYUY2 {
		return fmt.Errorf("colour edges on %s: %w", src.Format, ErrInvalidFormat)
	}
	if err := validatePair(src, dst); err != nil {
		return err
	}
	region, err := resolveRegion(rect, src.Width, src.Height)
	if err != nil {
		logInvalidRect(logrus.StandardLogger(), "TransformColor", err)
	}
	if rgb == nil || len(rgb.R) < src.Width*src.Height {
		rgb = NewRGBPlanes(src.Width, src.Height)
	}
	runVariant(VariantYUY2Color, dst, src, region, nil, rgb, 1)
	return nil
}

func validatePair(src, dst Frame) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if !src.sameGeometry(dst) {
		return fmt.Errorf("source %s %dx%d, destination %s %dx%d: %w",
			src.Format, src.Width, src.Height, dst.Format, dst.Width, dst.Height, ErrFrameMismatch)
	}
	return nil
}

func logInvalidRect(log *logrus.Logger, function string, err error) {
	log.WithFields(logrus.Fields{
		"function": function,
		"error":    err.Error(),
	}).Warn("Invalid destination rectangle, using full frame")
}

// runVariant executes the selected transform. Frames are already validated;
// scratch and rgb are sized for the frame when the variant needs them.
func runVariant(v Variant, dst, src Frame, region image.Rectangle, scratch []byte, rgb *RGBPlanes, workers int) {
	switch v {
	case VariantNV12, VariantYUY2, VariantUYVY:
		detectEdges(dst, src, region, lumaKernel(sourcePlane(src)), workers)
	case VariantNV12Filtered, VariantYUY2Filtered, VariantUYVYFiltered:
		medianLuma(scratch, src)
		detectEdges(dst, src, region, lumaKernel(scratchPlane(scratch, src.Width)), workers)
	case VariantYUY2Color:
		// Format checked by the caller, so the conversion cannot fail.
		_ = YUY2ToRGB(src, rgb)
		detectEdges(dst, src, region, colorKernel(rgb), workers)
	}
}

// Engine owns the per-format state of the transform: the negotiated
// layout and size, the destination region, the scratch luma plane and the
// selected variant. It is not safe for concurrent use; the host serialises
// calls.
type Engine struct {
	params *Params
	log    *logrus.Logger

	format     PixelFormat
	width      int
	height     int
	imageSize  uint32
	rect       *image.Rectangle
	region     image.Rectangle
	scratch    []byte
	rgb        *RGBPlanes
	variant    Variant
	configured bool
}

// NewEngine creates an unconfigured engine. A nil p uses NewParams.
func NewEngine(p *Params) *Engine {
	if p == nil {
		p = NewParams()
	}
	log := p.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{params: p, log: log}
}

// Configure negotiates the layout and frame size. Scratch buffers are kept
// when nothing changed and reallocated otherwise. A failed scratch
// allocation degrades the engine to the unfiltered variant.
func (e *Engine) Configure(format PixelFormat, width, height int) error {
	if !format.Valid() {
		return fmt.Errorf("%s: %w", format, ErrInvalidFormat)
	}
	if width <= 0 || height <= 0 || width%2 != 0 {
		return fmt.Errorf("%s %dx%d: %w", format, width, height, ErrInvalidDimensions)
	}
	size, err := checkedImageSize(format, width, height)
	if err != nil {
		return err
	}
	if e.params.ColorEdges && format != FormatYUY2 {
		return fmt.Errorf("colour edges on %s: %w", format, ErrInvalidFormat)
	}

	if e.configured && e.format == format && e.width == width && e.height == height {
		e.log.WithFields(logrus.Fields{
			"function": "Engine.Configure",
			"format":   format.String(),
			"width":    width,
			"height":   height,
		}).Debug("Configuration unchanged, keeping scratch buffers")
		return nil
	}

	e.format, e.width, e.height, e.imageSize = format, width, height, size
	e.scratch, e.rgb = nil, nil
	e.region, err = resolveRegion(e.rect, width, height)
	if err != nil {
		logInvalidRect(e.log, "Engine.Configure", err)
	}

	scratchOK := false
	if e.params.ColorEdges {
		rgb, err := e.allocRGB(width, height)
		if err != nil {
			e.warnDegraded(err, "luma")
		} else {
			e.rgb = rgb
		}
	}
	if e.rgb == nil && e.params.MedianFilter {
		scratch, err := e.allocScratch(width * height)
		if err != nil {
			e.warnDegraded(err, "unfiltered")
		} else {
			e.scratch = scratch
			scratchOK = true
		}
	}

	e.variant, err = SelectVariant(format, scratchOK, e.rgb != nil)
	if err != nil {
		e.configured = false
		return err
	}
	e.configured = true

	e.log.WithFields(logrus.Fields{
		"function":   "Engine.Configure",
		"format":     format.String(),
		"width":      width,
		"height":     height,
		"image_size": size,
		"variant":    e.variant.String(),
		"backend":    MedianBackend,
	}).Info("Transform engine configured")
	return nil
}

func (e *Engine) warnDegraded(err error, fallback string) {
	e.log.WithFields(logrus.Fields{
		"function": "Engine.Configure",
		"error":    err.Error(),
		"fallback": fallback,
	}).Warn("Scratch allocation failed, degrading")
}

// allocScratch obtains n bytes of scratch or reports ErrAllocationFailure.
// An oversized make panics at runtime; that panic is turned into an error.
func (e *Engine) allocScratch(n int) (buf []byte, err error) {
	if e.params.MaxScratchBytes > 0 && n > e.params.MaxScratchBytes {
		return nil, fmt.Errorf("%d bytes exceeds limit %d: %w", n, e.params.MaxScratchBytes, ErrAllocationFailure)
	}
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%d bytes: %v: %w", n, r, ErrAllocationFailure)
		}
	}()
	return make([]byte, n), nil
}

func (e *Engine) allocRGB(width, height int) (*RGBPlanes, error) {
	buf, err := e.allocScratch(3 * width * height)
	if err != nil {
		return nil, err
	}
	n := width * height
	return &RGBPlanes{R: buf[:n:n], G: buf[n : 2*n : 2*n], B: buf[2*n:], Width: width, Height: height}, nil
}

// SetDestinationRect sets the region receiving edge detection. Nil selects
// the full frame. An invalid rectangle is accepted and treated as nil.
func (e *Engine) SetDestinationRect(r *image.Rectangle) {
	if r == nil {
		e.rect = nil
	} else {
		rc := *r
		e.rect = &rc
	}
	if !e.configured {
		return
	}
	var err error
	e.region, err = resolveRegion(e.rect, e.width, e.height)
	if err != nil {
		logInvalidRect(e.log, "Engine.SetDestinationRect", err)
	}
}

// Region returns the clipped destination region in use.
func (e *Engine) Region() image.Rectangle { return e.region }

// Variant returns the transform selected by the last Configure.
func (e *Engine) Variant() Variant { return e.variant }

// Format returns the configured layout.
func (e *Engine) Format() PixelFormat { return e.format }

// ImageSize returns the tightly packed frame size of the configuration.
func (e *Engine) ImageSize() uint32 { return e.imageSize }

// Reset drops the configuration and releases the scratch buffers.
func (e *Engine) Reset() {
	e.configured = false
	e.format, e.width, e.height, e.imageSize = FormatUnknown, 0, 0, 0
	e.scratch, e.rgb = nil, nil
	e.variant = VariantNone
}

// Transform processes one frame. Both frames must match the configured
// layout and size; strides may differ.
func (e *Engine) Transform(src, dst Frame) error {
	if !e.configured {
		return ErrNotConfigured
	}
	if err := validatePair(src, dst); err != nil {
		return err
	}
	if src.Format != e.format || src.Width != e.width || src.Height != e.height {
		return fmt.Errorf("frame %s %dx%d, engine %s %dx%d: %w",
			src.Format, src.Width, src.Height, e.format, e.width, e.height, ErrFrameMismatch)
	}

	e.log.WithFields(logrus.Fields{
		"function": "Engine.Transform",
		"variant":  e.variant.String(),
		"region":   e.region.String(),
	}).Debug("Transforming frame")

	runVariant(e.variant, dst, src, e.region, e.scratch, e.rgb, e.params.Workers)
	return nil
}
