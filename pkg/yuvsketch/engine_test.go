package yuvsketch

import (
	"bytes"
	"image"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietParams() (*Params, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	p := NewParams()
	p.Logger = logger
	return p, hook
}

func TestNewParams(t *testing.T) {
	p := NewParams()
	assert.True(t, p.MedianFilter)
	assert.False(t, p.ColorEdges)
	assert.Equal(t, 1, p.Workers)
	assert.Equal(t, 256<<20, p.MaxScratchBytes)
	assert.Nil(t, p.Logger)
}

func TestSelectVariant(t *testing.T) {
	tests := []struct {
		format   PixelFormat
		scratch  bool
		color    bool
		expected Variant
		err      error
	}{
		{FormatNV12, false, false, VariantNV12, nil},
		{FormatNV12, true, false, VariantNV12Filtered, nil},
		{FormatYUY2, false, false, VariantYUY2, nil},
		{FormatYUY2, true, false, VariantYUY2Filtered, nil},
		{FormatUYVY, false, false, VariantUYVY, nil},
		{FormatUYVY, true, false, VariantUYVYFiltered, nil},
		{FormatYUY2, true, true, VariantYUY2Color, nil},
		{FormatNV12, false, true, VariantNone, ErrInvalidFormat},
		{FormatUnknown, true, false, VariantNone, ErrInvalidFormat},
	}

	for _, tt := range tests {
		v, err := SelectVariant(tt.format, tt.scratch, tt.color)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err)
		} else {
			assert.NoError(t, err)
		}
		assert.Equal(t, tt.expected, v)
		if tt.err == nil {
			assert.Equal(t, tt.format, v.Format())
			assert.Equal(t, tt.scratch && !tt.color, v.Filtered())
			assert.Equal(t, tt.color, v.Color())
		}
	}
}

func TestEngineConfigure(t *testing.T) {
	p, hook := quietParams()
	e := NewEngine(p)

	require.NoError(t, e.Configure(FormatYUY2, 640, 480))
	assert.Equal(t, VariantYUY2Filtered, e.Variant())
	assert.Equal(t, FormatYUY2, e.Format())
	assert.Equal(t, uint32(640*480*2), e.ImageSize())
	assert.Equal(t, image.Rect(0, 0, 640, 480), e.Region())
	require.Len(t, e.scratch, 640*480)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "YUY2+median", hook.LastEntry().Data["variant"])

	first := &e.scratch[0]
	require.NoError(t, e.Configure(FormatYUY2, 640, 480))
	assert.Same(t, first, &e.scratch[0], "unchanged configuration keeps the scratch plane")
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)

	require.NoError(t, e.Configure(FormatUYVY, 320, 240))
	assert.Equal(t, VariantUYVYFiltered, e.Variant())
	assert.Equal(t, uint32(320*240*2), e.ImageSize())
	require.Len(t, e.scratch, 320*240)

	require.NoError(t, e.Configure(FormatNV12, 320, 240))
	assert.Equal(t, VariantNV12Filtered, e.Variant())
	assert.Equal(t, uint32(320*360), e.ImageSize())
}

func TestEngineConfigure_Errors(t *testing.T) {
	p, _ := quietParams()
	e := NewEngine(p)

	assert.ErrorIs(t, e.Configure(FormatUnknown, 8, 8), ErrInvalidFormat)
	assert.ErrorIs(t, e.Configure(FormatYUY2, 7, 8), ErrInvalidDimensions)
	assert.ErrorIs(t, e.Configure(FormatYUY2, 8, 0), ErrInvalidDimensions)
	assert.ErrorIs(t, e.Configure(FormatYUY2, 65536, 65536), ErrDimensionOverflow)
	assert.Nil(t, e.scratch, "overflow is detected before allocating")

	// Widths past the 32-bit range must not wrap to a small frame size.
	for _, format := range SupportedFormats {
		assert.ErrorIs(t, e.Configure(format, 1<<32+2, 2), ErrDimensionOverflow, format.String())
		assert.ErrorIs(t, e.Configure(format, 2, 1<<32+2), ErrDimensionOverflow, format.String())
	}
	assert.Zero(t, e.ImageSize())
	assert.Equal(t, VariantNone, e.Variant())

	color, _ := quietParams()
	color.ColorEdges = true
	ce := NewEngine(color)
	assert.ErrorIs(t, ce.Configure(FormatNV12, 8, 8), ErrInvalidFormat)
	assert.ErrorIs(t, ce.Configure(FormatUYVY, 8, 8), ErrInvalidFormat)
	require.NoError(t, ce.Configure(FormatYUY2, 8, 8))
	assert.Equal(t, VariantYUY2Color, ce.Variant())
	assert.Nil(t, ce.scratch)
}

func TestEngineConfigure_AllocationFailureDegrades(t *testing.T) {
	p, hook := quietParams()
	p.MaxScratchBytes = 100
	e := NewEngine(p)

	require.NoError(t, e.Configure(FormatYUY2, 16, 16))
	assert.Equal(t, VariantYUY2, e.Variant())
	assert.Nil(t, e.scratch)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, "unfiltered", entry.Data["fallback"])
		}
	}
	assert.True(t, warned)

	p.MaxScratchBytes = 16 * 16
	require.NoError(t, e.Configure(FormatNV12, 16, 16))
	assert.Equal(t, VariantNV12Filtered, e.Variant())
}

func TestEngineConfigure_ColorAllocationFailureDegradesToLuma(t *testing.T) {
	p, _ := quietParams()
	p.ColorEdges = true
	p.MaxScratchBytes = 16 * 16
	e := NewEngine(p)

	// 3 planes do not fit, the single luma scratch plane does.
	require.NoError(t, e.Configure(FormatYUY2, 16, 16))
	assert.Equal(t, VariantYUY2Filtered, e.Variant())
	assert.Nil(t, e.rgb)

	p.MedianFilter = false
	e.Reset()
	require.NoError(t, e.Configure(FormatYUY2, 16, 16))
	assert.Equal(t, VariantYUY2, e.Variant())
}

func TestEngineAllocScratch(t *testing.T) {
	e := NewEngine(&Params{MaxScratchBytes: 0})
	buf, err := e.allocScratch(64)
	require.NoError(t, err)
	assert.Len(t, buf, 64)

	_, err = e.allocScratch(-1)
	assert.ErrorIs(t, err, ErrAllocationFailure)
}

func TestEngineTransform_NotConfigured(t *testing.T) {
	p, _ := quietParams()
	e := NewEngine(p)
	f, err := NewFrame(FormatYUY2, 4, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, e.Transform(f, f), ErrNotConfigured)

	require.NoError(t, e.Configure(FormatYUY2, 4, 4))
	e.Reset()
	assert.Equal(t, VariantNone, e.Variant())
	assert.ErrorIs(t, e.Transform(f, f), ErrNotConfigured)
}

func TestEngineTransform_Mismatch(t *testing.T) {
	p, _ := quietParams()
	e := NewEngine(p)
	require.NoError(t, e.Configure(FormatYUY2, 8, 4))

	small, err := NewFrame(FormatYUY2, 4, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, e.Transform(small, small), ErrFrameMismatch)

	uyvy, err := NewFrame(FormatUYVY, 8, 4)
	require.NoError(t, err)
	yuy2, err := NewFrame(FormatYUY2, 8, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, e.Transform(uyvy, yuy2), ErrFrameMismatch)
	assert.ErrorIs(t, e.Transform(uyvy, uyvy), ErrFrameMismatch)
}

func TestEngineTransform_ShortBufferLeavesDestination(t *testing.T) {
	p, _ := quietParams()
	e := NewEngine(p)
	require.NoError(t, e.Configure(FormatNV12, 8, 4))

	src := randomFrame(t, FormatNV12, 8, 4, 4)
	dst := Frame{Format: FormatNV12, Width: 8, Height: 4, Stride: 8, Data: bytes.Repeat([]byte{0xCD}, 8*6-1)}

	assert.ErrorIs(t, e.Transform(src, dst), ErrBufferTooSmall)
	assert.Equal(t, bytes.Repeat([]byte{0xCD}, 8*6-1), dst.Data)

	short := src
	short.Data = src.Data[:10]
	good, err := NewFrame(FormatNV12, 8, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, e.Transform(short, good), ErrBufferTooSmall)
	assert.Equal(t, make([]byte, 8*6), good.Data)
}

func TestEngineTransform_MatchesStateless(t *testing.T) {
	for _, format := range SupportedFormats {
		for _, median := range []bool{false, true} {
			p, _ := quietParams()
			p.MedianFilter = median
			e := NewEngine(p)
			require.NoError(t, e.Configure(format, 12, 10))

			src := randomFrame(t, format, 12, 10, int64(format)+13)
			got, err := NewFrame(format, 12, 10)
			require.NoError(t, err)
			want, err := NewFrame(format, 12, 10)
			require.NoError(t, err)

			var scratch []byte
			if median {
				scratch = make([]byte, 12*10)
			}
			require.NoError(t, e.Transform(src, got))
			require.NoError(t, Transform(format, src.Data, src.Stride, want.Data, want.Stride, 12, 10, nil, scratch))
			assert.Equal(t, want.Data, got.Data, "%s median=%v", format, median)
		}
	}
}

func TestEngineTransform_WorkersAgree(t *testing.T) {
	for _, format := range SupportedFormats {
		t.Run(format.String(), func(t *testing.T) {
			src := randomFrame(t, format, 64, 40, 99)
			var outputs [][]byte
			for _, workers := range []int{1, 3, 8} {
				p, _ := quietParams()
				p.Workers = workers
				e := NewEngine(p)
				require.NoError(t, e.Configure(format, 64, 40))
				dst, err := NewFrame(format, 64, 40)
				require.NoError(t, err)
				require.NoError(t, e.Transform(src, dst))
				outputs = append(outputs, dst.Data)
			}
			assert.Equal(t, outputs[0], outputs[1])
			assert.Equal(t, outputs[0], outputs[2])
		})
	}
}

func TestEngineSetDestinationRect(t *testing.T) {
	p, hook := quietParams()
	e := NewEngine(p)

	r := image.Rect(2, 2, 6, 5)
	e.SetDestinationRect(&r)
	require.NoError(t, e.Configure(FormatYUY2, 8, 8))
	assert.Equal(t, r, e.Region())

	r.Max.X = 100
	assert.Equal(t, image.Rect(2, 2, 6, 5), e.Region(), "engine keeps its own copy")
	e.SetDestinationRect(&r)
	assert.Equal(t, image.Rect(2, 2, 8, 5), e.Region())

	hook.Reset()
	bad := image.Rectangle{Min: image.Point{X: 5, Y: 5}, Max: image.Point{X: 1, Y: 1}}
	e.SetDestinationRect(&bad)
	assert.Equal(t, image.Rect(0, 0, 8, 8), e.Region())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	e.SetDestinationRect(nil)
	assert.Equal(t, image.Rect(0, 0, 8, 8), e.Region())

	src := createTestFrame(t, FormatYUY2, 8, 8, uniformLuma(50), 200)
	dst, err := NewFrame(FormatYUY2, 8, 8)
	require.NoError(t, err)
	e.SetDestinationRect(&image.Rectangle{Min: image.Point{X: 2, Y: 2}, Max: image.Point{X: 6, Y: 5}})
	require.NoError(t, e.Transform(src, dst))
	assert.Equal(t, src.Row(2), dst.Row(2))
	assert.Equal(t, byte(229), dst.Luma(3, 3))
	assert.Equal(t, byte(50), dst.Luma(2, 3))
}

func TestNewEngine_DefaultLogger(t *testing.T) {
	e := NewEngine(nil)
	assert.Same(t, logrus.StandardLogger(), e.log)
	assert.True(t, e.params.MedianFilter)

	out := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(out)
	require.NoError(t, e.Configure(FormatUYVY, 4, 4))
}
