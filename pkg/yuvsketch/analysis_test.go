package yuvsketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEdges_Flat(t *testing.T) {
	f := createTestFrame(t, FormatYUY2, 16, 16, uniformLuma(229), 128)
	a := AnalyzeEdges(f, DefaultInkThreshold, true)
	require.NotNil(t, a)
	assert.Zero(t, a.Coverage)
	assert.Len(t, a.Zones, 9)
	for _, pos := range ZoneOrder {
		assert.InDelta(t, 229.0, a.Zones[pos].MeanLuma, 1e-9)
		assert.Zero(t, a.Zones[pos].InkFraction)
	}
}

func TestAnalyzeEdges_LeftBand(t *testing.T) {
	left := func(x, y int) byte {
		if x < 4 {
			return 0
		}
		return 229
	}
	f := createTestFrame(t, FormatNV12, 16, 16, left, 128)
	a := AnalyzeEdges(f, DefaultInkThreshold, true)
	require.NotNil(t, a)

	assert.InDelta(t, 0.25, a.Coverage, 1e-9)
	assert.Equal(t, "TL", a.Busiest)
	assert.Equal(t, "T", a.Quietest)
	for _, pos := range []ZonePosition{ZoneTopLeft, ZoneLeft, ZoneBottomLeft} {
		assert.InDelta(t, 1.0, a.Zones[pos].InkFraction, 1e-9)
	}
	assert.Equal(t, 16, a.Zones[ZoneTopLeft].Samples)
	assert.Equal(t, 64, a.Zones[ZoneCenter].Samples)
	assert.Equal(t, "Center", a.Zones[ZoneCenter].Label)

	// Bright ink reverses the reading.
	b := AnalyzeEdges(f, DefaultInkThreshold, false)
	assert.InDelta(t, 0.75, b.Coverage, 1e-9)
	assert.Zero(t, b.Zones[ZoneLeft].InkFraction)
}

func TestAnalyzeEdges_Empty(t *testing.T) {
	assert.Nil(t, AnalyzeEdges(Frame{Format: FormatYUY2}, DefaultInkThreshold, true))
}

func TestClassifyZone(t *testing.T) {
	assert.Equal(t, ZoneTopLeft, classifyZone(0, 0, 4, 12, 4, 12))
	assert.Equal(t, ZoneCenter, classifyZone(4, 4, 4, 12, 4, 12))
	assert.Equal(t, ZoneRight, classifyZone(12, 11, 4, 12, 4, 12))
	assert.Equal(t, ZoneBottom, classifyZone(11, 15, 4, 12, 4, 12))
}
