package yuvsketch

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestFrame builds a frame whose luma comes from lumaAt and whose
// chroma bytes are all set to chroma.
func createTestFrame(t *testing.T, format PixelFormat, width, height int, lumaAt func(x, y int) byte, chroma byte) Frame {
	t.Helper()
	f, err := NewFrame(format, width, height)
	require.NoError(t, err)
	for i := range f.Data {
		f.Data[i] = chroma
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.SetLuma(x, y, lumaAt(x, y))
		}
	}
	return f
}

func uniformLuma(v byte) func(x, y int) byte {
	return func(x, y int) byte { return v }
}

func randomFrame(t *testing.T, format PixelFormat, width, height int, seed int64) Frame {
	t.Helper()
	f, err := NewFrame(format, width, height)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	rng.Read(f.Data)
	return f
}
