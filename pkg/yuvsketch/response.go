package yuvsketch

// responseBias lifts every gradient energy before inversion, so a flat
// region maps to 255-26 = 229 rather than pure white.
const responseBias = 26

// IntensityResponse maps a gradient energy to an output luma sample:
// 255 - min(m+26, 255).
func IntensityResponse(m uint32) byte {
	if m >= 255-responseBias {
		return 0
	}
	return byte(255 - (m + responseBias))
}

// clampByte clamps v to [0, 255].
func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func absDiff(a, b byte) uint32 {
	if a > b {
		return uint32(a - b)
	}
	return uint32(b - a)
}

// robertsCross returns |p1-p4| + |p2-p3| for the 2x2 neighbourhood
//
//	p1 p2
//	p3 p4
func robertsCross(p1, p2, p3, p4 byte) uint32 {
	return absDiff(p1, p4) + absDiff(p2, p3)
}

// lumaResponse is the squared Roberts response used by the luma variants.
func lumaResponse(p1, p2, p3, p4 byte) byte {
	m := robertsCross(p1, p2, p3, p4)
	return IntensityResponse(m * m)
}
