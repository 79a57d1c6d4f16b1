package yuvsketch

import "math"

const zoneEdgeFraction = 0.25

// DefaultInkThreshold separates edge samples from background in the output
// of the luma variants, whose flat response is 229.
const DefaultInkThreshold = 128

// ZonePosition identifies a zone in the 3x3 frame grid.
type ZonePosition int

const (
	ZoneTopLeft ZonePosition = iota
	ZoneTop
	ZoneTopRight
	ZoneLeft
	ZoneCenter
	ZoneRight
	ZoneBottomLeft
	ZoneBottom
	ZoneBottomRight
)

// ZoneOrder lists the zones row by row.
var ZoneOrder = []ZonePosition{
	ZoneTopLeft, ZoneTop, ZoneTopRight,
	ZoneLeft, ZoneCenter, ZoneRight,
	ZoneBottomLeft, ZoneBottom, ZoneBottomRight,
}

var zoneLabels = map[ZonePosition]string{
	ZoneTopLeft:     "TL",
	ZoneTop:         "T",
	ZoneTopRight:    "TR",
	ZoneLeft:        "L",
	ZoneCenter:      "Center",
	ZoneRight:       "R",
	ZoneBottomLeft:  "BL",
	ZoneBottom:      "B",
	ZoneBottomRight: "BR",
}

// ZoneData holds per-zone statistics of a transformed frame.
type ZoneData struct {
	Label       string
	Samples     int
	MeanLuma    float64
	InkFraction float64
}

// EdgeAnalysis summarises where a transformed frame carries edges.
type EdgeAnalysis struct {
	Zones    map[ZonePosition]ZoneData
	Coverage float64
	Busiest  string
	Quietest string
}

// AnalyzeEdges splits the frame into a 3x3 grid (outer zones a quarter of
// each dimension) and measures the fraction of ink samples per zone. Ink is
// luma below threshold when darkInk is set (luma variants draw dark lines
// on a light ground), above it otherwise (the colour variant).
func AnalyzeEdges(f Frame, threshold byte, darkInk bool) *EdgeAnalysis {
	if f.Width == 0 || f.Height == 0 {
		return nil
	}
	xLo := float64(f.Width) * zoneEdgeFraction
	xHi := float64(f.Width) * (1.0 - zoneEdgeFraction)
	yLo := float64(f.Height) * zoneEdgeFraction
	yHi := float64(f.Height) * (1.0 - zoneEdgeFraction)

	var sums, inks, counts [9]int
	totalInk := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			pos := classifyZone(float64(x), float64(y), xLo, xHi, yLo, yHi)
			v := f.Luma(x, y)
			sums[pos] += int(v)
			counts[pos]++
			if (darkInk && v < threshold) || (!darkInk && v > threshold) {
				inks[pos]++
				totalInk++
			}
		}
	}

	result := &EdgeAnalysis{
		Zones:    make(map[ZonePosition]ZoneData, len(ZoneOrder)),
		Coverage: float64(totalInk) / float64(f.Width*f.Height),
	}
	busiest, quietest := -1.0, math.MaxFloat64
	for _, pos := range ZoneOrder {
		zd := ZoneData{Label: zoneLabels[pos], Samples: counts[pos]}
		if counts[pos] > 0 {
			zd.MeanLuma = float64(sums[pos]) / float64(counts[pos])
			zd.InkFraction = float64(inks[pos]) / float64(counts[pos])
			if zd.InkFraction > busiest {
				busiest = zd.InkFraction
				result.Busiest = zd.Label
			}
			if zd.InkFraction < quietest {
				quietest = zd.InkFraction
				result.Quietest = zd.Label
			}
		}
		result.Zones[pos] = zd
	}
	return result
}

func classifyZone(x, y, xLo, xHi, yLo, yHi float64) ZonePosition {
	var col, row int
	if x < xLo {
		col = 0
	} else if x < xHi {
		col = 1
	} else {
		col = 2
	}
	if y < yLo {
		row = 0
	} else if y < yHi {
		row = 1
	} else {
		row = 2
	}

	grid := [3][3]ZonePosition{
		{ZoneTopLeft, ZoneTop, ZoneTopRight},
		{ZoneLeft, ZoneCenter, ZoneRight},
		{ZoneBottomLeft, ZoneBottom, ZoneBottomRight},
	}
	return grid[row][col]
}
