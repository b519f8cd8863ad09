package raster

import "math"

// FillGaps returns a copy of the grid with each no-data cell replaced by the
// minimum observed value among its 3x3 neighborhood, when any neighbor holds
// an observation. Cells with no observed neighbor stay no-data; values are
// never fabricated. Filling reads only the input grid, so the result does
// not depend on traversal order.
//
// This is an optional smoothing step for terrain bands; Synthesize never
// applies it implicitly.
func FillGaps(g *Grid) *Grid {
	out := g.Clone()
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if !g.NoData(col, row) {
				continue
			}
			min := math.Inf(1)
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					r, c := row+dr, col+dc
					if r < 0 || r >= g.Height || c < 0 || c >= g.Width {
						continue
					}
					if v := g.Value(c, r); !math.IsNaN(v) && v < min {
						min = v
					}
				}
			}
			if !math.IsInf(min, 1) {
				out.set(col, row, min)
			}
		}
	}
	return out
}
