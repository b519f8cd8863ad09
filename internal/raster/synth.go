package raster

import (
	"errors"
	"math"
)

// ErrGeometryMismatch is returned when input bands do not share one grid
// geometry. Bands built through Product never hit this: they are binned over
// a single shared Geometry so alignment is structural, not coincidental.
var ErrGeometryMismatch = errors.New("band geometry mismatch")

// Product is the multi-band output of the LiDAR derivation: surface, terrain
// and canopy-height bands over one shared geometry.
type Product struct {
	DSM *Grid
	DTM *Grid
	CHM *Grid
}

// Geometry returns the shared grid geometry of all three bands.
func (p *Product) Geometry() Geometry { return p.DTM.Geometry }

// Synthesize combines per-class binned grids into the final product.
//
//	DTM = ground verbatim (no-data where ground was never observed)
//	DSM = per-cell max(ground, building), falling back to whichever is
//	      present; no-data only when both are missing
//	CHM = vegetation - DTM where both are defined; otherwise no-data,
//	      since canopy height is undefined without a ground reference
func Synthesize(ground, building, vegetation *Grid) (*Product, error) {
	if !ground.Geometry.Equal(building.Geometry) || !ground.Geometry.Equal(vegetation.Geometry) {
		return nil, ErrGeometryMismatch
	}

	dtm := ground.Clone()
	dsm := NewGrid(ground.Geometry)
	chm := NewGrid(ground.Geometry)

	for row := 0; row < ground.Height; row++ {
		for col := 0; col < ground.Width; col++ {
			g := ground.Value(col, row)
			b := building.Value(col, row)

			switch {
			case !math.IsNaN(g) && !math.IsNaN(b):
				dsm.set(col, row, math.Max(g, b))
			case !math.IsNaN(g):
				dsm.set(col, row, g)
			case !math.IsNaN(b):
				dsm.set(col, row, b)
			}

			v := vegetation.Value(col, row)
			if !math.IsNaN(v) && !math.IsNaN(g) {
				h := v - g
				if h < 0 {
					h = 0
				}
				chm.set(col, row, h)
			}
		}
	}

	return &Product{DSM: dsm, DTM: dtm, CHM: chm}, nil
}
