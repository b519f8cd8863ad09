// Package raster turns classified point sets into aligned elevation grids
// and combines them into the DSM/DTM/CHM multi-band product.
package raster

import (
	"fmt"
	"math"

	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
)

// Geometry fixes a grid's placement: origin at the bbox min corner, square
// cells of Resolution units, Width x Height cells. Row 0 sits at the min-y
// edge; the GDAL-style north-up transform is produced by Transform. Geometry
// is fixed at creation and never mutated.
type Geometry struct {
	MinX, MinY float64
	MaxX, MaxY float64
	Resolution float64
	Width      int
	Height     int
	EPSG       int
}

// NewGeometry derives grid dimensions from an extent and a resolution.
// Dimensions are ceil(extent/resolution) per axis: the fractional leftover
// is absorbed into the last row/column, which may therefore cover less than
// one full resolution unit. This boundary policy matches reference raster
// tooling and must not change.
func NewGeometry(bbox geocore.BoundingBox, resolution float64, epsg int) (Geometry, error) {
	if err := bbox.Validate(); err != nil {
		return Geometry{}, err
	}
	if err := validateResolution(resolution); err != nil {
		return Geometry{}, err
	}
	return Geometry{
		MinX:       bbox.MinX,
		MinY:       bbox.MinY,
		MaxX:       bbox.MaxX,
		MaxY:       bbox.MaxY,
		Resolution: resolution,
		Width:      int(math.Ceil(bbox.Width() / resolution)),
		Height:     int(math.Ceil(bbox.Height() / resolution)),
		EPSG:       epsg,
	}, nil
}

func (g Geometry) Equal(o Geometry) bool {
	return g.MinX == o.MinX && g.MinY == o.MinY && g.MaxX == o.MaxX && g.MaxY == o.MaxY &&
		g.Resolution == o.Resolution && g.Width == o.Width && g.Height == o.Height &&
		g.EPSG == o.EPSG
}

// CellIndex maps a coordinate to its (col, row) by floor division from the
// bbox min corner. Coordinates on the max edges are absorbed into the last
// row/column. ok is false for coordinates outside the extent.
func (g Geometry) CellIndex(x, y float64) (col, row int, ok bool) {
	if x < g.MinX || y < g.MinY || x > g.MaxX || y > g.MaxY {
		return 0, 0, false
	}
	col = int(math.Floor((x - g.MinX) / g.Resolution))
	row = int(math.Floor((y - g.MinY) / g.Resolution))
	if col >= g.Width {
		col = g.Width - 1
	}
	if row >= g.Height {
		row = g.Height - 1
	}
	return col, row, true
}

// Transform returns the GDAL-style geotransform for north-up exporters:
// [x_origin, pixel_width, 0, y_origin, 0, -pixel_height]. Row flipping to
// north-up order is the exporter's concern.
func (g Geometry) Transform() [6]float64 {
	return [6]float64{g.MinX, g.Resolution, 0, g.MaxY, 0, -g.Resolution}
}

// Grid is a 2D array of aggregated elevation cells over a fixed Geometry.
// Empty cells hold the no-data sentinel (NaN) and a zero count; zero is a
// valid elevation and is never used to mean "missing".
type Grid struct {
	Geometry
	values []float64
	counts []int
}

// NewGrid allocates an all-no-data grid over the geometry.
func NewGrid(geom Geometry) *Grid {
	n := geom.Width * geom.Height
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return &Grid{Geometry: geom, values: values, counts: make([]int, n)}
}

func (g *Grid) idx(col, row int) int { return row*g.Width + col }

// Value returns the aggregated elevation at (col, row); NaN means no-data.
func (g *Grid) Value(col, row int) float64 { return g.values[g.idx(col, row)] }

// Count returns the number of points that contributed to the cell.
func (g *Grid) Count(col, row int) int { return g.counts[g.idx(col, row)] }

// NoData reports whether the cell has no valid observation.
func (g *Grid) NoData(col, row int) bool { return math.IsNaN(g.values[g.idx(col, row)]) }

func (g *Grid) set(col, row int, v float64) { g.values[g.idx(col, row)] = v }

// PopulatedCells counts cells holding a valid observation.
func (g *Grid) PopulatedCells() int {
	n := 0
	for _, v := range g.values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// NoDataCells counts cells holding the no-data sentinel.
func (g *Grid) NoDataCells() int { return g.Width*g.Height - g.PopulatedCells() }

// Clone returns a deep copy sharing no state with the receiver.
func (g *Grid) Clone() *Grid {
	cp := &Grid{
		Geometry: g.Geometry,
		values:   make([]float64, len(g.values)),
		counts:   make([]int, len(g.counts)),
	}
	copy(cp.values, g.values)
	copy(cp.counts, g.counts)
	return cp
}

func (g *Grid) String() string {
	return fmt.Sprintf("grid %dx%d @%gu EPSG:%d (%d populated)",
		g.Width, g.Height, g.Resolution, g.EPSG, g.PopulatedCells())
}
