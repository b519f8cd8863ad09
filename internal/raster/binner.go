package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/urbanclimate-tools/urbanmdu/internal/pointcloud"
)

// ErrInvalidResolution is returned for a zero or negative cell size.
var ErrInvalidResolution = errors.New("invalid resolution")

func validateResolution(resolution float64) error {
	if !(resolution > 0) || math.IsInf(resolution, 1) || math.IsNaN(resolution) {
		return fmt.Errorf("%w: %v (must be > 0)", ErrInvalidResolution, resolution)
	}
	return nil
}

// Aggregation selects which elevation survives when several points land in
// one cell: the maximum for surface models, the minimum for terrain models.
type Aggregation int

const (
	AggregateMax Aggregation = iota
	AggregateMin
)

func (a Aggregation) String() string {
	if a == AggregateMin {
		return "min"
	}
	return "max"
}

// Bin rasterizes a point subset onto a fresh grid over geom. The caller is
// expected to have classified and clipped the points already; points outside
// the extent are dropped silently, binning never errors on stray points.
//
// Aggregation uses double precision throughout. Ties pick the last point
// encountered, so the result is deterministic for a stable input order.
func Bin(points []pointcloud.Point, geom Geometry, agg Aggregation) *Grid {
	grid := NewGrid(geom)
	for _, p := range points {
		col, row, ok := geom.CellIndex(p.X, p.Y)
		if !ok {
			continue
		}
		i := grid.idx(col, row)
		cur := grid.values[i]
		switch {
		case math.IsNaN(cur):
			grid.values[i] = p.Z
		case agg == AggregateMax && p.Z >= cur:
			grid.values[i] = p.Z
		case agg == AggregateMin && p.Z <= cur:
			grid.values[i] = p.Z
		}
		grid.counts[i]++
	}
	return grid
}

// BinClass is Bin over the subsequence of points in the given classes,
// preserving order. Convenience for the per-class band construction.
func BinClass(points []pointcloud.Point, geom Geometry, agg Aggregation, classes ...pointcloud.Class) *Grid {
	return Bin(pointcloud.Filter(points, classes...), geom, agg)
}
