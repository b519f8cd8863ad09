package raster

import (
	"math"
	"testing"

	"github.com/urbanclimate-tools/urbanmdu/internal/pointcloud"
)

func TestFillGaps_HoleTakesNeighborhoodMinimum(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 15, 15, 5) // 3x3
	grid := Bin([]pointcloud.Point{
		{X: 2, Y: 2, Z: 10}, {X: 7, Y: 2, Z: 12}, {X: 12, Y: 2, Z: 14},
		{X: 2, Y: 7, Z: 11} /* hole at (1,1) */, {X: 12, Y: 7, Z: 13},
		{X: 2, Y: 12, Z: 9}, {X: 7, Y: 12, Z: 15}, {X: 12, Y: 12, Z: 16},
	}, geom, AggregateMax)

	filled := FillGaps(grid)
	if got := filled.Value(1, 1); got != 9 {
		t.Fatalf("filled hole=%v want 9 (neighborhood minimum)", got)
	}
	if got := grid.Value(1, 1); !math.IsNaN(got) {
		t.Fatalf("input grid mutated: %v", got)
	}
}

func TestFillGaps_IsolatedCellsStayNoData(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 25, 25, 5) // 5x5
	grid := Bin([]pointcloud.Point{{X: 2, Y: 2, Z: 10}}, geom, AggregateMax)

	filled := FillGaps(grid)
	if !filled.NoData(3, 3) || !filled.NoData(4, 4) {
		t.Fatal("cells with no observed neighbor must stay no-data")
	}
	// Direct neighbors of the single observation are filled.
	if got := filled.Value(1, 1); got != 10 {
		t.Fatalf("neighbor fill=%v want 10", got)
	}
}

func TestFillGaps_ReadsOnlyInput_NoCascade(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 20, 5, 5) // 4x1 strip
	grid := Bin([]pointcloud.Point{{X: 2, Y: 2, Z: 7}}, geom, AggregateMax)

	filled := FillGaps(grid)
	if got := filled.Value(1, 0); got != 7 {
		t.Fatalf("adjacent cell=%v want 7", got)
	}
	// (2,0) has no observed neighbor in the INPUT grid; a cascading fill
	// would propagate the freshly filled (1,0) into it.
	if !filled.NoData(2, 0) {
		t.Fatal("fill must not cascade through freshly filled cells")
	}
}

func TestFillGaps_FullGridUnchanged(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 10, 10, 5)
	grid := Bin([]pointcloud.Point{
		{X: 1, Y: 1, Z: 1}, {X: 6, Y: 1, Z: 2},
		{X: 1, Y: 6, Z: 3}, {X: 6, Y: 6, Z: 4},
	}, geom, AggregateMax)

	filled := FillGaps(grid)
	for row := 0; row < geom.Height; row++ {
		for col := 0; col < geom.Width; col++ {
			if filled.Value(col, row) != grid.Value(col, row) {
				t.Fatalf("cell (%d,%d) changed", col, row)
			}
		}
	}
}
