package raster

import (
	"errors"
	"math"
	"testing"

	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
	"github.com/urbanclimate-tools/urbanmdu/internal/pointcloud"
)

func mustGeometry(t *testing.T, minX, minY, maxX, maxY, res float64) Geometry {
	t.Helper()
	bb, err := geocore.NewBoundingBox(minX, minY, maxX, maxY)
	if err != nil {
		t.Fatalf("bbox: %v", err)
	}
	geom, err := NewGeometry(bb, res, geocore.Lambert93)
	if err != nil {
		t.Fatalf("geometry: %v", err)
	}
	return geom
}

func TestNewGeometry_DimensionsUseCeil(t *testing.T) {
	cases := []struct {
		maxX, maxY, res float64
		w, h            int
	}{
		{10, 10, 5, 2, 2},
		{10, 10, 3, 4, 4},   // leftover absorbed into last row/col
		{10, 10, 1, 10, 10},
		{10.5, 10, 1, 11, 10},
	}
	for _, c := range cases {
		geom := mustGeometry(t, 0, 0, c.maxX, c.maxY, c.res)
		if geom.Width != c.w || geom.Height != c.h {
			t.Fatalf("extent (%v,%v) res %v: dims %dx%d want %dx%d",
				c.maxX, c.maxY, c.res, geom.Width, geom.Height, c.w, c.h)
		}
	}
}

func TestNewGeometry_InvalidResolution_Rejected(t *testing.T) {
	bb, _ := geocore.NewBoundingBox(0, 0, 10, 10)
	for _, res := range []float64{0, -1, math.NaN()} {
		if _, err := NewGeometry(bb, res, geocore.Lambert93); !errors.Is(err, ErrInvalidResolution) {
			t.Fatalf("res=%v: err=%v want ErrInvalidResolution", res, err)
		}
	}
}

func TestNewGeometry_InvalidBBox_Rejected(t *testing.T) {
	bb := geocore.BoundingBox{MinX: 10, MinY: 0, MaxX: 0, MaxY: 10}
	if _, err := NewGeometry(bb, 1, geocore.Lambert93); !errors.Is(err, geocore.ErrInvalidBoundingBox) {
		t.Fatalf("err=%v want ErrInvalidBoundingBox", err)
	}
}

func TestBin_SinglePointScenario(t *testing.T) {
	// bbox (0,0,10,10), resolution 5 -> 2x2 grid; a single ground point at
	// (1,1,z=50) fills cell (0,0), everything else stays no-data.
	geom := mustGeometry(t, 0, 0, 10, 10, 5)
	grid := Bin([]pointcloud.Point{{X: 1, Y: 1, Z: 50, Class: pointcloud.ClassGround}}, geom, AggregateMax)

	if got := grid.Value(0, 0); got != 50 {
		t.Fatalf("cell (0,0)=%v want 50", got)
	}
	for _, cell := range [][2]int{{1, 0}, {0, 1}, {1, 1}} {
		if !grid.NoData(cell[0], cell[1]) {
			t.Fatalf("cell %v should be no-data", cell)
		}
	}
	if grid.PopulatedCells() != 1 || grid.NoDataCells() != 3 {
		t.Fatalf("populated=%d nodata=%d want 1/3", grid.PopulatedCells(), grid.NoDataCells())
	}
}

func TestBin_PopulatedPlusNoDataEqualsCellCount(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 100, 100, 7)
	points := make([]pointcloud.Point, 0, 500)
	for i := 0; i < 500; i++ {
		points = append(points, pointcloud.Point{
			X: float64(i%97) + 0.5, Y: float64(i%89) + 0.5, Z: float64(i),
			Class: pointcloud.ClassGround,
		})
	}
	grid := Bin(points, geom, AggregateMax)
	if grid.PopulatedCells()+grid.NoDataCells() != geom.Width*geom.Height {
		t.Fatalf("populated+nodata=%d want %d",
			grid.PopulatedCells()+grid.NoDataCells(), geom.Width*geom.Height)
	}
}

func TestBin_MaxAggregation_TiesTakeLastPoint(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 10, 10, 10)
	grid := Bin([]pointcloud.Point{
		{X: 1, Y: 1, Z: 5},
		{X: 2, Y: 2, Z: 9},
		{X: 3, Y: 3, Z: 9}, // tie: last wins, value unchanged numerically
		{X: 4, Y: 4, Z: 7},
	}, geom, AggregateMax)
	if got := grid.Value(0, 0); got != 9 {
		t.Fatalf("max=%v want 9", got)
	}
	if got := grid.Count(0, 0); got != 4 {
		t.Fatalf("count=%d want 4", got)
	}
}

func TestBin_MinAggregation(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 10, 10, 10)
	grid := Bin([]pointcloud.Point{
		{X: 1, Y: 1, Z: 5},
		{X: 2, Y: 2, Z: 3},
		{X: 3, Y: 3, Z: 8},
	}, geom, AggregateMin)
	if got := grid.Value(0, 0); got != 3 {
		t.Fatalf("min=%v want 3", got)
	}
}

func TestBin_ZeroElevationIsNotNoData(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 10, 10, 5)
	grid := Bin([]pointcloud.Point{{X: 1, Y: 1, Z: 0}}, geom, AggregateMax)
	if grid.NoData(0, 0) {
		t.Fatal("cell with z=0 observation must not be no-data")
	}
	if grid.Value(0, 0) != 0 {
		t.Fatalf("value=%v want 0", grid.Value(0, 0))
	}
}

func TestBin_PointsOutsideExtent_DroppedSilently(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 10, 10, 5)
	grid := Bin([]pointcloud.Point{
		{X: -1, Y: 5, Z: 10},
		{X: 5, Y: 11, Z: 10},
		{X: 100, Y: 100, Z: 10},
	}, geom, AggregateMax)
	if grid.PopulatedCells() != 0 {
		t.Fatalf("populated=%d want 0", grid.PopulatedCells())
	}
}

func TestBin_MaxEdgeAbsorbedIntoLastCell(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 10, 10, 5)
	grid := Bin([]pointcloud.Point{{X: 10, Y: 10, Z: 42}}, geom, AggregateMax)
	if got := grid.Value(1, 1); got != 42 {
		t.Fatalf("max-edge point not absorbed into last cell: %v", got)
	}
}

func TestBin_EmptyInput_AllNoData(t *testing.T) {
	geom := mustGeometry(t, 0, 0, 10, 10, 5)
	grid := Bin(nil, geom, AggregateMax)
	if grid.NoDataCells() != 4 {
		t.Fatalf("nodata=%d want 4", grid.NoDataCells())
	}
}

func TestGeometry_Transform_NorthUp(t *testing.T) {
	geom := mustGeometry(t, 100, 200, 110, 220, 2)
	tr := geom.Transform()
	want := [6]float64{100, 2, 0, 220, 0, -2}
	if tr != want {
		t.Fatalf("transform=%v want %v", tr, want)
	}
}
