// Package geocore holds the coordinate reference system, bounding box and
// output-location configuration shared by every data product.
package geocore

import (
	"errors"
	"fmt"
)

// ErrInvalidBoundingBox is returned when bounds are non-increasing.
var ErrInvalidBoundingBox = errors.New("invalid bounding box")

// Lambert93 is the projected CRS used by the French national geodata API.
const Lambert93 = 2154

// WGS84 is the geographic CRS used for API-facing bounding boxes.
const WGS84 = 4326

// WebMercator is the projected CRS of slippy-map tile services.
const WebMercator = 3857

// BoundingBox is an axis-aligned extent in a stated CRS. The CRS is carried
// by the surrounding GeoCore, not by the box itself.
type BoundingBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func NewBoundingBox(minX, minY, maxX, maxY float64) (BoundingBox, error) {
	bb := BoundingBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	if err := bb.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return bb, nil
}

// Validate fails fast on non-increasing bounds; bounds are never swapped.
func (b BoundingBox) Validate() error {
	if !(b.MinX < b.MaxX) || !(b.MinY < b.MaxY) {
		return fmt.Errorf("%w: (%v,%v,%v,%v) must satisfy min_x<max_x and min_y<max_y",
			ErrInvalidBoundingBox, b.MinX, b.MinY, b.MaxX, b.MaxY)
	}
	return nil
}

func (b BoundingBox) Width() float64  { return b.MaxX - b.MinX }
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether the point lies inside the box, max edges included.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// GeoCore is the shared configuration for one pipeline invocation: the
// working CRS, the request extent and where products should be written by
// export collaborators. Collections hold it by value; it is never shared
// mutably between concurrent invocations.
type GeoCore struct {
	EPSG       int
	BBox       *BoundingBox
	OutputPath string
}

// New returns a GeoCore for the given EPSG code.
func New(epsg int) GeoCore {
	return GeoCore{EPSG: epsg}
}

// Default returns a GeoCore in Lambert-93, the working CRS of the national
// geodata API's LiDAR and building layers.
func Default() GeoCore {
	return New(Lambert93)
}

// SetBBox validates and attaches the extent. The box is immutable once
// attached; calling SetBBox again replaces it wholesale.
func (g *GeoCore) SetBBox(minX, minY, maxX, maxY float64) error {
	bb, err := NewBoundingBox(minX, minY, maxX, maxY)
	if err != nil {
		return err
	}
	g.BBox = &bb
	return nil
}
