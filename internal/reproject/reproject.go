// Package reproject converts coordinates between the supported reference
// systems: WGS84 geographic (EPSG:4326), Web Mercator (EPSG:3857) and
// Lambert-93 (EPSG:2154), the legal projection for metropolitan France.
package reproject

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
)

// maxProjectedLat bounds the geographic domain of the projected systems. Both
// Mercator and the Lambert conic degenerate approaching the poles; inputs
// beyond this latitude are rejected instead of projected to junk metres.
const maxProjectedLat = 89.999

// Error wraps a reprojection failure with the attempted EPSG pair.
type Error struct {
	FromEPSG int
	ToEPSG   int
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("reproject %d -> %d: %s", e.FromEPSG, e.ToEPSG, e.Reason)
}

func unsupported(from, to int) *Error {
	return &Error{FromEPSG: from, ToEPSG: to, Reason: "unsupported EPSG pair"}
}

func outOfDomain(from, to int, p orb.Point) *Error {
	return &Error{FromEPSG: from, ToEPSG: to,
		Reason: fmt.Sprintf("coordinate (%v,%v) out of projection domain", p[0], p[1])}
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}

// Supported reports whether the EPSG code has a registered projection.
func Supported(epsg int) bool {
	switch epsg {
	case geocore.WGS84, geocore.WebMercator, geocore.Lambert93:
		return true
	}
	return false
}

// toWGS84 and fromWGS84 route every conversion through geographic
// coordinates, so N systems need N projections instead of N^2 pairs. Both
// legs reject coordinates outside the projection's domain rather than let
// the math run off to meaningless values.
func toWGS84(p orb.Point, epsg int) (orb.Point, error) {
	switch epsg {
	case geocore.WGS84:
		return p, nil
	case geocore.WebMercator, geocore.Lambert93:
		if !finite(p) {
			return orb.Point{}, outOfDomain(epsg, geocore.WGS84, p)
		}
		var q orb.Point
		if epsg == geocore.WebMercator {
			q = project.Point(p, project.Mercator.ToWGS84)
		} else {
			q = lambert93Inverse(p)
		}
		if !finite(q) || math.Abs(q[0]) > 180 || math.Abs(q[1]) > 90 {
			return orb.Point{}, outOfDomain(epsg, geocore.WGS84, p)
		}
		return q, nil
	}
	return orb.Point{}, unsupported(epsg, geocore.WGS84)
}

func fromWGS84(p orb.Point, epsg int) (orb.Point, error) {
	switch epsg {
	case geocore.WGS84:
		return p, nil
	case geocore.WebMercator, geocore.Lambert93:
		if !finite(p) || math.Abs(p[0]) > 180 || math.Abs(p[1]) >= maxProjectedLat {
			return orb.Point{}, outOfDomain(geocore.WGS84, epsg, p)
		}
		var q orb.Point
		if epsg == geocore.WebMercator {
			q = project.Point(p, project.WGS84.ToMercator)
		} else {
			q = lambert93Forward(p)
		}
		if !finite(q) {
			return orb.Point{}, outOfDomain(geocore.WGS84, epsg, p)
		}
		return q, nil
	}
	return orb.Point{}, unsupported(geocore.WGS84, epsg)
}

// Point converts a single coordinate between two EPSG systems. Points are
// (x, y) in the source system's axis order: (lon, lat) for 4326, metres
// otherwise.
func Point(p orb.Point, fromEPSG, toEPSG int) (orb.Point, error) {
	if fromEPSG == toEPSG {
		return p, nil
	}
	if !Supported(fromEPSG) || !Supported(toEPSG) {
		return orb.Point{}, unsupported(fromEPSG, toEPSG)
	}
	geo, err := toWGS84(p, fromEPSG)
	if err != nil {
		return orb.Point{}, err
	}
	return fromWGS84(geo, toEPSG)
}

// Points converts a slice in place order, returning a new slice of the same
// length with vertex order preserved.
func Points(pts []orb.Point, fromEPSG, toEPSG int) ([]orb.Point, error) {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		q, err := Point(p, fromEPSG, toEPSG)
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}

// Polygon converts every ring vertex, preserving ring structure and order.
func Polygon(poly orb.Polygon, fromEPSG, toEPSG int) (orb.Polygon, error) {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		r := make(orb.Ring, len(ring))
		for j, p := range ring {
			q, err := Point(p, fromEPSG, toEPSG)
			if err != nil {
				return nil, err
			}
			r[j] = q
		}
		out[i] = r
	}
	return out, nil
}

// BoundingBox converts an axis-aligned extent by reprojecting its corners and
// re-normalizing. The result is the bounding box of the reprojected corners,
// which is exact for the small urban extents this module works with.
func BoundingBox(bb geocore.BoundingBox, fromEPSG, toEPSG int) (geocore.BoundingBox, error) {
	min, err := Point(orb.Point{bb.MinX, bb.MinY}, fromEPSG, toEPSG)
	if err != nil {
		return geocore.BoundingBox{}, err
	}
	max, err := Point(orb.Point{bb.MaxX, bb.MaxY}, fromEPSG, toEPSG)
	if err != nil {
		return geocore.BoundingBox{}, err
	}
	out, err := geocore.NewBoundingBox(
		minf(min[0], max[0]), minf(min[1], max[1]),
		maxf(min[0], max[0]), maxf(min[1], max[1]))
	if err != nil {
		return geocore.BoundingBox{}, &Error{FromEPSG: fromEPSG, ToEPSG: toEPSG, Reason: err.Error()}
	}
	return out, nil
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
