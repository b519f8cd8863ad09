// Package building resolves building heights from heterogeneous source
// attributes: measured height, storey count, alternate height fields, with an
// area-weighted district mean as the fallback of last resort.
package building

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// HeightSource records which rule of the resolution chain produced a
// building's resolved height.
type HeightSource string

const (
	SourceMeasured   HeightSource = "measured"
	SourceStoreys    HeightSource = "storeys"
	SourceAltHeight  HeightSource = "alt_height"
	SourceDistrict   HeightSource = "district"
	SourceUnresolved HeightSource = "unresolved"
)

// Feature is one building footprint with the raw attributes the resolver
// consumes. Height, Storeys and AltHeight are nil when the source record
// carried no value; a present but non-positive value is kept as-is and left
// for the resolver to skip.
type Feature struct {
	ID        string
	Footprint orb.Polygon
	District  string

	Height    *float64 // measured height, metres
	Storeys   *float64 // storey count
	AltHeight *float64 // secondary height estimate, metres

	// Resolved output, nil until a Resolver pass succeeds for the feature.
	ResolvedHeight *float64
	Source         HeightSource

	area float64
}

// Area returns the planar footprint area, computed once and cached. Ring
// orientation does not matter; the magnitude is what weighting needs.
func (f *Feature) Area() float64 {
	if f.area == 0 && len(f.Footprint) > 0 {
		f.area = math.Abs(planar.Area(f.Footprint))
	}
	return f.area
}

// Centroid returns the planar centroid of the footprint.
func (f *Feature) Centroid() orb.Point {
	c, _ := planar.CentroidArea(f.Footprint)
	return c
}

// Resolved reports whether the feature already carries a resolved height.
func (f *Feature) Resolved() bool { return f.ResolvedHeight != nil }

func ptr(v float64) *float64 { return &v }
