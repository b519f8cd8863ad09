// Package h3district derives districts from the H3 cell containing each
// footprint centroid, for datasets whose source attributes carry no
// administrative grouping.
package h3district

import (
	"fmt"

	h3 "github.com/uber/h3-go/v4"

	"github.com/urbanclimate-tools/urbanmdu/internal/building"
	"github.com/urbanclimate-tools/urbanmdu/internal/district"
	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
	"github.com/urbanclimate-tools/urbanmdu/internal/reproject"
)

// DefaultResolution yields cells of roughly 0.7 km2, a workable stand-in for
// an urban district.
const DefaultResolution = 8

type Assigner struct {
	// EPSG is the CRS the footprints are expressed in. Centroids are
	// reprojected to geographic coordinates before cell lookup.
	EPSG       int
	Resolution int
}

var _ district.Assigner = (*Assigner)(nil)

func New(epsg int) *Assigner {
	return &Assigner{EPSG: epsg, Resolution: DefaultResolution}
}

// Assign sets District to the H3 cell of the footprint centroid for every
// feature without one. Features with an empty footprint are skipped; they
// cannot be grouped and stay districtless.
func (a *Assigner) Assign(features []*building.Feature) error {
	if a.Resolution < 0 || a.Resolution > 15 {
		return fmt.Errorf("h3 resolution %d out of range [0,15]", a.Resolution)
	}
	for _, f := range features {
		if f.District != "" || len(f.Footprint) == 0 {
			continue
		}
		c, err := reproject.Point(f.Centroid(), a.EPSG, geocore.WGS84)
		if err != nil {
			return fmt.Errorf("centroid of %q: %w", f.ID, err)
		}
		cell, err := h3.LatLngToCell(h3.LatLng{Lat: c[1], Lng: c[0]}, a.Resolution)
		if err != nil {
			return fmt.Errorf("cell lookup for %q: %w", f.ID, err)
		}
		f.District = cell.String()
	}
	return nil
}
