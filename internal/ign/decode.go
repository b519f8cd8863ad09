package ign

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/urbanclimate-tools/urbanmdu/internal/building"
)

// BD TOPO building attribute names. Values arrive untyped; numbers sometimes
// come through as strings, so decoding tolerates both.
const (
	attrHeight    = "hauteur"
	attrStoreys   = "nombre_d_etages"
	attrAltHeight = "hauteur_2"
	attrDistrict  = "code_insee"
)

// ErrNotAFeatureCollection is returned when the payload is valid JSON but
// not a GeoJSON FeatureCollection.
var ErrNotAFeatureCollection = errors.New("payload is not a feature collection")

// DecodeBuildings parses a GetFeature response from the building layer into
// height-resolver features. Geometries are kept in the CRS the response was
// requested in; reprojection is the caller's concern. Features without a
// polygonal geometry are skipped.
func DecodeBuildings(data []byte) ([]*building.Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAFeatureCollection, err)
	}

	out := make([]*building.Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		poly, ok := polygonOf(f.Geometry)
		if !ok {
			continue
		}
		bf := &building.Feature{
			ID:        featureID(f, i),
			Footprint: poly,
			Height:    numProp(f.Properties, attrHeight),
			Storeys:   numProp(f.Properties, attrStoreys),
			AltHeight: numProp(f.Properties, attrAltHeight),
			District:  strProp(f.Properties, attrDistrict),
		}
		out = append(out, bf)
	}
	return out, nil
}

// LidarTile is one downloadable LiDAR HD tile from the tiling layer.
type LidarTile struct {
	Name string
	URL  string
}

// DecodeLidarTiles parses a GetFeature response from the tile layer into the
// list of downloadable tiles. Tiles without a download URL are skipped.
func DecodeLidarTiles(data []byte) ([]LidarTile, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAFeatureCollection, err)
	}

	var out []LidarTile
	for _, f := range fc.Features {
		u := strProp(f.Properties, "url")
		if u == "" {
			continue
		}
		out = append(out, LidarTile{Name: strProp(f.Properties, "name"), URL: u})
	}
	return out, nil
}

func polygonOf(g orb.Geometry) (orb.Polygon, bool) {
	switch t := g.(type) {
	case orb.Polygon:
		return t, true
	case orb.MultiPolygon:
		if len(t) == 0 {
			return nil, false
		}
		// Multipart footprints are rare in BD TOPO; take the first member.
		return t[0], true
	}
	return nil, false
}

func featureID(f *geojson.Feature, i int) string {
	switch id := f.ID.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return strconv.Itoa(i)
}

func numProp(props geojson.Properties, key string) *float64 {
	v, ok := props[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		if t == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return &f
		}
	}
	return nil
}

func strProp(props geojson.Properties, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
