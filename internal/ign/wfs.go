// Package ign talks to the French national geodata API (Géoplateforme WFS):
// LiDAR tile listings and BD TOPO building footprints.
package ign

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
)

// DefaultBaseURL is the public Géoplateforme service root.
const DefaultBaseURL = "https://data.geopf.fr/wfs/"

const (
	// LayerLidarTiles lists the 1km x 1km LiDAR HD tiles with download URLs.
	LayerLidarTiles = "IGNF_NUAGES-DE-POINTS-LIDAR-HD:dalle"
	// LayerBuildings is the BD TOPO building footprint layer.
	LayerBuildings = "BDTOPO_V3:batiment"
)

func OWSEndpoint(base string) string {
	return strings.TrimRight(base, "/") + "/ows"
}

// BuildGetFeatureParams builds a WFS 2.0 GetFeature query for a layer over a
// geographic extent. The service expects the bbox axes in lat,lon order with
// a trailing CRS URN, per the WFS 2.0 axis rules for EPSG:4326.
func BuildGetFeatureParams(layer string, bbox geocore.BoundingBox, startIndex, count int) url.Values {
	params := url.Values{}
	params.Set("service", "WFS")
	params.Set("version", "2.0.0")
	params.Set("request", "GetFeature")
	params.Set("typeNames", layer)
	params.Set("bbox", fmt.Sprintf("%f,%f,%f,%f,urn:ogc:def:crs:EPSG::4326",
		bbox.MinY, bbox.MinX, bbox.MaxY, bbox.MaxX))
	params.Set("outputFormat", "application/json")
	if startIndex > 0 {
		params.Set("startIndex", fmt.Sprintf("%d", startIndex))
	}
	if count > 0 {
		params.Set("count", fmt.Sprintf("%d", count))
	}
	return params
}
