package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/urbanclimate-tools/urbanmdu/internal/building"
	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
	"github.com/urbanclimate-tools/urbanmdu/internal/health"
	"github.com/urbanclimate-tools/urbanmdu/internal/ign"
	"github.com/urbanclimate-tools/urbanmdu/internal/middleware"
	"github.com/urbanclimate-tools/urbanmdu/internal/pipeline"
	"github.com/urbanclimate-tools/urbanmdu/internal/pointcloud"
	"github.com/urbanclimate-tools/urbanmdu/internal/raster"
	"github.com/urbanclimate-tools/urbanmdu/internal/reproject"
)

const maxBodyBytes = 64 << 20 // LiDAR point payloads are large

type server struct {
	cfg    Config
	logger zerolog.Logger
	pipe   *pipeline.Pipeline
	ign    *ign.Client
	ready  health.ReadinessReporter
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(s.logger))
	r.Use(middleware.Logging(s.logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(s.ready))
	r.Post("/v1/rasters", s.handleRasterize)
	r.Post("/v1/buildings/heights", s.handleResolveHeights)
	r.Get("/v1/lidar/tiles", s.handleLidarTiles)
	return r
}

type rasterRequest struct {
	BBox       [4]float64 `json:"bbox"`
	Resolution float64    `json:"resolution"`
	SourceEPSG int        `json:"source_epsg,omitempty"`
	FillGaps   bool       `json:"fill_gaps,omitempty"`
	Points     []struct {
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		Z     float64 `json:"z"`
		Class uint8   `json:"class"`
	} `json:"points"`
}

type bandResponse struct {
	Values []*float64 `json:"values"` // row-major from the min-y edge, null = no-data
}

type rasterResponse struct {
	EPSG      int          `json:"epsg"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Transform [6]float64   `json:"transform"`
	DSM       bandResponse `json:"dsm"`
	DTM       bandResponse `json:"dtm"`
	CHM       bandResponse `json:"chm"`
}

func (s *server) handleRasterize(w http.ResponseWriter, r *http.Request) {
	var req rasterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	bbox, err := geocore.NewBoundingBox(req.BBox[0], req.BBox[1], req.BBox[2], req.BBox[3])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	points := make([]pointcloud.Point, len(req.Points))
	for i, p := range req.Points {
		points[i] = pointcloud.Point{X: p.X, Y: p.Y, Z: p.Z, Class: pointcloud.Class(p.Class)}
	}

	prod, err := s.pipe.Rasterize(r.Context(), pipeline.RasterRequest{
		Points:     points,
		BBox:       bbox,
		Resolution: req.Resolution,
		SourceEPSG: req.SourceEPSG,
		FillGaps:   req.FillGaps,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, geocore.ErrInvalidBoundingBox) || errors.Is(err, raster.ErrInvalidResolution) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	geom := prod.Geometry()
	writeJSON(w, http.StatusOK, rasterResponse{
		EPSG:      geom.EPSG,
		Width:     geom.Width,
		Height:    geom.Height,
		Transform: geom.Transform(),
		DSM:       bandOf(prod.DSM),
		DTM:       bandOf(prod.DTM),
		CHM:       bandOf(prod.CHM),
	})
}

func bandOf(g *raster.Grid) bandResponse {
	vals := make([]*float64, 0, g.Width*g.Height)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			v := g.Value(col, row)
			if math.IsNaN(v) {
				vals = append(vals, nil)
				continue
			}
			vv := v
			vals = append(vals, &vv)
		}
	}
	return bandResponse{Values: vals}
}

type heightsRequest struct {
	// FeatureCollection in the geodata API's GeoJSON shape, WGS84 axes.
	Features json.RawMessage `json:"features_geojson"`
}

type heightResponse struct {
	ID       string   `json:"id"`
	Height   *float64 `json:"height"`
	Source   string   `json:"source"`
	District string   `json:"district,omitempty"`
}

func (s *server) handleResolveHeights(w http.ResponseWriter, r *http.Request) {
	var req heightsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	feats, err := ign.DecodeBuildings(req.Features)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Footprints arrive geographic; area weighting needs projected metres.
	for _, f := range feats {
		poly, err := reproject.Polygon(f.Footprint, geocore.WGS84, s.cfg.EPSG)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.Footprint = poly
	}

	c := building.NewCollection(geocore.New(s.cfg.EPSG), feats)
	if err := s.pipe.ResolveHeights(r.Context(), c); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]heightResponse, len(feats))
	for i, f := range feats {
		out[i] = heightResponse{
			ID:       f.ID,
			Height:   f.ResolvedHeight,
			Source:   string(f.Source),
			District: f.District,
		}
		if !f.Resolved() {
			out[i].Source = string(building.SourceUnresolved)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleLidarTiles(w http.ResponseWriter, r *http.Request) {
	bbox, err := parseBBoxParam(r.URL.Query().Get("bbox"))
	if err != nil {
		http.Error(w, "invalid bbox: "+err.Error(), http.StatusBadRequest)
		return
	}

	body, err := s.ign.GetFeatures(r.Context(), ign.LayerLidarTiles, bbox, 0, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	tiles, err := ign.DecodeLidarTiles(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, tiles)
}

// parseBBoxParam reads "minLon,minLat,maxLon,maxLat".
func parseBBoxParam(raw string) (geocore.BoundingBox, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 4 {
		return geocore.BoundingBox{}, fmt.Errorf("want 4 comma-separated values, got %d", len(parts))
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geocore.BoundingBox{}, fmt.Errorf("value %d: %w", i+1, err)
		}
		vals[i] = f
	}
	return geocore.NewBoundingBox(vals[0], vals[1], vals[2], vals[3])
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			http.Error(w, "empty request body", http.StatusBadRequest)
			return err
		}
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
