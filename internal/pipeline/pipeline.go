// Package pipeline orchestrates the derivation passes: point cloud to raster
// product, and building attributes to resolved heights.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/urbanclimate-tools/urbanmdu/internal/building"
	"github.com/urbanclimate-tools/urbanmdu/internal/district"
	"github.com/urbanclimate-tools/urbanmdu/internal/events"
	"github.com/urbanclimate-tools/urbanmdu/internal/geocore"
	"github.com/urbanclimate-tools/urbanmdu/internal/logger"
	"github.com/urbanclimate-tools/urbanmdu/internal/observability"
	"github.com/urbanclimate-tools/urbanmdu/internal/pointcloud"
	"github.com/urbanclimate-tools/urbanmdu/internal/raster"
	"github.com/urbanclimate-tools/urbanmdu/internal/reproject"
)

// Publisher is the slice of the event producer the pipeline needs.
type Publisher interface {
	Publish(e events.Event) error
}

type Pipeline struct {
	Core     geocore.GeoCore
	Assigner district.Assigner // nil skips district assignment
	Events   Publisher         // nil disables notifications
	Logger   zerolog.Logger
	Resolver *building.Resolver
}

func New(core geocore.GeoCore, log zerolog.Logger) *Pipeline {
	return &Pipeline{Core: core, Logger: log, Resolver: building.NewResolver()}
}

// RasterRequest describes one derivation run. SourceEPSG is the CRS the
// points arrive in; they are reprojected into the working CRS when the two
// differ. BBox is always expressed in the working CRS since it defines the
// output grid, regardless of what CRS the points use. FillGaps enables the
// neighborhood fill on the terrain band before synthesis.
type RasterRequest struct {
	Points     []pointcloud.Point
	BBox       geocore.BoundingBox
	Resolution float64
	SourceEPSG int
	FillGaps   bool
}

// Rasterize derives the DSM/DTM/CHM product from a classified point cloud.
func (p *Pipeline) Rasterize(ctx context.Context, req RasterRequest) (*raster.Product, error) {
	log := logger.FromContext(ctx, &p.Logger)

	if err := req.BBox.Validate(); err != nil {
		return nil, err
	}
	geom, err := raster.NewGeometry(req.BBox, req.Resolution, p.Core.EPSG)
	if err != nil {
		return nil, err
	}

	points := req.Points
	if req.SourceEPSG != 0 && req.SourceEPSG != p.Core.EPSG {
		points, err = reprojectPoints(points, req.SourceEPSG, p.Core.EPSG)
		if err != nil {
			return nil, err
		}
	}

	parts := pointcloud.Partition(points)
	for class, pts := range parts {
		observability.AddPointsBinned(class.String(), len(pts))
	}

	ground := raster.Bin(parts[pointcloud.ClassGround], geom, raster.AggregateMax)
	if req.FillGaps {
		ground = raster.FillGaps(ground)
	}
	buildings := raster.Bin(parts[pointcloud.ClassBuilding], geom, raster.AggregateMax)
	vegetation := raster.BinClass(points, geom, raster.AggregateMax, pointcloud.VegetationClasses...)

	prod, err := raster.Synthesize(ground, buildings, vegetation)
	if err != nil {
		return nil, err
	}

	for band, g := range map[string]*raster.Grid{"dsm": prod.DSM, "dtm": prod.DTM, "chm": prod.CHM} {
		observability.SetGridCells(band, g.PopulatedCells(), g.NoDataCells())
	}

	log.Info().
		Int("points", len(points)).
		Stringer("dtm", prod.DTM).
		Stringer("dsm", prod.DSM).
		Msg("raster product derived")

	p.notify(log, events.OpProductReady, "raster", req.BBox, events.Detail{
		"points":        len(points),
		"cells":         geom.Width * geom.Height,
		"dsm_populated": prod.DSM.PopulatedCells(),
	})
	return prod, nil
}

// ResolveHeights assigns districts where needed and runs the height
// resolution chain over the collection.
func (p *Pipeline) ResolveHeights(ctx context.Context, c *building.Collection) error {
	log := logger.FromContext(ctx, &p.Logger)

	if p.Assigner != nil {
		if err := p.Assigner.Assign(c.Features); err != nil {
			return fmt.Errorf("assign districts: %w", err)
		}
	}
	if err := p.Resolver.Resolve(c); err != nil {
		return err
	}

	counts := c.BySource()
	detail := make(events.Detail, len(counts))
	for source, n := range counts {
		observability.IncHeightResolvedN(string(source), n)
		detail[string(source)] = n
	}
	log.Info().
		Int("features", len(c.Features)).
		Int("unresolved", counts[building.SourceUnresolved]).
		Msg("building heights resolved")

	if c.Core.BBox != nil {
		p.notify(log, events.OpHeightsResolved, "buildings", *c.Core.BBox, detail)
	}
	return nil
}

func (p *Pipeline) notify(log *zerolog.Logger, op, layer string, bbox geocore.BoundingBox, detail events.Detail) {
	if p.Events == nil {
		return
	}
	err := p.Events.Publish(events.Event{
		Version: 1,
		Op:      op,
		Layer:   layer,
		TS:      time.Now().UTC(),
		Source:  "urbanmdu",
		BBox: &events.BBox{
			X1: bbox.MinX, Y1: bbox.MinY, X2: bbox.MaxX, Y2: bbox.MaxY,
			SRID: fmt.Sprintf("EPSG:%d", p.Core.EPSG),
		},
		Detail: detail,
	})
	if err != nil {
		// Notifications are best effort; the derived product is already good.
		log.Warn().Err(err).Str("op", op).Msg("event publish failed")
	}
}

func reprojectPoints(points []pointcloud.Point, fromEPSG, toEPSG int) ([]pointcloud.Point, error) {
	out := make([]pointcloud.Point, len(points))
	for i, pt := range points {
		q, err := reproject.Point(orb.Point{pt.X, pt.Y}, fromEPSG, toEPSG)
		if err != nil {
			return nil, err
		}
		out[i] = pointcloud.Point{X: q[0], Y: q[1], Z: pt.Z, Class: pt.Class}
	}
	return out, nil
}
