// Package events publishes product lifecycle notifications so downstream
// consumers (exporters, simulation runners) know when derived data changed.
package events

import (
	"fmt"
	"strings"
	"time"
)

const (
	// OpProductReady signals a freshly derived raster product.
	OpProductReady = "product_ready"
	// OpHeightsResolved signals a completed building height pass.
	OpHeightsResolved = "heights_resolved"
	// OpDatasetUpdated signals that an upstream layer changed and cached
	// tiles covering the extent are stale.
	OpDatasetUpdated = "dataset_updated"
)

type Event struct {
	Version int       `json:"version"`
	Op      string    `json:"op"`
	Layer   string    `json:"layer"`
	TS      time.Time `json:"ts"`
	Source  string    `json:"source,omitempty"`
	BBox    *BBox     `json:"bbox,omitempty"`
	Detail  Detail    `json:"detail,omitempty"`
}

type BBox struct {
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
	SRID string  `json:"srid"`
}

// Detail carries op-specific counters, for example resolved-height totals.
type Detail map[string]int

func (e Event) Validate() error {
	if e.Version != 1 {
		return fmt.Errorf("version must be 1")
	}
	switch e.Op {
	case OpProductReady, OpHeightsResolved, OpDatasetUpdated:
	default:
		return fmt.Errorf("op must be %s|%s|%s", OpProductReady, OpHeightsResolved, OpDatasetUpdated)
	}
	if strings.TrimSpace(e.Layer) == "" {
		return fmt.Errorf("layer is required")
	}
	if e.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}
	if e.BBox == nil {
		return fmt.Errorf("bbox is required")
	}
	bb := *e.BBox
	if bb.SRID == "" {
		return fmt.Errorf("bbox.srid is required")
	}
	if !(bb.X2 > bb.X1 && bb.Y2 > bb.Y1) {
		return fmt.Errorf("bbox must satisfy x2>x1 and y2>y1")
	}
	return nil
}
