// Package attrdistrict groups features by a source attribute copied into the
// District field at decode time. Assign is a no-op that only verifies the
// grouping is usable.
package attrdistrict

import (
	"errors"

	"github.com/urbanclimate-tools/urbanmdu/internal/building"
	"github.com/urbanclimate-tools/urbanmdu/internal/district"
)

// ErrNoDistricts is returned when no feature carries a district attribute,
// which would make the fallback rule dead weight.
var ErrNoDistricts = errors.New("no feature carries a district attribute")

type Assigner struct{}

var _ district.Assigner = (*Assigner)(nil)

func New() *Assigner { return &Assigner{} }

func (a *Assigner) Assign(features []*building.Feature) error {
	for _, f := range features {
		if f.District != "" {
			return nil
		}
	}
	if len(features) == 0 {
		return nil
	}
	return ErrNoDistricts
}
