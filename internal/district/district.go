// Package district assigns building features to districts, the grouping the
// height resolver's area-weighted fallback averages over.
package district

import (
	"github.com/urbanclimate-tools/urbanmdu/internal/building"
)

// Assigner fills in the District field of every feature that lacks one.
// Features with a district already set are left alone, so source attributes
// always win over derived groupings.
type Assigner interface {
	Assign(features []*building.Feature) error
}
