package building

import "errors"

// DefaultStoreyHeight is the metres-per-storey factor applied when only a
// storey count is available.
const DefaultStoreyHeight = 3.0

// ErrNilCollection is returned when a resolution pass receives no collection
// at all. A collection with zero features is fine and resolves to a no-op.
var ErrNilCollection = errors.New("nil building collection")

// Resolver applies the height resolution chain to a collection. The chain is
// a strict priority order per feature, stopping at the first rule that
// yields a usable value; non-positive attribute values never resolve and
// fall through to the next rule:
//
//  1. measured height, when > 0
//  2. storey count x StoreyHeight, when the count is > 0
//  3. alternate height field, when > 0
//  4. area-weighted mean height of the feature's district
//
// District means are computed from the features rules 1-3 resolved, before
// any rule-4 fill happens, so the outcome does not depend on feature order
// and a rule-4 height never feeds another feature's mean. Features in a
// district with no attribute-resolved members stay unresolved; heights are
// never invented and unresolved features are never dropped.
type Resolver struct {
	StoreyHeight float64
}

// NewResolver returns a resolver with the default storey height.
func NewResolver() *Resolver { return &Resolver{StoreyHeight: DefaultStoreyHeight} }

// Resolve runs the chain over every feature in the collection, in place.
// Already-resolved features are left untouched, so the pass is idempotent.
func (r *Resolver) Resolve(c *Collection) error {
	if c == nil {
		return ErrNilCollection
	}
	storey := r.StoreyHeight
	if storey <= 0 {
		storey = DefaultStoreyHeight
	}

	for _, f := range c.Features {
		if f.Resolved() {
			continue
		}
		switch {
		case f.Height != nil && *f.Height > 0:
			f.ResolvedHeight = ptr(*f.Height)
			f.Source = SourceMeasured
		case f.Storeys != nil && *f.Storeys > 0:
			f.ResolvedHeight = ptr(*f.Storeys * storey)
			f.Source = SourceStoreys
		case f.AltHeight != nil && *f.AltHeight > 0:
			f.ResolvedHeight = ptr(*f.AltHeight)
			f.Source = SourceAltHeight
		}
	}

	means := districtMeans(c.Features)
	for _, f := range c.Features {
		if f.Resolved() {
			continue
		}
		if m, ok := means[f.District]; ok {
			f.ResolvedHeight = ptr(m)
			f.Source = SourceDistrict
		}
	}
	return nil
}

// districtMeans computes the area-weighted mean resolved height per district
// over the attribute-resolved features. Zero-area footprints carry no weight;
// a district whose resolved members all have zero area yields no mean.
func districtMeans(features []*Feature) map[string]float64 {
	type acc struct{ weighted, area float64 }
	sums := make(map[string]acc)
	for _, f := range features {
		if !f.Resolved() || f.District == "" {
			continue
		}
		a := f.Area()
		if a <= 0 {
			continue
		}
		s := sums[f.District]
		s.weighted += *f.ResolvedHeight * a
		s.area += a
		sums[f.District] = s
	}
	means := make(map[string]float64, len(sums))
	for d, s := range sums {
		means[d] = s.weighted / s.area
	}
	return means
}
