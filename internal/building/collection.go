package building

import "github.com/urbanclimate-tools/urbanmdu/internal/geocore"

// Collection is a set of building features sharing one coordinate context.
type Collection struct {
	Core     geocore.GeoCore
	Features []*Feature
}

// NewCollection wraps features under the given coordinate context.
func NewCollection(core geocore.GeoCore, features []*Feature) *Collection {
	return &Collection{Core: core, Features: features}
}

// Unresolved returns the features still lacking a resolved height.
func (c *Collection) Unresolved() []*Feature {
	var out []*Feature
	for _, f := range c.Features {
		if !f.Resolved() {
			out = append(out, f)
		}
	}
	return out
}

// BySource counts resolved features per height source, with unresolved
// features counted under SourceUnresolved.
func (c *Collection) BySource() map[HeightSource]int {
	counts := make(map[HeightSource]int)
	for _, f := range c.Features {
		if f.Resolved() {
			counts[f.Source]++
		} else {
			counts[SourceUnresolved]++
		}
	}
	return counts
}
