package game

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/systems"
)

// OpenField is the default terrain: a flat rectangle with optional solid blocks.
type OpenField struct {
	bounds components.Rect
	margin float64
	tries  int
	rng    *rand.Rand
	blocks []components.Rect
}

// NewOpenField creates an open field covering bounds. Placements keep margin away from the
// edges and sample up to tries candidates.
func NewOpenField(bounds components.Rect, margin float64, tries int, rng *rand.Rand) *OpenField {
	if tries < 1 {
		tries = 16
	}
	return &OpenField{
		bounds: bounds.Canon(),
		margin: margin,
		tries:  tries,
		rng:    rng,
	}
}

// Block marks r as solid.
func (t *OpenField) Block(r components.Rect) {
	t.blocks = append(t.blocks, r.Canon())
}

// IsPositionWalkable reports whether p is inside the field and outside every block.
func (t *OpenField) IsPositionWalkable(p r2.Vec) bool {
	if !t.bounds.Contains(p) {
		return false
	}
	for _, b := range t.blocks {
		if b.Contains(p) {
			return false
		}
	}
	return true
}

// FindValidPositionNear samples the ring around center for a walkable point.
func (t *OpenField) FindValidPositionNear(center r2.Vec, minR, maxR float64, avoid r2.Vec, avoidR float64) (r2.Vec, bool) {
	return systems.SampleRing(t.rng, center, minR, maxR, avoid, avoidR, t.bounds, t.margin, t.tries, t.IsPositionWalkable)
}

// LoadedWorldBounds always reports the field rectangle.
func (t *OpenField) LoadedWorldBounds() (components.Rect, bool) {
	return t.bounds, true
}
