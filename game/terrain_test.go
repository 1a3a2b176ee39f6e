package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
)

func TestOpenField(t *testing.T) {
	field := NewOpenField(components.Rect{W: 1000, H: 800}, 10, 32, rand.New(rand.NewSource(2)))
	field.Block(components.Rect{X: 400, Y: 300, W: 200, H: 200})

	tests := []struct {
		name string
		p    r2.Vec
		want bool
	}{
		{name: "open ground", p: r2.Vec{X: 100, Y: 100}, want: true},
		{name: "inside block", p: r2.Vec{X: 500, Y: 400}, want: false},
		{name: "outside bounds", p: r2.Vec{X: -5, Y: 100}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, field.IsPositionWalkable(tc.p))
		})
	}

	bounds, ok := field.LoadedWorldBounds()
	assert.True(t, ok)
	assert.Equal(t, components.Rect{W: 1000, H: 800}, bounds)
}

func TestOpenFieldPlacementAvoidsBlocks(t *testing.T) {
	field := NewOpenField(components.Rect{W: 1000, H: 800}, 10, 64, rand.New(rand.NewSource(4)))
	field.Block(components.Rect{X: 400, Y: 300, W: 200, H: 200})
	center := r2.Vec{X: 500, Y: 400}

	for range 30 {
		p, ok := field.FindValidPositionNear(center, 50, 250, r2.Vec{}, 0)
		if !ok {
			continue
		}
		assert.True(t, field.IsPositionWalkable(p))
	}
}
