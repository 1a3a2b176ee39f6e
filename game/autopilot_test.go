package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/systems"
)

func TestAutopilotWithoutEnemiesHeadsToCenter(t *testing.T) {
	g := New(testConfig(t), DefaultOptions())
	g.SpawnPlayer(r2.Vec{X: 100, Y: 100})
	auto := NewAutopilot(g.Config(), 1)

	in := auto.Next(g, g.Config().Frame.DT)

	assert.True(t, in.Held[systems.ActionMoveRight])
	assert.True(t, in.Held[systems.ActionMoveDown])
	assert.False(t, in.Pressed[systems.ActionAttack])
}

func TestAutopilotLungesInMeleeRange(t *testing.T) {
	g := New(testConfig(t), DefaultOptions())
	g.SpawnPlayer(r2.Vec{X: 500, Y: 500})
	spawnAt(g, components.ArchMelee, r2.Vec{X: 540, Y: 500})
	auto := NewAutopilot(g.Config(), 1)

	in := auto.Next(g, g.Config().Frame.DT)

	assert.True(t, in.Pressed[systems.ActionAttack])
	assert.InDelta(t, 1, r2.Unit(in.Pointer).X, 1e-9)
}

func TestAutopilotChargesAtRange(t *testing.T) {
	g := New(testConfig(t), DefaultOptions())
	g.SpawnPlayer(r2.Vec{X: 500, Y: 500})
	spawnAt(g, components.ArchRanged, r2.Vec{X: 500, Y: 800})
	auto := NewAutopilot(g.Config(), 1)
	dt := g.Config().Frame.DT

	in := auto.Next(g, dt)
	assert.True(t, in.Held[systems.ActionFire])

	// The trigger is let go once the charge is full
	frames := g.Config().Charge.MaxChargeTime / dt
	released := 0
	for i := 2; i <= int(frames)+3; i++ {
		if !auto.Next(g, dt).Held[systems.ActionFire] {
			released = i
			break
		}
	}
	assert.InDelta(t, frames, float64(released), 2)
}

func TestAutopilotIdleWhenPlayerDead(t *testing.T) {
	g := New(testConfig(t), DefaultOptions())
	auto := NewAutopilot(g.Config(), 1)
	assert.Equal(t, systems.InputSnapshot{}, auto.Next(g, 0.016))
}
