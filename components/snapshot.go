package components

import (
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"
)

// Snapshot is the read-only per-frame view of an actor handed to renderers and UI.
type Snapshot struct {
	ID        ActorID
	Archetype Archetype
	Pos       r2.Vec
	Bounds    Rect // Absolute
	State     State
	Health    float64
	MaxHealth float64
	Flashing  bool
	Flash     float64 // Intensity in [0,1]
	Stunned   bool
	Hidden    bool
}

// Snapshot captures the actor's externally visible state.
func (a *Actor) Snapshot() Snapshot {
	return Snapshot{
		ID:        a.ID,
		Archetype: a.Archetype,
		Pos:       a.Pos,
		Bounds:    a.WorldBounds(),
		State:     a.State,
		Health:    a.Health,
		MaxHealth: a.MaxHealth,
		Flashing:  a.IsFlashing(),
		Flash:     a.FlashIntensity,
		Stunned:   a.Stunned,
		Hidden:    !a.Collidable && a.State == StateTunneling,
	}
}

// IDAllocator hands out actor ids monotonically. Zero is never issued.
type IDAllocator struct {
	last atomic.Uint64
}

// Next returns a fresh id.
func (g *IDAllocator) Next() ActorID {
	return ActorID(g.last.Add(1))
}

// Last returns the most recently issued id.
func (g *IDAllocator) Last() ActorID {
	return ActorID(g.last.Load())
}
