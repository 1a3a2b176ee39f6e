package components

import "gonum.org/v1/gonum/spatial/r2"

// Lunge is one melee activation.
type Lunge struct {
	Active   bool
	Dir      r2.Vec
	Origin   r2.Vec
	Elapsed  float64
	TargetID ActorID // NoActor when lunging along the facing direction
	// Hit holds every target damaged by this activation. A new activation starts with a fresh set.
	Hit map[ActorID]struct{}
}

// HasHit reports whether id was already damaged by this activation.
func (l *Lunge) HasHit(id ActorID) bool {
	_, ok := l.Hit[id]
	return ok
}

// MarkHit records id as damaged by this activation.
func (l *Lunge) MarkHit(id ActorID) {
	if l.Hit == nil {
		l.Hit = make(map[ActorID]struct{})
	}
	l.Hit[id] = struct{}{}
}

// Charge is the charge-and-release ranged attack in progress.
type Charge struct {
	Active bool
	Held   float64 // Seconds the trigger has been held, capped at the max charge time
}

// Fighter holds the player's combat state.
type Fighter struct {
	Lunge  Lunge
	Charge Charge

	// Resource is the consumable charge-shot ammunition collected from defeated enemies.
	Resource    int
	MaxResource int

	Facing r2.Vec // Last non-zero movement direction

	MeleeCooldown float64
	DashCooldown  float64
	DashTimer     float64
	DashDir       r2.Vec
}
