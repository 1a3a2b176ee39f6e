package components

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// AIState is the enemy decision state. It is distinct from the physical State: a pursuing
// enemy is physically moving, a wandering one may be idle between steps.
type AIState uint8

const (
	AIIdle AIState = iota
	AIWandering
	AIPursuing
	AIAttacking
	AIStunned
	AITunneling
	AIDead
)

var aiStateNames = [...]string{"idle", "wandering", "pursuing", "attacking", "stunned", "tunneling", "dead"}

func (s AIState) String() string {
	if int(s) < len(aiStateNames) {
		return aiStateNames[s]
	}
	return "unknown"
}

// Brain holds per-enemy decision state.
type Brain struct {
	Mode   AIState
	Timers Timers

	WanderDir r2.Vec
	DodgeDir  r2.Vec

	// Tuning captured at spawn
	Aggressiveness   float64
	AggroRange       float64
	DecisionInterval float64
	SeparationRadius float64
	ContactDamage    float64
	ContactCooldown  float64
	ContactKnockback float64
	DropChance       float64

	// Archetype extensions
	Ammo       int     // Tunneler magazine
	Reloading  bool    // Tunneler reload in progress
	IsChild    bool    // Splitter lineage flag; children never split
	ShedDrones bool    // Tunneler reinforcement burst already fired
	Hidden     bool    // Tunneler is underground
	Disarm     float64 // Turret sustained-interaction progress in seconds
	Offspring  bool    // Spawned by another enemy instead of the wave quota

	// Rng drives this actor's decisions. Draws are independent per actor.
	Rng *rand.Rand
}

// Roll returns true with probability p.
func (b *Brain) Roll(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return b.Rng.Float64() < p
}

// Between returns a uniform draw in [lo, hi).
func (b *Brain) Between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + b.Rng.Float64()*(hi-lo)
}
