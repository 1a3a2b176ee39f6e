// Package components defines ECS components for the arena simulation.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ActorID is a process-unique actor identifier. IDs are issued monotonically and never reused.
type ActorID uint64

// NoActor is the zero ID; no live actor carries it.
const NoActor ActorID = 0

// Physics constants fixed by the integration contract.
const (
	// MovingThreshold is the speed above which an idle actor counts as moving.
	MovingThreshold = 0.1
	// StunDecay is the per-1/60s velocity retention applied while stunned.
	StunDecay = 0.5
	// HitFlashDuration is how long the red flash lasts after non-lethal damage.
	HitFlashDuration = 0.12
	// referenceRate normalises friction exponents to a 60 Hz frame.
	referenceRate = 60
	// epsilon guards every normalisation.
	epsilon = 1e-9
)

// Faction decides which projectiles may damage an actor.
type Faction uint8

const (
	FactionNeutral Faction = iota
	FactionPlayer
	FactionEnemy
)

// Opposes reports whether f and other are hostile to each other.
func (f Faction) Opposes(other Faction) bool {
	return (f == FactionPlayer && other == FactionEnemy) || (f == FactionEnemy && other == FactionPlayer)
}

// Actor is the physics + health + state record shared by every simulated thing.
type Actor struct {
	ID        ActorID
	Archetype Archetype
	Faction   Faction

	Pos   r2.Vec
	Vel   r2.Vec
	Accel r2.Vec

	Friction  float64 // Velocity retention per 1/60s
	Gravity   float64 // Added to Accel.Y while integrating
	MaxVel    r2.Vec  // Per-axis clamp; 0 disables the clamp on that axis
	MoveSpeed float64

	Health    float64
	MaxHealth float64

	State     State
	StateTime float64 // Seconds spent in the current state
	// AllowedStates restricts SetState; zero allows every state.
	AllowedStates StateMask

	Bounds Rect // Relative to Pos

	Stunned        bool
	StunTimer      float64
	FlashTimer     float64
	FlashDuration  float64
	FlashIntensity float64

	Collidable bool // False while tunneling or for purely visual actors
	Immovable  bool // Never displaced by separation or knockback
}

// NewActor returns a live actor with full health in the idle state.
func NewActor(id ActorID, arch Archetype, pos r2.Vec, maxHealth float64, bounds Rect) Actor {
	if maxHealth <= 0 {
		maxHealth = 1
	}
	return Actor{
		ID:         id,
		Archetype:  arch,
		Faction:    arch.DefaultFaction(),
		Pos:        pos,
		Friction:   1,
		Health:     maxHealth,
		MaxHealth:  maxHealth,
		State:      StateIdle,
		Bounds:     bounds.Canon(),
		Collidable: true,
	}
}

// IsDead reports whether the actor has reached its terminal state.
func (a *Actor) IsDead() bool {
	return a.State == StateDead
}

// IsFlashing reports whether a hit or stun flash is still visible.
func (a *Actor) IsFlashing() bool {
	return a.FlashTimer > 0
}

// WorldBounds returns the absolute bounds rectangle.
func (a *Actor) WorldBounds() Rect {
	return a.Bounds.Translate(a.Pos)
}

// Center returns the centre of the absolute bounds.
func (a *Actor) Center() r2.Vec {
	return a.WorldBounds().Center()
}

// SetState switches state and resets the per-state timer.
// Ignored when dead or when the archetype does not allow the state.
func (a *Actor) SetState(s State) {
	if a.IsDead() {
		return
	}
	if a.AllowedStates != 0 && !a.AllowedStates.Has(s) {
		return
	}
	if a.State == s {
		return
	}
	a.State = s
	a.StateTime = 0
}

// TakeDamage subtracts health. It returns the damage actually applied and whether this call
// killed the actor; the death flag is true exactly once per actor.
func (a *Actor) TakeDamage(amount float64) (dealt float64, died bool) {
	if a.IsDead() || !(amount > 0) {
		return 0, false
	}
	dealt = math.Min(amount, a.Health)
	a.Health -= amount
	if a.Health <= 0 {
		a.Health = 0
		a.die()
		return dealt, true
	}
	a.flash(HitFlashDuration)
	return dealt, false
}

// Kill forces the terminal state without going through damage. Returns false if already dead.
func (a *Actor) Kill() bool {
	if a.IsDead() {
		return false
	}
	a.Health = 0
	a.die()
	return true
}

func (a *Actor) die() {
	a.State = StateDead
	a.StateTime = 0
	a.Vel = r2.Vec{}
	a.Accel = r2.Vec{}
	a.Stunned = false
	a.StunTimer = 0
}

// Heal restores health up to MaxHealth.
func (a *Actor) Heal(amount float64) {
	if a.IsDead() || !(amount > 0) {
		return
	}
	a.Health = math.Min(a.MaxHealth, a.Health+amount)
}

// SetMaxHealth changes MaxHealth. Raising it pulls Health up proportionally; lowering it only
// clamps, so health never drops because of a buff change.
func (a *Actor) SetMaxHealth(maxHealth float64) {
	if a.IsDead() || !(maxHealth > 0) {
		return
	}
	if maxHealth > a.MaxHealth && a.MaxHealth > 0 {
		a.Health *= maxHealth / a.MaxHealth
	}
	a.MaxHealth = maxHealth
	if a.Health > a.MaxHealth {
		a.Health = a.MaxHealth
	}
}

// Stun suspends AI and input for duration. An existing longer stun is never shortened.
func (a *Actor) Stun(duration float64) {
	if a.IsDead() || !(duration > 0) {
		return
	}
	a.Stunned = true
	if duration > a.StunTimer {
		a.StunTimer = duration
	}
	a.flash(duration)
	a.SetState(StateStunned)
}

// ApplyKnockback adds an instantaneous impulse of magnitude force along dir.
func (a *Actor) ApplyKnockback(dir r2.Vec, force float64) {
	if a.IsDead() || a.Immovable || force == 0 {
		return
	}
	n := r2.Norm(dir)
	if n < epsilon || math.IsNaN(n) {
		return
	}
	a.Vel = r2.Add(a.Vel, r2.Scale(force/n, dir))
}

func (a *Actor) flash(duration float64) {
	if duration > a.FlashTimer {
		a.FlashTimer = duration
		a.FlashDuration = duration
	}
	a.FlashIntensity = 1
}

// tickStatus decays the stun and flash timers.
func (a *Actor) tickStatus(dt float64) {
	if a.StunTimer > 0 {
		a.StunTimer -= dt
		if a.StunTimer <= 0 {
			a.StunTimer = 0
			a.Stunned = false
			if a.State == StateStunned {
				a.SetState(StateIdle)
			}
		}
	}
	if a.FlashTimer > 0 {
		a.FlashTimer -= dt
		if a.FlashTimer <= 0 {
			a.FlashTimer = 0
			a.FlashIntensity = 0
		} else if a.FlashDuration > 0 {
			a.FlashIntensity = a.FlashTimer / a.FlashDuration
		}
	}
}

// Integrate advances timers and physics by dt seconds.
func (a *Actor) Integrate(dt float64) {
	if a.IsDead() || dt <= 0 {
		return
	}
	a.StateTime += dt
	a.tickStatus(dt)

	if a.Stunned {
		// Residual velocity only: no acceleration, gravity or input while stunned
		a.Vel = r2.Scale(math.Pow(StunDecay, dt*referenceRate), a.Vel)
		a.Pos = r2.Add(a.Pos, r2.Scale(dt, a.Vel))
		return
	}

	accel := r2.Vec{X: a.Accel.X, Y: a.Accel.Y + a.Gravity}
	a.Vel = r2.Add(a.Vel, r2.Scale(dt, accel))
	a.Vel = r2.Scale(math.Pow(a.Friction, dt*referenceRate), a.Vel)
	a.Vel.X = clampAxis(a.Vel.X, a.MaxVel.X)
	a.Vel.Y = clampAxis(a.Vel.Y, a.MaxVel.Y)
	a.Pos = r2.Add(a.Pos, r2.Scale(dt, a.Vel))

	if a.State == StateIdle || a.State == StateMoving {
		if r2.Norm(a.Vel) > MovingThreshold {
			a.SetState(StateMoving)
		} else {
			a.SetState(StateIdle)
		}
	}
}

func clampAxis(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
