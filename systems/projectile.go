package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/telemetry"
)

// ShotSpec describes a projectile to fire.
type ShotSpec struct {
	Dir       r2.Vec
	Speed     float64
	Damage    float64
	Knockback float64
	Guided    bool
	TargetID  components.ActorID
	TurnRate  float64
	Charged   bool
}

// FireProjectile queues a projectile leaving owner's center along spec.Dir. The projectile
// carries the owner's faction. Returns false without spawning when the direction is invalid.
func FireProjectile(f *Frame, owner *components.Actor, spec ShotSpec) (components.ActorID, bool) {
	dir, ok := unit(spec.Dir)
	if !ok || !(spec.Speed > 0) {
		warnOnce("projectile_rejected", owner.Archetype.String())
		return components.NoActor, false
	}

	id := f.IDs.Next()
	size := f.Cfg.Projectile.Size
	bounds := components.Rect{X: -size / 2, Y: -size / 2, W: size, H: size}
	actor := components.NewActor(id, components.ArchProjectile, owner.Center(), 1, bounds)
	arch := f.Cfg.Archetype(components.ArchProjectile.String())
	actor.Friction = arch.Friction
	actor.Faction = owner.Faction
	actor.Vel = r2.Scale(spec.Speed, dir)
	actor.State = components.StateMoving

	proj := components.Projectile{
		OwnerID:   owner.ID,
		Faction:   owner.Faction,
		Damage:    spec.Damage,
		Lifetime:  f.Cfg.Projectile.Lifetime,
		Speed:     spec.Speed,
		Guided:    spec.Guided,
		TargetID:  spec.TargetID,
		TurnRate:  spec.TurnRate,
		Knockback: spec.Knockback,
		Charged:   spec.Charged,
	}
	f.Spawns.Push(Pending{Actor: &actor, Projectile: &proj})
	f.Emit(telemetry.Event{
		Type:      telemetry.EventShotFired,
		ActorID:   owner.ID,
		Archetype: owner.Archetype,
		Pos:       owner.Center(),
		SourceID:  id,
		Amount:    spec.Damage,
	})
	return id, true
}

// fireAt aims a shot from owner at target's current center.
func fireAt(f *Frame, owner, target *components.Actor, spec ShotSpec) (components.ActorID, bool) {
	spec.Dir = r2.Sub(target.Center(), owner.Center())
	if spec.Guided {
		spec.TargetID = target.ID
	}
	return FireProjectile(f, owner, spec)
}

// ProjectileSystem ages projectiles, steers guided ones and removes shots that leave the world.
type ProjectileSystem struct{}

// NewProjectileSystem creates a new projectile system.
func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{}
}

// Update runs once per frame before physics.
func (s *ProjectileSystem) Update(f *Frame) {
	bounds := f.WorldBounds()
	for _, shot := range f.Projectiles {
		a, p := shot.Actor, shot.Proj
		if a.IsDead() {
			continue
		}
		p.Lifetime -= f.DT
		if p.Lifetime <= 0 || p.Spent || !a.WorldBounds().Overlaps(bounds) {
			a.Kill()
			continue
		}
		if p.Guided {
			steer(f, a, p)
		}
		f.Effects.trail(a.Center(), a.Vel)
	}
}

// steer turns a guided projectile toward its target by at most TurnRate*dt radians, keeping
// its speed.
func steer(f *Frame, a *components.Actor, p *components.Projectile) {
	target := f.Actor(p.TargetID)
	if target == nil || target.IsDead() || !target.Collidable {
		return
	}
	heading, ok := unit(a.Vel)
	if !ok {
		return
	}
	want, ok := unit(r2.Sub(target.Center(), a.Center()))
	if !ok {
		return
	}
	maxTurn := p.TurnRate * f.DT
	turn := clampFloat(signedAngle(heading, want), -maxTurn, maxTurn)
	heading = r2.Rotate(heading, turn, r2.Vec{})
	a.Vel = r2.Scale(p.Speed, heading)
}
