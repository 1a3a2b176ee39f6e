package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/telemetry"
)

// Overlaps tests the absolute bounds of a and b for axis-aligned overlap.
func Overlaps(a, b *components.Actor) bool {
	return a.WorldBounds().Overlaps(b.WorldBounds())
}

// Sweeps reports whether a, moving relative to b for dt seconds, would cross into b's bounds.
// The relative movement is cast as a segment from a's bounds center against the four edges of
// b's bounds grown by a's half extents. Pairs that already overlap, or where neither actor is
// moving, never sweep.
func Sweeps(a, b *components.Actor, dt float64) bool {
	if Overlaps(a, b) {
		return false
	}
	if r2.Norm2(a.Vel) == 0 && r2.Norm2(b.Vel) == 0 {
		return false
	}
	move := r2.Scale(dt, r2.Sub(a.Vel, b.Vel))
	from := a.Center()
	to := r2.Add(from, move)
	return segmentHitsRectEdges(from, to, expand(b.WorldBounds(), a.Bounds))
}

// ResolveOverlap pushes an overlapping pair apart along the axis of least penetration. Each
// side moves half the penetration plus tolerance. Stunned and immovable actors are never pushed;
// their partner takes the full push instead. Returns whether anything moved.
func ResolveOverlap(a, b *components.Actor, tolerance float64) bool {
	ra, rb := a.WorldBounds(), b.WorldBounds()
	if !ra.Overlaps(rb) {
		return false
	}
	aFixed := a.Stunned || a.Immovable
	bFixed := b.Stunned || b.Immovable
	if aFixed && bFixed {
		return false
	}

	penX := min(ra.MaxX(), rb.MaxX()) - max(ra.X, rb.X)
	penY := min(ra.MaxY(), rb.MaxY()) - max(ra.Y, rb.Y)
	ca, cb := ra.Center(), rb.Center()

	var axis r2.Vec
	pen := penX
	if penX <= penY {
		axis = r2.Vec{X: 1}
		if ca.X > cb.X || (ca.X == cb.X && a.ID > b.ID) {
			axis.X = -1
		}
	} else {
		pen = penY
		axis = r2.Vec{Y: 1}
		if ca.Y > cb.Y || (ca.Y == cb.Y && a.ID > b.ID) {
			axis.Y = -1
		}
	}

	// axis points from a toward b. A fixed partner stays put and the free one takes the whole
	// penetration, so the pair separates in one pass.
	half := pen/2 + tolerance
	switch {
	case aFixed:
		b.Pos = r2.Add(b.Pos, r2.Scale(pen+tolerance, axis))
	case bFixed:
		a.Pos = r2.Sub(a.Pos, r2.Scale(pen+tolerance, axis))
	default:
		a.Pos = r2.Sub(a.Pos, r2.Scale(half, axis))
		b.Pos = r2.Add(b.Pos, r2.Scale(half, axis))
	}
	return true
}

// CollisionSystem detects overlapping and about-to-overlap pairs and resolves them: projectile
// hits, player/enemy contact, pickup collection, then positional separation.
type CollisionSystem struct {
	bodies []*components.Actor
}

// NewCollisionSystem creates a new collision system.
func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{}
}

// Update runs one collision pass over the frame.
func (s *CollisionSystem) Update(f *Frame) {
	s.projectiles(f)
	s.playerContacts(f)
	collectPickups(f)
	s.separate(f)
}

// projectiles resolves every live projectile against its first qualifying target.
func (s *CollisionSystem) projectiles(f *Frame) {
	for _, shot := range f.Projectiles {
		p := shot.Actor
		if p.IsDead() || shot.Proj.Spent {
			continue
		}
		for _, target := range f.Actors {
			if !projectileCanHit(shot, target) {
				continue
			}
			if !Overlaps(p, target) && !Sweeps(p, target, f.DT) {
				continue
			}
			projectileHit(f, shot, target)
			break
		}
	}
}

func projectileCanHit(shot Shot, target *components.Actor) bool {
	if target == shot.Actor || target.IsDead() || !target.Collidable {
		return false
	}
	if target.ID == shot.Proj.OwnerID {
		return false
	}
	switch target.Archetype {
	case components.ArchProjectile, components.ArchPickup:
		return false
	case components.ArchStatic:
		return true
	}
	return shot.Proj.Faction.Opposes(target.Faction)
}

// projectileHit applies damage and destroys the projectile. Non-piercing: one hit per shot.
func projectileHit(f *Frame, shot Shot, target *components.Actor) {
	shot.Proj.Spent = true
	p := shot.Actor
	f.Effects.impact(p.Center(), shot.Proj.Damage)

	if target.Archetype != components.ArchStatic {
		if dir, ok := unit(p.Vel); ok && shot.Proj.Knockback > 0 {
			target.ApplyKnockback(dir, shot.Proj.Knockback)
		}
		dealt, _ := ApplyDamage(f, target, shot.Proj.Damage, shot.Proj.OwnerID)
		if shot.Proj.Charged {
			triggerHitStop(f, dealt)
		}
	}
	p.Kill()
}

// playerContacts handles the player's lunge hits and enemy contact damage.
func (s *CollisionSystem) playerContacts(f *Frame) {
	if !f.PlayerAlive() {
		return
	}
	player := f.Player
	lunging := f.Fighter != nil && f.Fighter.Lunge.Active

	for _, e := range f.Enemies {
		a := e.Actor
		if a.IsDead() || !a.Collidable {
			continue
		}
		touching := Overlaps(player, a)
		if lunging && (touching || Sweeps(player, a, f.DT)) {
			if LungeHit(f, a) {
				lunging = false
			}
			continue
		}
		if touching {
			contactDamage(f, e)
		}
		if player.IsDead() {
			return
		}
	}
}

// contactDamage lets a touching enemy hurt the player, gated by the enemy's attack cooldown.
func contactDamage(f *Frame, e Enemy) {
	b := e.Brain
	if b.ContactDamage <= 0 || !b.Timers.Ready(components.TimerAttack) || e.Actor.Stunned {
		return
	}
	b.Timers.Set(components.TimerAttack, b.ContactCooldown)

	if e.Actor.Archetype == components.ArchDrone {
		// Drones detonate on contact; the burst is their damage. Self-inflicted, so nobody is
		// credited with the kill.
		ApplyDamage(f, e.Actor, e.Actor.Health, e.Actor.ID)
		return
	}

	player := f.Player
	ApplyDamage(f, player, b.ContactDamage, e.Actor.ID)
	if dir, ok := unit(r2.Sub(player.Center(), e.Actor.Center())); ok {
		player.ApplyKnockback(dir, b.ContactKnockback)
	}
	f.Effects.shake(b.ContactDamage, 0.1)
}

// separate runs the fixed number of pairwise resolution passes over all bodies.
func (s *CollisionSystem) separate(f *Frame) {
	s.bodies = s.bodies[:0]
	for _, a := range f.Actors {
		if a.IsDead() || !a.Collidable {
			continue
		}
		if a.Archetype == components.ArchProjectile || a.Archetype == components.ArchPickup {
			continue
		}
		s.bodies = append(s.bodies, a)
	}

	tol := f.Cfg.Frame.SeparationTolerance
	for iter := 0; iter < f.Cfg.Frame.ResolutionIterations; iter++ {
		moved := false
		for i := 0; i < len(s.bodies); i++ {
			for j := i + 1; j < len(s.bodies); j++ {
				if ResolveOverlap(s.bodies[i], s.bodies[j], tol) {
					moved = true
				}
			}
		}
		if !moved {
			break
		}
	}
	f.gridDirty = true
}

// emitDamage records a damage event.
func emitDamage(f *Frame, target *components.Actor, source components.ActorID, dealt float64) {
	if dealt > 0 {
		f.Emit(telemetry.NewDamageEvent(f.Tick, target, source, dealt))
	}
}
