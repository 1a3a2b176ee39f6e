package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/brawl/components"
)

// PhysicsSystem integrates every actor in the world and keeps bodies inside the world bounds.
type PhysicsSystem struct {
	filter ecs.Filter1[components.Actor]
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter1[components.Actor](w),
	}
}

// Update advances all actors by dt. Projectiles may leave the bounds; the projectile system
// retires them.
func (s *PhysicsSystem) Update(bounds components.Rect, dt float64) {
	query := s.filter.Query()
	for query.Next() {
		a := query.Get()
		if a.IsDead() || a.State == components.StateStatic {
			continue
		}
		a.Integrate(dt)
		if a.Archetype != components.ArchProjectile {
			confine(a, bounds)
		}
	}
}

// confine clamps the actor's bounds inside the world and kills the velocity component that
// pushed it out, with a slight bounce.
func confine(a *components.Actor, bounds components.Rect) {
	r := a.WorldBounds()
	switch {
	case r.X < bounds.X:
		a.Pos.X += bounds.X - r.X
		a.Vel.X *= -0.3
	case r.MaxX() > bounds.MaxX():
		a.Pos.X -= r.MaxX() - bounds.MaxX()
		a.Vel.X *= -0.3
	}
	switch {
	case r.Y < bounds.Y:
		a.Pos.Y += bounds.Y - r.Y
		a.Vel.Y *= -0.3
	case r.MaxY() > bounds.MaxY():
		a.Pos.Y -= r.MaxY() - bounds.MaxY()
		a.Vel.Y *= -0.3
	}
}
