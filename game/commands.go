package game

import (
	"log/slog"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/systems"
	"github.com/pthm-cable/brawl/telemetry"
)

// withFrame runs fn against a freshly collected frame outside the step pipeline, then inserts
// whatever it spawned and dispatches its events.
func (g *Game) withFrame(fn func(f *systems.Frame)) {
	f := g.frame
	f.Reset(g.cfg.Frame.DT, g.tick)
	g.collect()
	fn(f)
	g.flush()
	g.dispatch()
}

// StartFirstWave begins wave 1. Returns false if waves are already running.
func (g *Game) StartFirstWave() bool {
	if g.waves.Phase() != systems.WaveInactive {
		return false
	}
	g.withFrame(func(f *systems.Frame) {
		g.waves.StartNextWave(f)
	})
	return true
}

// JumpToWave abandons the current wave, removes every enemy without death routines or kill
// credit, and starts wave n.
func (g *Game) JumpToWave(n int) {
	if n < 1 {
		n = 1
	}
	g.withFrame(func(f *systems.Frame) {
		for _, e := range f.Enemies {
			forceKill(f, e)
		}
	})
	g.withFrame(func(f *systems.Frame) {
		g.waves.JumpTo(f, n)
	})
	g.runComplete = false
	slog.Info("wave_jump", "wave", n)
}

// ClearArchetype force-kills every live actor of arch and returns how many were removed.
// Enemies, projectiles and pickups can be cleared; the player and static objects cannot.
func (g *Game) ClearArchetype(arch components.Archetype) int {
	if !arch.IsEnemy() && arch != components.ArchProjectile && arch != components.ArchPickup {
		return 0
	}
	cleared := 0
	g.withFrame(func(f *systems.Frame) {
		switch arch {
		case components.ArchProjectile:
			for _, s := range f.Projectiles {
				if forceRemove(f, s.Actor) {
					cleared++
				}
			}
		case components.ArchPickup:
			for _, d := range f.Pickups {
				if forceRemove(f, d.Actor) {
					cleared++
				}
			}
		default:
			for _, e := range f.Enemies {
				if e.Actor.Archetype == arch && forceKill(f, e) {
					cleared++
				}
			}
		}
	})
	return cleared
}

// SustainInteraction accumulates dt seconds of disarm progress on the turret id. The turret
// is destroyed, with its normal death handling, once progress reaches the configured disarm
// time. Returns true on the call that destroys it.
func (g *Game) SustainInteraction(id components.ActorID, dt float64) bool {
	e, ok := g.enemy(id)
	if !ok || e.Actor.Archetype != components.ArchTurret || e.Actor.IsDead() || !(dt > 0) {
		return false
	}
	e.Brain.Disarm += dt
	if e.Brain.Disarm < g.cfg.Turret.DisarmTime {
		return false
	}
	destroyed := false
	g.withFrame(func(f *systems.Frame) {
		if e, ok := g.enemy(id); ok {
			destroyed = systems.Destroy(f, e.Actor, g.playerID)
		}
	})
	return destroyed
}

// Pause stops the simulation; Step becomes a no-op.
func (g *Game) Pause() { g.paused = true }

// Resume continues a paused simulation.
func (g *Game) Resume() { g.paused = false }

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool { return g.paused }

// forceKill removes an enemy administratively: no death routine, no loot, no kill credit.
func forceKill(f *systems.Frame, e systems.Enemy) bool {
	if !forceRemove(f, e.Actor) {
		return false
	}
	e.Brain.Mode = components.AIDead
	return true
}

// forceRemove marks a live actor dead and reports a forced death. Removal happens in the next
// frame's cleanup like any other death.
func forceRemove(f *systems.Frame, a *components.Actor) bool {
	if !a.Kill() {
		return false
	}
	ev := telemetry.NewDeathEvent(f.Tick, a, components.NoActor)
	ev.Forced = true
	f.Emit(ev)
	return true
}
