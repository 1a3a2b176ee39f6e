package game

import (
	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/systems"
	"github.com/pthm-cable/brawl/telemetry"
)

// Step advances the arena by one frame of realDT seconds. Non-positive deltas use the fixed
// step; larger deltas are clamped to the configured maximum. A paused arena does nothing.
func (g *Game) Step(in systems.Input, realDT float64) {
	if g.paused {
		return
	}
	if realDT <= 0 {
		realDT = g.cfg.Frame.DT
	}
	if maxDT := g.cfg.Frame.MaxDT; maxDT > 0 && realDT > maxDT {
		realDT = maxDT
	}
	if in == nil {
		in = systems.InputSnapshot{}
	}
	f := g.frame

	g.perf.StartTick()

	// 1. Remove what died last frame
	g.perf.StartPhase(telemetry.PhaseCleanup)
	g.cleanupDead()
	f.Reset(realDT*f.HitStop.Scale(), g.tick)
	g.collect()
	f.Input = in

	// 2. Player controller
	g.perf.StartPhase(telemetry.PhaseInput)
	g.playerSys.Update(f)

	// 3. Projectiles, pickups, enemy decisions
	g.perf.StartPhase(telemetry.PhaseAI)
	g.projectiles.Update(f)
	g.pickups.Update(f)
	g.aiSys.Update(f)

	// 4. Integrate
	g.perf.StartPhase(telemetry.PhasePhysics)
	g.physics.Update(f.WorldBounds(), f.DT)

	// 5. Contacts, hits, separation
	g.perf.StartPhase(telemetry.PhaseCollision)
	g.collision.Update(f)

	// 6. Insert what the frame spawned so the wave director sees it
	g.perf.StartPhase(telemetry.PhaseDeaths)
	g.flush()

	// 7. Waves
	g.perf.StartPhase(telemetry.PhaseWaves)
	g.waves.Update(f)
	g.flush()

	// 8. Fan out events
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.dispatch()

	f.HitStop.Update(realDT)
	g.tick++
	g.perf.EndTick()
}

// collect rebuilds the frame's actor view from the world. Must run after every structural
// change because inserting entities may move component storage.
func (g *Game) collect() {
	f := g.frame
	f.ClearActors()

	pq := g.playerFilter.Query()
	for pq.Next() {
		a, fi := pq.Get()
		f.AddPlayer(a, fi)
	}

	eq := g.enemyFilter.Query()
	for eq.Next() {
		a, b := eq.Get()
		f.AddEnemy(a, b)
	}

	sq := g.shotFilter.Query()
	for sq.Next() {
		a, p := sq.Get()
		f.AddProjectile(a, p)
	}

	kq := g.pickupFilter.Query()
	for kq.Next() {
		a, p := kq.Get()
		f.AddPickup(a, p)
	}

	oq := g.staticFilter.Query()
	for oq.Next() {
		a, _ := oq.Get()
		f.AddStatic(a)
	}
}

// flush inserts queued spawns into the world and re-collects the frame.
func (g *Game) flush() {
	items := g.frame.Spawns.Drain()
	if len(items) == 0 {
		return
	}
	for _, p := range items {
		switch {
		case p.Brain != nil:
			g.entities[p.Actor.ID] = g.enemyMap.NewEntity(p.Actor, p.Brain)
			g.arrivals = append(g.arrivals, p.Brain.Offspring)
		case p.Projectile != nil:
			g.entities[p.Actor.ID] = g.shotMap.NewEntity(p.Actor, p.Projectile)
		case p.Pickup != nil:
			g.entities[p.Actor.ID] = g.pickupMap.NewEntity(p.Actor, p.Pickup)
		case p.Fighter != nil:
			g.entities[p.Actor.ID] = g.playerMap.NewEntity(p.Actor, p.Fighter)
		}
	}
	g.collect()
}

// cleanupDead removes actors that died in a previous frame.
func (g *Game) cleanupDead() {
	// First pass: collect dead entities (must complete before modifying)
	g.removed = g.removed[:0]
	query := g.actorFilter.Query()
	for query.Next() {
		a := query.Get()
		if !a.IsDead() || a.ID == g.playerID {
			continue
		}
		g.removed = append(g.removed, query.Entity())
		delete(g.entities, a.ID)
	}

	// Second pass: remove entities (query iteration complete)
	for _, e := range g.removed {
		g.world.RemoveEntity(e)
	}
}

// dispatch folds the frame's events into telemetry and wave bookkeeping, then publishes them
// to subscribers.
func (g *Game) dispatch() {
	events := g.frame.Events
	for _, ev := range events {
		g.collector.Record(ev)
		g.waves.OnEvent(ev)

		switch ev.Type {
		case telemetry.EventWaveStarted:
			g.collector.BeginWave(ev.Wave, g.waves.Status(0).Boss, ev.Tick)
		case telemetry.EventWaveEnded:
			g.finishWave(ev.Tick)
		case telemetry.EventPlayerDied:
			g.playerDied = true
		case telemetry.EventRunComplete:
			g.runComplete = true
		}
	}
	for _, offspring := range g.arrivals {
		g.collector.RecordSpawn(offspring)
	}
	g.arrivals = g.arrivals[:0]

	g.bus.Publish(events)
	g.frame.Events = events[:0]
}

// playerHealth returns the player's current health, 0 without a player.
func (g *Game) playerHealth() float64 {
	if g.frame.Player == nil {
		return 0
	}
	return g.frame.Player.Health
}

// enemy looks up a live enemy registered in the current frame.
func (g *Game) enemy(id components.ActorID) (systems.Enemy, bool) {
	a := g.frame.Actor(id)
	b := g.frame.Brain(id)
	if a == nil || b == nil {
		return systems.Enemy{}, false
	}
	return systems.Enemy{Actor: a, Brain: b}, true
}
