package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/config"
	"github.com/pthm-cable/brawl/telemetry"
)

// Enemy pairs an enemy actor with its decision state.
type Enemy struct {
	Actor *components.Actor
	Brain *components.Brain
}

// Shot pairs a projectile actor with its payload.
type Shot struct {
	Actor *components.Actor
	Proj  *components.Projectile
}

// Drop pairs a pickup actor with its contents.
type Drop struct {
	Actor  *components.Actor
	Pickup *components.Pickup
}

// Frame is the working set for one simulation step. Component pointers stay valid for the
// whole frame because entities are only created or removed between frames.
type Frame struct {
	Cfg  *config.Config
	DT   float64 // Simulation delta after hit-stop scaling
	Tick uint64

	Input   Input
	Terrain Terrain
	Effects *Effects
	HitStop *HitStop
	Spawner *SpawnDirector
	Spawns  *SpawnQueue
	IDs     *components.IDAllocator
	Rng     *rand.Rand

	Player  *components.Actor
	Fighter *components.Fighter

	Actors      []*components.Actor // Every live actor, including the player
	Enemies     []Enemy
	Projectiles []Shot
	Pickups     []Drop

	Grid   *SpatialGrid
	Events []telemetry.Event

	byID          map[components.ActorID]*components.Actor
	brains        map[components.ActorID]*components.Brain
	gridDirty     bool
	nearbyScratch []Neighbor
	scratch       []*components.Actor
}

// NewFrame returns an empty frame. Collections are reused across frames via Reset.
func NewFrame(cfg *config.Config, rng *rand.Rand) *Frame {
	ids := &components.IDAllocator{}
	return &Frame{
		Cfg:     cfg,
		DT:      cfg.Frame.DT,
		HitStop: NewHitStop(cfg.HitStop),
		Spawner: NewSpawnDirector(cfg, ids, rng),
		Spawns:  &SpawnQueue{},
		IDs:     ids,
		Rng:     rng,
		Grid:    NewSpatialGrid(cfg.World.Width, cfg.World.Height, 64),
		byID:    make(map[components.ActorID]*components.Actor),
		brains:  make(map[components.ActorID]*components.Brain),
	}
}

// Reset clears all per-frame collections while keeping collaborators and allocations.
func (f *Frame) Reset(dt float64, tick uint64) {
	f.DT = dt
	f.Tick = tick
	f.Events = f.Events[:0]
	f.ClearActors()
}

// ClearActors drops every registered actor but keeps the frame's events, so the frame can be
// re-collected after the world changed structurally.
func (f *Frame) ClearActors() {
	f.Player = nil
	f.Fighter = nil
	f.Actors = f.Actors[:0]
	f.Enemies = f.Enemies[:0]
	f.Projectiles = f.Projectiles[:0]
	f.Pickups = f.Pickups[:0]
	clear(f.byID)
	clear(f.brains)
}

// AddPlayer registers the player actor.
func (f *Frame) AddPlayer(a *components.Actor, fighter *components.Fighter) {
	f.Player = a
	f.Fighter = fighter
	f.add(a)
}

// AddEnemy registers an enemy actor.
func (f *Frame) AddEnemy(a *components.Actor, b *components.Brain) {
	f.Enemies = append(f.Enemies, Enemy{Actor: a, Brain: b})
	f.brains[a.ID] = b
	f.add(a)
}

// AddProjectile registers a projectile actor.
func (f *Frame) AddProjectile(a *components.Actor, p *components.Projectile) {
	f.Projectiles = append(f.Projectiles, Shot{Actor: a, Proj: p})
	f.add(a)
}

// AddPickup registers a pickup actor.
func (f *Frame) AddPickup(a *components.Actor, p *components.Pickup) {
	f.Pickups = append(f.Pickups, Drop{Actor: a, Pickup: p})
	f.add(a)
}

// AddStatic registers a static obstacle.
func (f *Frame) AddStatic(a *components.Actor) {
	f.add(a)
}

func (f *Frame) add(a *components.Actor) {
	f.Actors = append(f.Actors, a)
	f.byID[a.ID] = a
	f.gridDirty = true
}

// Actor looks up an actor registered this frame.
func (f *Frame) Actor(id components.ActorID) *components.Actor {
	return f.byID[id]
}

// Brain returns the decision state of an enemy registered this frame.
func (f *Frame) Brain(id components.ActorID) *components.Brain {
	return f.brains[id]
}

// PlayerAlive reports whether a living player is present.
func (f *Frame) PlayerAlive() bool {
	return f.Player != nil && !f.Player.IsDead()
}

// LiveEnemies counts enemies that have not died.
func (f *Frame) LiveEnemies() int {
	n := 0
	for _, e := range f.Enemies {
		if !e.Actor.IsDead() {
			n++
		}
	}
	return n
}

// Emit queues an event for dispatch at the end of the frame.
func (f *Frame) Emit(ev telemetry.Event) {
	ev.Tick = f.Tick
	f.Events = append(f.Events, ev)
}

// WorldBounds returns the terrain-reported bounds, or the configured rectangle.
func (f *Frame) WorldBounds() components.Rect {
	if f.Terrain != nil {
		if r, ok := f.Terrain.LoadedWorldBounds(); ok {
			return r
		}
	}
	return components.Rect{W: f.Cfg.World.Width, H: f.Cfg.World.Height}
}

// RebuildGrid indexes every collidable actor for neighbour queries.
func (f *Frame) RebuildGrid() {
	f.Grid.Clear()
	f.gridDirty = false
	for i, a := range f.Actors {
		if a.IsDead() || !a.Collidable {
			continue
		}
		f.Grid.Insert(i, a.Center())
	}
}

// Nearby returns actors whose centers are within radius of p, excluding exclude.
func (f *Frame) Nearby(dst []*components.Actor, p r2.Vec, radius float64, exclude components.ActorID) []*components.Actor {
	if f.gridDirty {
		f.RebuildGrid()
	}
	f.nearbyScratch = f.Grid.QueryRadiusInto(f.nearbyScratch[:0], p, radius, func(i int) r2.Vec {
		return f.Actors[i].Center()
	})
	for _, n := range f.nearbyScratch {
		a := f.Actors[n.Index]
		if a.ID == exclude || a.IsDead() {
			continue
		}
		dst = append(dst, a)
	}
	return dst
}

// neighbors is Nearby into a scratch slice owned by the frame. The result is only valid until
// the next call.
func (f *Frame) neighbors(p r2.Vec, radius float64, exclude components.ActorID) []*components.Actor {
	f.scratch = f.Nearby(f.scratch[:0], p, radius, exclude)
	return f.scratch
}

// FindPositionNear asks the terrain for a placement, falling back to ring sampling inside the
// world bounds when no terrain is attached.
func (f *Frame) FindPositionNear(center r2.Vec, minR, maxR float64, avoid r2.Vec, avoidR float64) (r2.Vec, bool) {
	if f.Terrain != nil {
		return f.Terrain.FindValidPositionNear(center, minR, maxR, avoid, avoidR)
	}
	return SampleRing(f.Rng, center, minR, maxR, avoid, avoidR, f.WorldBounds(), f.Cfg.Spawn.EdgeMargin, f.Cfg.Tunneler.PlacementTries, nil)
}
