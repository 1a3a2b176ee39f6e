// Package game hosts the arena: the ECS world holding every actor, the fixed per-frame
// pipeline and the administrative commands used by scenes and debug tools.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/config"
	"github.com/pthm-cable/brawl/systems"
	"github.com/pthm-cable/brawl/telemetry"
)

// Game holds the complete arena state.
type Game struct {
	cfg  *config.Config
	opts Options
	rng  *rand.Rand

	world *ecs.World

	// Entity mappers, one per actor kind
	enemyMap  *ecs.Map2[components.Actor, components.Brain]
	playerMap *ecs.Map2[components.Actor, components.Fighter]
	shotMap   *ecs.Map2[components.Actor, components.Projectile]
	pickupMap *ecs.Map2[components.Actor, components.Pickup]
	staticMap *ecs.Map2[components.Actor, components.Obstacle]

	enemyFilter  *ecs.Filter2[components.Actor, components.Brain]
	playerFilter *ecs.Filter2[components.Actor, components.Fighter]
	shotFilter   *ecs.Filter2[components.Actor, components.Projectile]
	pickupFilter *ecs.Filter2[components.Actor, components.Pickup]
	staticFilter *ecs.Filter2[components.Actor, components.Obstacle]
	actorFilter  *ecs.Filter1[components.Actor]

	entities map[components.ActorID]ecs.Entity

	// Systems
	frame       *systems.Frame
	field       *OpenField
	playerSys   *systems.PlayerSystem
	aiSys       *systems.AISystem
	projectiles *systems.ProjectileSystem
	pickups     *systems.PickupSystem
	physics     *systems.PhysicsSystem
	collision   *systems.CollisionSystem
	waves       *systems.WaveDirector

	// Telemetry
	bus           telemetry.Bus
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	arrivals      []bool // Offspring flag of each enemy inserted since the last dispatch
	lastStats     telemetry.WaveStats

	// State
	tick        uint64
	paused      bool
	playerID    components.ActorID
	playerDied  bool
	runComplete bool
	removed     []ecs.Entity
}

// New creates an arena with the default open-field terrain and no actors.
func New(cfg *config.Config, opts Options) *Game {
	if opts.Seed == 0 {
		opts.Seed = DefaultOptions().Seed
	}
	if opts.PerfWindow <= 0 {
		opts.PerfWindow = DefaultOptions().PerfWindow
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	g := &Game{
		cfg:      cfg,
		opts:     opts,
		rng:      rng,
		world:    ecs.NewWorld(),
		entities: make(map[components.ActorID]ecs.Entity),
	}
	w := g.world

	g.enemyMap = ecs.NewMap2[components.Actor, components.Brain](w)
	g.playerMap = ecs.NewMap2[components.Actor, components.Fighter](w)
	g.shotMap = ecs.NewMap2[components.Actor, components.Projectile](w)
	g.pickupMap = ecs.NewMap2[components.Actor, components.Pickup](w)
	g.staticMap = ecs.NewMap2[components.Actor, components.Obstacle](w)

	g.enemyFilter = ecs.NewFilter2[components.Actor, components.Brain](w)
	g.playerFilter = ecs.NewFilter2[components.Actor, components.Fighter](w)
	g.shotFilter = ecs.NewFilter2[components.Actor, components.Projectile](w)
	g.pickupFilter = ecs.NewFilter2[components.Actor, components.Pickup](w)
	g.staticFilter = ecs.NewFilter2[components.Actor, components.Obstacle](w)
	g.actorFilter = ecs.NewFilter1[components.Actor](w)

	g.frame = systems.NewFrame(cfg, rng)
	g.field = NewOpenField(
		components.Rect{W: cfg.World.Width, H: cfg.World.Height},
		cfg.Spawn.EdgeMargin, cfg.Tunneler.PlacementTries, rng,
	)
	g.frame.Terrain = g.field

	g.playerSys = systems.NewPlayerSystem()
	g.aiSys = systems.NewAISystem()
	g.projectiles = systems.NewProjectileSystem()
	g.pickups = systems.NewPickupSystem()
	g.physics = systems.NewPhysicsSystem(w)
	g.collision = systems.NewCollisionSystem()
	g.waves = systems.NewWaveDirector(cfg, rng)

	g.collector = telemetry.NewCollector(cfg.Frame.DT, cfg.Telemetry.DamageSamples)
	g.perf = telemetry.NewPerfCollector(opts.PerfWindow)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	return g
}

// SetTerrain replaces the world collaborator. Nil restores the default open field.
func (g *Game) SetTerrain(t systems.Terrain) {
	if t == nil {
		g.frame.Terrain = g.field
		return
	}
	g.frame.Terrain = t
}

// SetEffects installs the visual/audio hooks. Nil disables them. A headless arena keeps
// running without hooks.
func (g *Game) SetEffects(e *systems.Effects) {
	if g.opts.Headless && e != nil {
		slog.Debug("effects_ignored", "reason", "headless")
		return
	}
	g.frame.Effects = e
}

// Subscribe registers fn for every event the arena produces.
func (g *Game) Subscribe(fn func(telemetry.Event)) {
	g.bus.Subscribe(fn)
}

// SpawnPlayer places the player. Only one player may exist; a second call returns the
// existing player's id.
func (g *Game) SpawnPlayer(pos r2.Vec) components.ActorID {
	if g.playerID != components.NoActor {
		if _, ok := g.entities[g.playerID]; ok {
			slog.Debug("player_exists", "id", g.playerID)
			return g.playerID
		}
	}
	actor, fighter := systems.BuildPlayer(g.cfg, g.frame.IDs, pos)
	g.entities[actor.ID] = g.playerMap.NewEntity(&actor, &fighter)
	g.playerID = actor.ID
	g.playerDied = false
	g.collect()
	return actor.ID
}

// SpawnStatic places an immovable obstacle of the given size centred on pos. The default
// terrain treats it as solid.
func (g *Game) SpawnStatic(pos, size r2.Vec) components.ActorID {
	actor := systems.BuildStatic(g.cfg, g.frame.IDs, pos, size)
	obstacle := components.Obstacle{Size: actor.Bounds}
	g.entities[actor.ID] = g.staticMap.NewEntity(&actor, &obstacle)
	g.field.Block(actor.WorldBounds())
	g.collect()
	return actor.ID
}

// Snapshots returns the render view of every actor in the current frame, including actors
// that died this frame.
func (g *Game) Snapshots() []components.Snapshot {
	out := make([]components.Snapshot, 0, len(g.frame.Actors))
	for _, a := range g.frame.Actors {
		out = append(out, a.Snapshot())
	}
	return out
}

// Player returns the player's snapshot.
func (g *Game) Player() (components.Snapshot, bool) {
	if g.frame.Player == nil {
		return components.Snapshot{}, false
	}
	return g.frame.Player.Snapshot(), true
}

// Ammo returns the player's charge-shot resource.
func (g *Game) Ammo() (current, maxAmmo int) {
	if g.frame.Fighter == nil {
		return 0, 0
	}
	return g.frame.Fighter.Resource, g.frame.Fighter.MaxResource
}

// Wave returns the wave director's status.
func (g *Game) Wave() systems.WaveStatus {
	return g.waves.Status(g.frame.LiveEnemies())
}

// LastWaveStats returns the stats of the most recently finished wave.
func (g *Game) LastWaveStats() telemetry.WaveStats {
	return g.lastStats
}

// Tick returns the number of simulated frames.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Over reports whether the run has ended, either by the player dying or the final wave
// being cleared.
func (g *Game) Over() bool {
	return g.playerDied || g.runComplete
}

// Config returns the arena configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Unload releases output files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
