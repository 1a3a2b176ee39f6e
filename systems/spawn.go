package systems

import (
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/config"
	"github.com/pthm-cable/brawl/telemetry"
)

// Pending is an actor waiting to enter the world. Exactly one of the extension pointers is set
// for player, enemy, projectile and pickup actors; none for statics.
type Pending struct {
	Actor      *components.Actor
	Brain      *components.Brain
	Fighter    *components.Fighter
	Projectile *components.Projectile
	Pickup     *components.Pickup
}

// SpawnQueue collects actors created during a frame. The owner drains it between frames so
// nothing is added to the world while systems iterate.
type SpawnQueue struct {
	items   []Pending
	enemies int
}

// Push queues an actor.
func (q *SpawnQueue) Push(p Pending) {
	q.items = append(q.items, p)
	if p.Brain != nil {
		q.enemies++
	}
}

// Len returns the number of queued actors.
func (q *SpawnQueue) Len() int { return len(q.items) }

// PendingEnemies returns the number of queued enemies. They count against the population cap.
func (q *SpawnQueue) PendingEnemies() int { return q.enemies }

// Drain hands over every queued actor and empties the queue.
func (q *SpawnQueue) Drain() []Pending {
	items := q.items
	q.items = nil
	q.enemies = 0
	return items
}

// SpawnOptions adjusts a single spawn. Zero values mean "use configured defaults".
type SpawnOptions struct {
	Pos         *r2.Vec // Nil picks a spawn point around the player
	Offspring   bool    // Spawned by another enemy rather than the wave
	IsChild     bool    // Splitter lineage flag
	HealthScale float64 // Multiplies configured max health
	MaxHealth   float64 // Absolute override, wins over HealthScale
	MoveSpeed   float64
	SizeScale   float64
}

// SpawnDirector builds enemies from configuration and enforces the population cap.
type SpawnDirector struct {
	cfg *config.Config
	ids *components.IDAllocator
	rng *rand.Rand
}

// NewSpawnDirector creates a spawn director.
func NewSpawnDirector(cfg *config.Config, ids *components.IDAllocator, rng *rand.Rand) *SpawnDirector {
	return &SpawnDirector{cfg: cfg, ids: ids, rng: rng}
}

// Spawn queues a new enemy. Requests that would push live plus pending enemies past the cap are
// dropped and reported.
func (d *SpawnDirector) Spawn(f *Frame, arch components.Archetype, opts SpawnOptions) (components.ActorID, bool) {
	if !arch.IsEnemy() {
		warnOnce("spawn_rejected", arch.String())
		return components.NoActor, false
	}
	if limit := d.cfg.Population.Cap; f.LiveEnemies()+f.Spawns.PendingEnemies() >= limit {
		f.Emit(telemetry.Event{Type: telemetry.EventSpawnRejected, Archetype: arch})
		slog.Debug("population_cap_reached", "archetype", arch.String(), "cap", limit, "offspring", opts.Offspring)
		return components.NoActor, false
	}

	var pos r2.Vec
	if opts.Pos != nil {
		pos = *opts.Pos
	} else {
		pos = d.SpawnPoint(f)
	}
	actor, brain := d.Build(arch, pos, opts)
	f.Spawns.Push(Pending{Actor: &actor, Brain: &brain})
	return actor.ID, true
}

// SpawnPoint picks a location in the band around the player, or anywhere inside the world when
// there is no player.
func (d *SpawnDirector) SpawnPoint(f *Frame) r2.Vec {
	sc := d.cfg.Spawn
	bounds := f.WorldBounds()
	var walkable func(r2.Vec) bool
	if f.Terrain != nil {
		walkable = f.Terrain.IsPositionWalkable
	}
	if f.PlayerAlive() {
		c := f.Player.Pos
		if p, ok := SampleRing(d.rng, c, sc.MinDistance, sc.MaxDistance, c, sc.MinDistance, bounds, sc.EdgeMargin, d.cfg.Tunneler.PlacementTries, walkable); ok {
			return p
		}
	}
	p := r2.Vec{
		X: bounds.X + d.rng.Float64()*bounds.W,
		Y: bounds.Y + d.rng.Float64()*bounds.H,
	}
	return bounds.Clamp(p, sc.EdgeMargin)
}

// Build creates an enemy actor and brain without queueing it.
func (d *SpawnDirector) Build(arch components.Archetype, pos r2.Vec, opts SpawnOptions) (components.Actor, components.Brain) {
	ac := d.cfg.Archetype(arch.String())
	rng := rand.New(rand.NewSource(d.rng.Int63()))

	maxHealth := ac.MaxHealth * jitter(rng, ac.HealthJitter)
	if opts.HealthScale > 0 {
		maxHealth *= opts.HealthScale
	}
	if opts.MaxHealth > 0 {
		maxHealth = opts.MaxHealth
	}
	speed := ac.MoveSpeed * jitter(rng, ac.SpeedJitter)
	if opts.MoveSpeed > 0 {
		speed = opts.MoveSpeed
	}
	bounds := rectOf(ac.Bounds)
	if opts.SizeScale > 0 {
		bounds = bounds.Scale(opts.SizeScale)
	}

	a := components.NewActor(d.ids.Next(), arch, pos, maxHealth, bounds)
	applyPhysics(&a, ac)
	a.MoveSpeed = speed

	b := components.Brain{
		Mode:             components.AIIdle,
		Aggressiveness:   ac.Aggressiveness,
		AggroRange:       ac.AggroRange,
		DecisionInterval: ac.DecisionInterval,
		SeparationRadius: ac.SeparationRadius,
		ContactDamage:    ac.ContactDamage,
		ContactCooldown:  ac.ContactCooldown,
		ContactKnockback: ac.ContactKnockback,
		DropChance:       ac.DropChance,
		IsChild:          opts.IsChild,
		Offspring:        opts.Offspring,
		Rng:              rng,
	}
	// Stagger first decisions so a wave does not think in lockstep
	b.Timers.Set(components.TimerDecision, rng.Float64()*ac.DecisionInterval)

	switch arch {
	case components.ArchTurret:
		a.Immovable = true
		a.AllowedStates = components.TurretStates
		a.MoveSpeed = 0
	case components.ArchTunneler:
		b.Ammo = d.cfg.Tunneler.MagazineSize
	}
	return a, b
}

// BuildPlayer creates the player actor and its combat state.
func BuildPlayer(cfg *config.Config, ids *components.IDAllocator, pos r2.Vec) (components.Actor, components.Fighter) {
	ac := cfg.Archetype(components.ArchPlayer.String())
	a := components.NewActor(ids.Next(), components.ArchPlayer, pos, ac.MaxHealth, rectOf(ac.Bounds))
	applyPhysics(&a, ac)
	a.MoveSpeed = ac.MoveSpeed
	return a, components.Fighter{
		Resource:    min(cfg.Player.StartingAmmo, cfg.Player.MaxAmmo),
		MaxResource: cfg.Player.MaxAmmo,
		Facing:      r2.Vec{X: 1},
	}
}

// BuildStatic creates an immovable obstacle. A zero size uses the configured static bounds.
func BuildStatic(cfg *config.Config, ids *components.IDAllocator, pos r2.Vec, size r2.Vec) components.Actor {
	ac := cfg.Archetype(components.ArchStatic.String())
	bounds := rectOf(ac.Bounds)
	if size.X > 0 && size.Y > 0 {
		bounds = components.Rect{X: -size.X / 2, Y: -size.Y / 2, W: size.X, H: size.Y}
	}
	a := components.NewActor(ids.Next(), components.ArchStatic, pos, ac.MaxHealth, bounds)
	a.Friction = 0
	a.Immovable = true
	a.State = components.StateStatic
	a.AllowedStates = components.MaskOf(components.StateStatic, components.StateDead)
	return a
}

// SampleRing draws up to tries points at distance [minR, maxR] from center, clamped inside
// bounds, and returns the first one that still lies outside minR, keeps avoidR away from avoid
// and passes walkable.
func SampleRing(rng *rand.Rand, center r2.Vec, minR, maxR float64, avoid r2.Vec, avoidR float64,
	bounds components.Rect, margin float64, tries int, walkable func(r2.Vec) bool) (r2.Vec, bool) {
	if maxR < minR {
		minR, maxR = maxR, minR
	}
	tries = max(tries, 1)
	for range tries {
		angle := rng.Float64() * 2 * math.Pi
		r := minR + rng.Float64()*(maxR-minR)
		p := r2.Add(center, r2.Vec{X: math.Cos(angle) * r, Y: math.Sin(angle) * r})
		p = bounds.Clamp(p, margin)
		// Clamping against a wall can pull the point inside the ring
		if distance(p, center) < minR-1e-9 {
			continue
		}
		if avoidR > 0 && distance(p, avoid) < avoidR {
			continue
		}
		if walkable != nil && !walkable(p) {
			continue
		}
		return p, true
	}
	return r2.Vec{}, false
}

func applyPhysics(a *components.Actor, ac *config.ArchetypeConfig) {
	a.Friction = ac.Friction
	a.Gravity = ac.Gravity
	a.MaxVel = r2.Vec{X: ac.MaxVelocity.X, Y: ac.MaxVelocity.Y}
}

func rectOf(r config.RectConfig) components.Rect {
	return components.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}.Canon()
}

// jitter returns a multiplier in [1-j, 1+j].
func jitter(rng *rand.Rand, j float64) float64 {
	if j <= 0 {
		return 1
	}
	return 1 + (rng.Float64()*2-1)*j
}
