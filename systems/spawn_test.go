package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/telemetry"
)

func TestSpawnRespectsPopulationCap(t *testing.T) {
	f := newTestFrame(t)
	f.Cfg.Population.Cap = 3
	addTestEnemy(f, components.ArchMelee, r2.Vec{X: 500, Y: 500})

	accepted := 0
	for range 5 {
		if _, ok := f.Spawner.Spawn(f, components.ArchMelee, SpawnOptions{}); ok {
			accepted++
		}
	}

	assert.Equal(t, 2, accepted, "one live plus two pending reaches the cap")
	assert.Equal(t, 2, f.Spawns.PendingEnemies())
	assert.Len(t, eventsOf(f, telemetry.EventSpawnRejected), 3)
}

func TestSpawnRejectsNonEnemies(t *testing.T) {
	f := newTestFrame(t)
	_, ok := f.Spawner.Spawn(f, components.ArchProjectile, SpawnOptions{})
	assert.False(t, ok)
	assert.Zero(t, f.Spawns.Len())
}

func TestSpawnPointBandAroundPlayer(t *testing.T) {
	f := newTestFrame(t)
	player, _ := addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	sc := f.Cfg.Spawn
	bounds := f.WorldBounds()

	for range 50 {
		p := f.Spawner.SpawnPoint(f)
		d := distance(p, player.Pos)
		assert.GreaterOrEqual(t, d, sc.MinDistance)
		assert.LessOrEqual(t, d, sc.MaxDistance+1e-9)
		assert.True(t, bounds.Contains(p))
	}
}

func TestSpawnPointWithoutPlayer(t *testing.T) {
	f := newTestFrame(t)
	bounds := f.WorldBounds()
	margin := f.Cfg.Spawn.EdgeMargin

	for range 50 {
		p := f.Spawner.SpawnPoint(f)
		assert.GreaterOrEqual(t, p.X, bounds.X+margin)
		assert.LessOrEqual(t, p.X, bounds.MaxX()-margin)
		assert.GreaterOrEqual(t, p.Y, bounds.Y+margin)
		assert.LessOrEqual(t, p.Y, bounds.MaxY()-margin)
	}
}

func TestBuildArchetypes(t *testing.T) {
	f := newTestFrame(t)
	pos := r2.Vec{X: 300, Y: 300}

	t.Run("turret", func(t *testing.T) {
		a, b := f.Spawner.Build(components.ArchTurret, pos, SpawnOptions{})
		assert.True(t, a.Immovable)
		assert.Zero(t, a.MoveSpeed)
		assert.Equal(t, components.TurretStates, a.AllowedStates)
		assert.Equal(t, components.FactionEnemy, a.Faction)
		assert.NotNil(t, b.Rng)
	})

	t.Run("tunneler", func(t *testing.T) {
		_, b := f.Spawner.Build(components.ArchTunneler, pos, SpawnOptions{})
		assert.Equal(t, f.Cfg.Tunneler.MagazineSize, b.Ammo)
	})

	t.Run("jitter stays in range", func(t *testing.T) {
		ac := f.Cfg.Archetype("melee")
		for range 50 {
			a, _ := f.Spawner.Build(components.ArchMelee, pos, SpawnOptions{})
			assert.InDelta(t, ac.MaxHealth, a.MaxHealth, ac.MaxHealth*ac.HealthJitter+1e-9)
			assert.InDelta(t, ac.MoveSpeed, a.MoveSpeed, ac.MoveSpeed*ac.SpeedJitter+1e-9)
			assert.Equal(t, a.MaxHealth, a.Health)
		}
	})

	t.Run("health scale", func(t *testing.T) {
		ac := f.Cfg.Archetype("tunneler")
		a, _ := f.Spawner.Build(components.ArchTunneler, pos, SpawnOptions{HealthScale: 1.5})
		assert.InDelta(t, ac.MaxHealth*1.5, a.MaxHealth, 1e-9)
	})

	t.Run("unique ids", func(t *testing.T) {
		a, _ := f.Spawner.Build(components.ArchMelee, pos, SpawnOptions{})
		b, _ := f.Spawner.Build(components.ArchMelee, pos, SpawnOptions{})
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestBuildPlayer(t *testing.T) {
	cfg := testConfig(t)
	a, fi := BuildPlayer(cfg, &components.IDAllocator{}, r2.Vec{X: 10, Y: 10})

	assert.Equal(t, components.FactionPlayer, a.Faction)
	assert.Equal(t, cfg.Player.StartingAmmo, fi.Resource)
	assert.Equal(t, cfg.Player.MaxAmmo, fi.MaxResource)
	assert.Equal(t, r2.Vec{X: 1}, fi.Facing)
}

func TestSampleRing(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	bounds := components.Rect{W: 1000, H: 1000}
	center := r2.Vec{X: 500, Y: 500}

	t.Run("within ring", func(t *testing.T) {
		for range 50 {
			p, ok := SampleRing(rng, center, 50, 100, r2.Vec{}, 0, bounds, 0, 1, nil)
			require.True(t, ok)
			d := distance(p, center)
			assert.GreaterOrEqual(t, d, 50-1e-9)
			assert.LessOrEqual(t, d, 100+1e-9)
		}
	})

	t.Run("fails when everything is avoided", func(t *testing.T) {
		_, ok := SampleRing(rng, center, 50, 100, center, 500, bounds, 0, 10, nil)
		assert.False(t, ok)
	})

	t.Run("clamped points stay outside the inner radius", func(t *testing.T) {
		nearWall := r2.Vec{X: 20, Y: 500}
		found := 0
		for range 200 {
			p, ok := SampleRing(rng, nearWall, 50, 100, r2.Vec{}, 0, bounds, 0, 1, nil)
			if !ok {
				continue
			}
			found++
			assert.GreaterOrEqual(t, distance(p, nearWall), 50-1e-9)
			assert.GreaterOrEqual(t, p.X, 0.0)
		}
		assert.Positive(t, found)
	})

	t.Run("honours walkable", func(t *testing.T) {
		leftOnly := func(p r2.Vec) bool { return p.X < center.X }
		for range 20 {
			if p, ok := SampleRing(rng, center, 50, 100, r2.Vec{}, 0, bounds, 0, 50, leftOnly); ok {
				assert.Less(t, p.X, center.X)
			}
		}
	})
}

func TestSpawnQueue(t *testing.T) {
	var q SpawnQueue
	q.Push(Pending{Actor: &components.Actor{}, Brain: &components.Brain{}})
	q.Push(Pending{Actor: &components.Actor{}, Projectile: &components.Projectile{}})

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 1, q.PendingEnemies())

	items := q.Drain()
	assert.Len(t, items, 2)
	assert.Zero(t, q.Len())
	assert.Zero(t, q.PendingEnemies())
}
