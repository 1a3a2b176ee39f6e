package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/telemetry"
)

func TestFireProjectile(t *testing.T) {
	f := newTestFrame(t)
	e := addTestEnemy(f, components.ArchRanged, r2.Vec{X: 500, Y: 500})

	id, ok := FireProjectile(f, e.Actor, ShotSpec{Dir: r2.Vec{Y: 2}, Speed: 300, Damage: 7})
	require.True(t, ok)

	items := f.Spawns.Drain()
	require.Len(t, items, 1)
	shot := items[0]
	assert.Equal(t, id, shot.Actor.ID)
	assert.Equal(t, components.ArchProjectile, shot.Actor.Archetype)
	assert.Equal(t, components.FactionEnemy, shot.Actor.Faction)
	assert.Equal(t, e.Actor.Center(), shot.Actor.Pos)
	assert.InDelta(t, 300, shot.Actor.Vel.Y, 1e-9)
	assert.Equal(t, f.Cfg.Projectile.Lifetime, shot.Projectile.Lifetime)

	fired := eventsOf(f, telemetry.EventShotFired)
	require.Len(t, fired, 1)
	assert.Equal(t, components.ArchRanged, fired[0].Archetype)
}

func TestFireProjectileRejectsBadDirection(t *testing.T) {
	f := newTestFrame(t)
	e := addTestEnemy(f, components.ArchRanged, r2.Vec{X: 500, Y: 500})

	for _, dir := range []r2.Vec{{}, {X: math.NaN()}, {X: math.Inf(1)}} {
		_, ok := FireProjectile(f, e.Actor, ShotSpec{Dir: dir, Speed: 300})
		assert.False(t, ok)
	}
	assert.Zero(t, f.Spawns.Len())
	assert.Empty(t, f.Events)
}

func TestProjectileLifetimeAndBounds(t *testing.T) {
	f := newTestFrame(t)
	player, _ := addTestPlayer(f, r2.Vec{X: 500, Y: 500})
	aging := addTestShot(f, player, r2.Vec{X: 600, Y: 600}, r2.Vec{X: 100}, 1)
	aging.Proj.Lifetime = f.DT / 2
	outside := addTestShot(f, player, r2.Vec{X: -100, Y: 600}, r2.Vec{X: -100}, 1)
	live := addTestShot(f, player, r2.Vec{X: 700, Y: 700}, r2.Vec{X: 100}, 1)

	NewProjectileSystem().Update(f)

	assert.True(t, aging.Actor.IsDead())
	assert.True(t, outside.Actor.IsDead())
	assert.False(t, live.Actor.IsDead())
	assert.InDelta(t, 1-f.DT, live.Proj.Lifetime, 1e-9)
}

func TestGuidedTurnIsRateLimited(t *testing.T) {
	f := newTestFrame(t)
	f.DT = 0.1
	turret := addTestEnemy(f, components.ArchTurret, r2.Vec{X: 100, Y: 100})
	player, _ := addTestPlayer(f, r2.Vec{X: 500, Y: 900})
	shot := addTestShot(f, turret.Actor, r2.Vec{X: 500, Y: 500}, r2.Vec{X: 200}, 1)
	shot.Proj.Guided = true
	shot.Proj.TargetID = player.ID
	shot.Proj.TurnRate = 1
	shot.Proj.Speed = 200

	NewProjectileSystem().Update(f)

	heading := math.Atan2(shot.Actor.Vel.Y, shot.Actor.Vel.X)
	assert.InDelta(t, 0.1, heading, 1e-9, "turns toward the target by at most rate*dt")
	assert.InDelta(t, 200, r2.Norm(shot.Actor.Vel), 1e-9)
}

func TestGuidedLosesDeadTarget(t *testing.T) {
	f := newTestFrame(t)
	turret := addTestEnemy(f, components.ArchTurret, r2.Vec{X: 100, Y: 100})
	player, _ := addTestPlayer(f, r2.Vec{X: 500, Y: 900})
	shot := addTestShot(f, turret.Actor, r2.Vec{X: 500, Y: 500}, r2.Vec{X: 200}, 1)
	shot.Proj.Guided = true
	shot.Proj.TargetID = player.ID
	shot.Proj.TurnRate = 10
	shot.Proj.Speed = 200
	player.Kill()

	NewProjectileSystem().Update(f)

	assert.Equal(t, r2.Vec{X: 200}, shot.Actor.Vel)
}

func TestProjectilesIgnoreEachOther(t *testing.T) {
	f := newTestFrame(t)
	player, _ := addTestPlayer(f, r2.Vec{X: 100, Y: 100})
	e := addTestEnemy(f, components.ArchRanged, r2.Vec{X: 900, Y: 900})
	ours := addTestShot(f, player, r2.Vec{X: 500, Y: 500}, r2.Vec{X: 300}, 5)
	theirs := addTestShot(f, e.Actor, r2.Vec{X: 502, Y: 500}, r2.Vec{X: -300}, 5)
	require.True(t, Overlaps(ours.Actor, theirs.Actor))
	require.True(t, ours.Proj.Faction.Opposes(theirs.Proj.Faction))

	NewCollisionSystem().Update(f)

	for _, s := range []Shot{ours, theirs} {
		assert.False(t, s.Actor.IsDead())
		assert.False(t, s.Proj.Spent)
		assert.Equal(t, s.Actor.MaxHealth, s.Actor.Health)
	}
	assert.Empty(t, eventsOf(f, telemetry.EventDamageDealt))
}
