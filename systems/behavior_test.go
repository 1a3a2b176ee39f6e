package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
)

// engagedEnemy puts an enemy in pursuit with its next decision far away.
func engagedEnemy(f *Frame, arch components.Archetype, pos r2.Vec) Enemy {
	e := addTestEnemy(f, arch, pos)
	e.Brain.Mode = components.AIPursuing
	e.Brain.Timers.Set(components.TimerDecision, 10)
	return e
}

func TestRangedRetreatsDirectlyAway(t *testing.T) {
	tests := []struct {
		name   string
		offset r2.Vec
	}{
		{name: "east", offset: r2.Vec{X: 100}},
		{name: "diagonal", offset: r2.Vec{X: 60, Y: -80}},
		{name: "just inside", offset: r2.Vec{Y: 150}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFrame(t)
			player, _ := addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
			e := engagedEnemy(f, components.ArchRanged, r2.Add(player.Pos, tc.offset))
			require.Less(t, r2.Norm(tc.offset), f.Cfg.Ranged.RetreatDistance)

			NewAISystem().Update(f)

			want := r2.Unit(tc.offset)
			got := r2.Unit(e.Actor.Vel)
			assert.InDelta(t, want.X, got.X, 1e-9)
			assert.InDelta(t, want.Y, got.Y, 1e-9)
			assert.InDelta(t, e.Actor.MoveSpeed, r2.Norm(e.Actor.Vel), 1e-9)
		})
	}
}

func TestRangedHoldsAndFiresInBand(t *testing.T) {
	f := newTestFrame(t)
	addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	e := engagedEnemy(f, components.ArchRanged, r2.Vec{X: 1450, Y: 800})

	NewAISystem().Update(f)

	assert.Equal(t, r2.Vec{}, e.Actor.Vel)
	assert.Equal(t, components.StateAttacking, e.Actor.State)
	assert.Equal(t, components.AIAttacking, e.Brain.Mode)

	items := f.Spawns.Drain()
	require.Len(t, items, 1)
	shot := items[0]
	require.NotNil(t, shot.Projectile)
	assert.Equal(t, components.FactionEnemy, shot.Projectile.Faction)
	assert.Equal(t, e.Actor.ID, shot.Projectile.OwnerID)
	assert.Less(t, shot.Actor.Vel.X, 0.0, "fires toward the player")
	assert.InDelta(t, f.Cfg.Ranged.FireCooldown, e.Brain.Timers.Left(components.TimerAttack), 1e-9)
}

func TestRangedEscapesWhenCornered(t *testing.T) {
	f := newTestFrame(t)
	player, _ := addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	e := engagedEnemy(f, components.ArchRanged, r2.Vec{X: 1240, Y: 800})
	before := e.Actor.Pos

	NewAISystem().Update(f)

	assert.NotEqual(t, before, e.Actor.Pos)
	assert.GreaterOrEqual(t, distance(e.Actor.Pos, player.Pos), f.Cfg.Ranged.RetreatDistance)
	assert.InDelta(t, f.Cfg.Ranged.EscapeCooldown, e.Brain.Timers.Left(components.TimerSpecial), 1e-9)
}

func TestMeleePursuesAtMoveSpeed(t *testing.T) {
	f := newTestFrame(t)
	player, _ := addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	e := engagedEnemy(f, components.ArchMelee, r2.Vec{X: 900, Y: 800})

	NewAISystem().Update(f)

	assert.Greater(t, r2.Dot(e.Actor.Vel, r2.Sub(player.Pos, e.Actor.Pos)), 0.0)
	assert.InDelta(t, e.Actor.MoveSpeed, r2.Norm(e.Actor.Vel), 1e-9)
	assert.Equal(t, components.AIPursuing, e.Brain.Mode)
}

func TestMeleeEntersAttackInRange(t *testing.T) {
	f := newTestFrame(t)
	addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	e := engagedEnemy(f, components.ArchMelee, r2.Vec{X: 1220, Y: 800})

	NewAISystem().Update(f)

	assert.Equal(t, components.AIAttacking, e.Brain.Mode)
	assert.Equal(t, components.StateAttacking, e.Actor.State)
}

func TestEnemyDodgesIncomingShot(t *testing.T) {
	f := newTestFrame(t)
	player, _ := addTestPlayer(f, r2.Vec{X: 1000, Y: 400})
	e := engagedEnemy(f, components.ArchMelee, r2.Vec{X: 1000, Y: 800})
	addTestShot(f, player, r2.Vec{X: 900, Y: 800}, r2.Vec{X: 600}, 10)

	NewAISystem().Update(f)

	require.Greater(t, e.Brain.Timers.Left(components.TimerEvade), 0.0)
	dir := r2.Unit(e.Actor.Vel)
	assert.InDelta(t, 0, dir.X, 1e-9, "sidestep is perpendicular to the shot")
	assert.InDelta(t, e.Actor.MoveSpeed*f.Cfg.AI.DodgeSpeedFactor, r2.Norm(e.Actor.Vel), 1e-9)
	assert.InDelta(t, f.Cfg.AI.DodgeCooldown, e.Brain.Timers.Left(components.TimerDodge), 1e-9)
}

func TestSeparationPushesApart(t *testing.T) {
	f := newTestFrame(t)
	a := addTestEnemy(f, components.ArchMelee, r2.Vec{X: 500, Y: 500})
	addTestEnemy(f, components.ArchMelee, r2.Vec{X: 520, Y: 500})

	push := separation(f, a)

	assert.Less(t, push.X, 0.0)
}

func TestStunnedEnemySkipsDecisions(t *testing.T) {
	f := newTestFrame(t)
	addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	e := engagedEnemy(f, components.ArchMelee, r2.Vec{X: 900, Y: 800})
	e.Actor.Stun(1)
	e.Actor.Vel = r2.Vec{X: -50}
	e.Brain.Timers.Set(components.TimerAttack, 1)

	NewAISystem().Update(f)

	assert.Equal(t, r2.Vec{X: -50}, e.Actor.Vel)
	assert.Equal(t, components.AIStunned, e.Brain.Mode)
	assert.InDelta(t, 1-f.DT, e.Brain.Timers.Left(components.TimerAttack), 1e-9, "timers still decay")
}

func TestWanderRepeatsOrSwitches(t *testing.T) {
	f := newTestFrame(t)
	e := addTestEnemy(f, components.ArchMelee, r2.Vec{X: 500, Y: 500})
	e.Brain.Timers.Set(components.TimerDecision, 10)
	sys := NewAISystem()

	seen := map[components.AIState]bool{}
	for range 400 {
		e.Brain.Timers.Set(components.TimerBehavior, 0)
		sys.Update(f)
		seen[e.Brain.Mode] = true
		if e.Brain.Mode == components.AIWandering {
			assert.InDelta(t, e.Actor.MoveSpeed*f.Cfg.AI.WanderSpeedFactor, r2.Norm(e.Actor.Vel), 1e-9)
		}
	}
	assert.True(t, seen[components.AIWandering])
	assert.True(t, seen[components.AIIdle])
	assert.False(t, seen[components.AIPursuing], "no player to pursue")
}

func TestTurretCannotBeDamaged(t *testing.T) {
	f := newTestFrame(t)
	player, _ := addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	turret := addTestEnemy(f, components.ArchTurret, r2.Vec{X: 1300, Y: 800})

	dealt, died := ApplyDamage(f, turret.Actor, 1000, player.ID)

	assert.Zero(t, dealt)
	assert.False(t, died)
	assert.Equal(t, turret.Actor.MaxHealth, turret.Actor.Health)
	assert.Empty(t, f.Events)

	turret.Actor.ApplyKnockback(r2.Vec{X: 1}, 500)
	assert.Equal(t, r2.Vec{}, turret.Actor.Vel)
}

func TestTurretFiresGuidedInRange(t *testing.T) {
	f := newTestFrame(t)
	player, _ := addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	turret := addTestEnemy(f, components.ArchTurret, r2.Vec{X: 1400, Y: 800})

	NewAISystem().Update(f)

	assert.Equal(t, components.StateAttacking, turret.Actor.State)
	items := f.Spawns.Drain()
	require.Len(t, items, 1)
	assert.True(t, items[0].Projectile.Guided)
	assert.Equal(t, player.ID, items[0].Projectile.TargetID)

	// Out of range: back to idle, never moves
	player.Pos = r2.Vec{X: 100, Y: 100}
	turret.Brain.Timers.Set(components.TimerAttack, 0)
	NewAISystem().Update(f)
	assert.Equal(t, components.StateIdle, turret.Actor.State)
	assert.Zero(t, f.Spawns.Len())
	assert.Equal(t, r2.Vec{}, turret.Actor.Vel)
}

func TestTunnelerBurrowsAndResurfaces(t *testing.T) {
	f := newTestFrame(t)
	f.Cfg.Tunneler.TurretChance = 1
	player, _ := addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	e := addTestEnemy(f, components.ArchTunneler, r2.Vec{X: 1300, Y: 800})
	sys := NewAISystem()

	sys.Update(f)

	require.True(t, e.Brain.Hidden)
	assert.False(t, e.Actor.Collidable)
	assert.Equal(t, components.StateTunneling, e.Actor.State)
	assert.True(t, e.Actor.Snapshot().Hidden)

	e.Brain.Timers.Set(components.TimerPhase, 0)
	sys.Update(f)

	assert.False(t, e.Brain.Hidden)
	assert.True(t, e.Actor.Collidable)
	assert.GreaterOrEqual(t, distance(e.Actor.Pos, player.Pos), f.Cfg.Tunneler.AvoidRadius)

	turrets := pendingEnemies(f.Spawns.Drain())
	require.Len(t, turrets, f.Cfg.Tunneler.TurretCount)
	for _, p := range turrets {
		assert.Equal(t, components.ArchTurret, p.Actor.Archetype)
		assert.True(t, p.Brain.Offspring)
	}
}

func TestTunnelerMagazineReloads(t *testing.T) {
	f := newTestFrame(t)
	addTestPlayer(f, r2.Vec{X: 1200, Y: 800})
	e := engagedEnemy(f, components.ArchTunneler, r2.Vec{X: 1400, Y: 800})
	e.Brain.Timers.Set(components.TimerSpecial, 100)
	tc := f.Cfg.Tunneler
	sys := NewAISystem()

	shots := 0
	for range tc.MagazineSize * 2 {
		e.Brain.Timers.Set(components.TimerAttack, 0)
		e.Actor.Pos = r2.Vec{X: 1400, Y: 800}
		sys.Update(f)
		shots += f.Spawns.Len()
		f.Spawns.Drain()
	}

	assert.Equal(t, tc.MagazineSize, shots)
	assert.True(t, e.Brain.Reloading)
	assert.Zero(t, e.Brain.Ammo)
}

func TestTunnelerShedsDronesOnce(t *testing.T) {
	f := newTestFrame(t)
	player, _ := addTestPlayer(f, r2.Vec{X: 200, Y: 200})
	e := addTestEnemy(f, components.ArchTunneler, r2.Vec{X: 1200, Y: 800})
	half := e.Actor.MaxHealth / 2

	ApplyDamage(f, e.Actor, half-1, player.ID)
	assert.Zero(t, f.Spawns.PendingEnemies())

	ApplyDamage(f, e.Actor, 2, player.ID)
	assert.Equal(t, f.Cfg.Tunneler.DroneCount, f.Spawns.PendingEnemies())

	ApplyDamage(f, e.Actor, 1, player.ID)
	assert.Equal(t, f.Cfg.Tunneler.DroneCount, f.Spawns.PendingEnemies())
}

func TestBehaviorTableCoversEnemies(t *testing.T) {
	for arch := components.Archetype(0); arch < components.NumArchetypes; arch++ {
		if arch.IsEnemy() {
			assert.NotNil(t, BehaviorFor(arch), arch.String())
		} else {
			assert.Nil(t, BehaviorFor(arch), arch.String())
		}
	}
}
