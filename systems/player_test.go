package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
)

func input(held []Action, pressed []Action) InputSnapshot {
	var in InputSnapshot
	for _, a := range held {
		in.Held[a] = true
	}
	for _, a := range pressed {
		in.Pressed[a] = true
	}
	return in
}

func TestPlayerMovement(t *testing.T) {
	f := newTestFrame(t)
	p, fi := addTestPlayer(f, r2.Vec{X: 500, Y: 500})
	f.Input = input([]Action{ActionMoveUp, ActionMoveRight}, nil)

	NewPlayerSystem().Update(f)

	want := r2.Unit(r2.Vec{X: 1, Y: -1})
	assert.InDelta(t, want.X, fi.Facing.X, 1e-9)
	assert.InDelta(t, want.Y, fi.Facing.Y, 1e-9)
	assert.InDelta(t, f.Cfg.Player.Acceleration, r2.Norm(p.Accel), 1e-9)

	f.Input = InputSnapshot{}
	NewPlayerSystem().Update(f)
	assert.Equal(t, r2.Vec{}, p.Accel)
	assert.InDelta(t, want.X, fi.Facing.X, 1e-9, "facing is kept while idle")
}

func TestPlayerDash(t *testing.T) {
	f := newTestFrame(t)
	p, fi := addTestPlayer(f, r2.Vec{X: 500, Y: 500})
	fi.Resource = 2
	require.True(t, BeginCharge(f))
	f.Input = input([]Action{ActionFire}, []Action{ActionDash})

	NewPlayerSystem().Update(f)

	assert.Equal(t, components.StateDashing, p.State)
	assert.InDelta(t, f.Cfg.Player.DashSpeed, p.Vel.X, 1e-9)
	assert.False(t, fi.Charge.Active, "dash cancels the charge")
	assert.Equal(t, 2, fi.Resource)
	assert.Greater(t, fi.DashCooldown, 0.0)

	f.Input = InputSnapshot{}
	f.DT = fi.DashTimer + 0.01
	NewPlayerSystem().Update(f)
	assert.Equal(t, components.StateIdle, p.State)
}

func TestPlayerChargeAndRelease(t *testing.T) {
	f := newTestFrame(t)
	_, fi := addTestPlayer(f, r2.Vec{X: 500, Y: 500})
	fi.Resource = 1
	sys := NewPlayerSystem()
	f.DT = 0.1

	f.Input = input([]Action{ActionFire}, nil)
	for range 12 {
		sys.Update(f)
	}
	assert.True(t, fi.Charge.Active)
	assert.InDelta(t, f.Cfg.Charge.MaxChargeTime, fi.Charge.Held, 1e-9)

	f.Input = InputSnapshot{}
	sys.Update(f)
	assert.False(t, fi.Charge.Active)
	assert.Zero(t, fi.Resource)
	assert.Equal(t, 1, f.Spawns.Len())
}

func TestPlayerAttackStartsLunge(t *testing.T) {
	f := newTestFrame(t)
	_, fi := addTestPlayer(f, r2.Vec{X: 500, Y: 500})
	f.Input = input(nil, []Action{ActionAttack})

	NewPlayerSystem().Update(f)

	assert.True(t, fi.Lunge.Active)
	assert.InDelta(t, f.Cfg.Melee.Cooldown, fi.MeleeCooldown, 1e-9)
}

func TestStunnedPlayerIgnoresInput(t *testing.T) {
	f := newTestFrame(t)
	p, fi := addTestPlayer(f, r2.Vec{X: 500, Y: 500})
	p.Stun(1)
	f.Input = input([]Action{ActionMoveLeft}, []Action{ActionAttack, ActionDash})

	NewPlayerSystem().Update(f)

	assert.Equal(t, r2.Vec{}, p.Accel)
	assert.False(t, fi.Lunge.Active)
	assert.Zero(t, fi.DashTimer)
}
