package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
)

// PlayerSystem turns the input snapshot into player movement and combat actions.
type PlayerSystem struct{}

// NewPlayerSystem creates a new player system.
func NewPlayerSystem() *PlayerSystem {
	return &PlayerSystem{}
}

// Update consumes input for one frame. A stunned or dead player ignores input; cooldowns keep
// ticking either way.
func (s *PlayerSystem) Update(f *Frame) {
	p, fi := f.Player, f.Fighter
	if p == nil || fi == nil {
		return
	}
	tickCooldowns(fi, f.DT)
	if p.IsDead() {
		return
	}
	if p.Stunned {
		p.Accel = r2.Vec{}
		endLunge(f)
		CancelCharge(f)
		return
	}

	var in Input = InputSnapshot{}
	if f.Input != nil {
		in = f.Input
	}

	move := moveDirection(in)
	if dir, ok := unit(move); ok {
		fi.Facing = dir
		p.Accel = r2.Scale(f.Cfg.Player.Acceleration, dir)
	} else {
		p.Accel = r2.Vec{}
	}

	if fi.DashTimer > 0 {
		fi.DashTimer -= f.DT
		p.Accel = r2.Vec{}
		if fi.DashTimer <= 0 {
			fi.DashTimer = 0
			p.SetState(components.StateIdle)
		} else {
			p.Vel = r2.Scale(f.Cfg.Player.DashSpeed, fi.DashDir)
		}
	} else if in.WasPressed(ActionDash) {
		startDash(f)
	}

	if in.WasPressed(ActionAttack) {
		StartLunge(f)
	}
	if fi.Lunge.Active {
		p.Accel = r2.Vec{}
		AdvanceLunge(f, f.DT)
	}

	switch {
	case in.IsHeld(ActionFire):
		if !fi.Charge.Active {
			BeginCharge(f)
		}
		AdvanceCharge(f, f.DT)
	case fi.Charge.Active:
		ReleaseCharge(f)
	}
}

// startDash bursts along the movement direction. Dashing cancels a held charge without
// spending it.
func startDash(f *Frame) bool {
	p, fi := f.Player, f.Fighter
	if fi.DashCooldown > 0 || fi.Lunge.Active {
		return false
	}
	dir, ok := unit(fi.Facing)
	if !ok {
		dir = r2.Vec{X: 1}
	}
	CancelCharge(f)
	pc := f.Cfg.Player
	fi.DashDir = dir
	fi.DashTimer = pc.DashDuration
	fi.DashCooldown = pc.DashCooldown
	p.Vel = r2.Scale(pc.DashSpeed, dir)
	p.SetState(components.StateDashing)
	return true
}

func moveDirection(in Input) r2.Vec {
	var d r2.Vec
	if in.IsHeld(ActionMoveUp) {
		d.Y--
	}
	if in.IsHeld(ActionMoveDown) {
		d.Y++
	}
	if in.IsHeld(ActionMoveLeft) {
		d.X--
	}
	if in.IsHeld(ActionMoveRight) {
		d.X++
	}
	return d
}

func tickCooldowns(fi *components.Fighter, dt float64) {
	fi.MeleeCooldown = max(fi.MeleeCooldown-dt, 0)
	fi.DashCooldown = max(fi.DashCooldown-dt, 0)
}
