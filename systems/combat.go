package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/telemetry"
)

// StartLunge begins a melee lunge toward the nearest enemy inside the detection radius, or
// along the facing direction when nothing is in reach. Refused while on cooldown, already
// lunging, charging, stunned or dead.
func StartLunge(f *Frame) bool {
	p, fi := f.Player, f.Fighter
	if !f.PlayerAlive() || fi == nil || p.Stunned {
		return false
	}
	if fi.Lunge.Active || fi.Charge.Active || fi.MeleeCooldown > 0 {
		return false
	}
	mc := f.Cfg.Melee

	dir, target := lungeDirection(f)
	fi.Lunge = components.Lunge{
		Active:   true,
		Dir:      dir,
		Origin:   p.Pos,
		TargetID: target,
		Hit:      make(map[components.ActorID]struct{}),
	}
	fi.Facing = dir
	fi.MeleeCooldown = mc.Cooldown
	p.Vel = r2.Scale(mc.LungeSpeed, dir)
	p.SetState(components.StateAttacking)
	return true
}

// lungeDirection picks the lunge heading and auto-target.
func lungeDirection(f *Frame) (r2.Vec, components.ActorID) {
	p := f.Player
	c := p.Center()
	best := components.NoActor
	bestDist := f.Cfg.Melee.DetectionRadius
	var bestDir r2.Vec
	for _, e := range f.Enemies {
		a := e.Actor
		if a.IsDead() || !a.Collidable {
			continue
		}
		d := distance(c, a.Center())
		if d > bestDist {
			continue
		}
		dir, ok := unit(r2.Sub(a.Center(), c))
		if !ok {
			continue
		}
		best, bestDist, bestDir = a.ID, d, dir
	}
	if best != components.NoActor {
		return bestDir, best
	}
	if dir, ok := unit(f.Fighter.Facing); ok {
		return dir, components.NoActor
	}
	if f.Input != nil {
		if dir, ok := unit(f.Input.PointerDirection()); ok {
			return dir, components.NoActor
		}
	}
	return r2.Vec{X: 1}, components.NoActor
}

// AdvanceLunge holds the lunge velocity and ends the lunge once its duration or travel distance
// runs out.
func AdvanceLunge(f *Frame, dt float64) {
	fi := f.Fighter
	if fi == nil || !fi.Lunge.Active {
		return
	}
	p := f.Player
	if p.IsDead() || p.Stunned {
		endLunge(f)
		return
	}
	mc := f.Cfg.Melee
	fi.Lunge.Elapsed += dt
	if fi.Lunge.Elapsed >= mc.Duration || distance(fi.Lunge.Origin, p.Pos) >= mc.MaxDistance {
		endLunge(f)
		return
	}
	p.Vel = r2.Scale(mc.LungeSpeed, fi.Lunge.Dir)
}

// LungeHit damages target with the active lunge. Each activation damages a given target at
// most once and the lunge ends on its first hit.
func LungeHit(f *Frame, target *components.Actor) bool {
	fi := f.Fighter
	if fi == nil || !fi.Lunge.Active || fi.Lunge.HasHit(target.ID) || target.IsDead() {
		return false
	}
	mc := f.Cfg.Melee
	fi.Lunge.MarkHit(target.ID)

	dealt, died := ApplyDamage(f, target, mc.Damage, f.Player.ID)
	if !died {
		dir, ok := unit(r2.Sub(target.Center(), f.Player.Center()))
		if !ok {
			dir = fi.Lunge.Dir
		}
		target.ApplyKnockback(dir, mc.KnockbackForce)
		if dealt > 0 {
			target.Stun(mc.StunDuration)
		}
	}
	triggerHitStop(f, dealt)
	f.Effects.impact(target.Center(), dealt)
	f.Effects.shake(dealt/4, 0.12)
	endLunge(f)
	return true
}

func endLunge(f *Frame) {
	fi := f.Fighter
	if fi == nil || !fi.Lunge.Active {
		return
	}
	fi.Lunge.Active = false
	p := f.Player
	p.Vel = r2.Scale(0.25, p.Vel)
	if p.State == components.StateAttacking {
		p.SetState(components.StateIdle)
	}
}

// ChargeOutcome is the result of releasing a charge.
type ChargeOutcome uint8

const (
	ChargeNone       ChargeOutcome = iota // Nothing was charging
	ChargeFired                           // A projectile left
	ChargeFizzled                         // Released below the minimum; resource spent
	ChargeNoResource                      // Nothing to spend; no projectile
)

func (o ChargeOutcome) String() string {
	switch o {
	case ChargeFired:
		return "fired"
	case ChargeFizzled:
		return "fizzled"
	case ChargeNoResource:
		return "no_resource"
	}
	return "none"
}

// ChargeRatio normalizes a hold duration to [0, 1].
func ChargeRatio(held, maxHeld float64) float64 {
	if !(maxHeld > 0) {
		return 0
	}
	return clamp01(held / maxHeld)
}

// ChargeDamage interpolates damage across the charge range. It is monotonic in ratio and equals
// lo and hi at the ends.
func ChargeDamage(ratio, lo, hi float64) float64 {
	return lo + (hi-lo)*clamp01(ratio)
}

// BeginCharge starts holding a charge. Refused while lunging, dashing, stunned or dead.
func BeginCharge(f *Frame) bool {
	p, fi := f.Player, f.Fighter
	if !f.PlayerAlive() || fi == nil || p.Stunned {
		return false
	}
	if fi.Charge.Active || fi.Lunge.Active || fi.DashTimer > 0 {
		return false
	}
	fi.Charge = components.Charge{Active: true}
	p.SetState(components.StateCharging)
	return true
}

// AdvanceCharge accumulates hold time up to the maximum.
func AdvanceCharge(f *Frame, dt float64) {
	fi := f.Fighter
	if fi == nil || !fi.Charge.Active {
		return
	}
	fi.Charge.Held = min(fi.Charge.Held+dt, f.Cfg.Charge.MaxChargeTime)
}

// ReleaseCharge resolves a held charge. A release below the minimum ratio fizzles and still
// consumes one resource. A release with no resource fires nothing.
func ReleaseCharge(f *Frame) ChargeOutcome {
	fi := f.Fighter
	if fi == nil || !fi.Charge.Active {
		return ChargeNone
	}
	cc := f.Cfg.Charge
	held := fi.Charge.Held
	fi.Charge = components.Charge{}
	p := f.Player
	if p.State == components.StateCharging {
		p.SetState(components.StateIdle)
	}

	if fi.Resource <= 0 {
		f.Emit(telemetry.Event{Type: telemetry.EventChargeRejected, ActorID: p.ID, Archetype: p.Archetype, Pos: p.Pos})
		return ChargeNoResource
	}
	fi.Resource--

	ratio := ChargeRatio(held, cc.MaxChargeTime)
	if ratio < cc.MinChargeToFire {
		f.Emit(telemetry.Event{Type: telemetry.EventChargeFizzled, ActorID: p.ID, Archetype: p.Archetype, Pos: p.Pos, Amount: ratio})
		return ChargeFizzled
	}

	dir, ok := unit(fi.Facing)
	if f.Input != nil {
		if aim, aimOK := unit(f.Input.PointerDirection()); aimOK {
			dir, ok = aim, true
		}
	}
	if !ok {
		dir = r2.Vec{X: 1}
	}
	FireProjectile(f, p, ShotSpec{
		Dir:       dir,
		Speed:     cc.ProjectileSpeed,
		Damage:    ChargeDamage(ratio, cc.MinDamage, cc.MaxDamage),
		Knockback: cc.KnockbackForce,
		Charged:   true,
	})
	return ChargeFired
}

// CancelCharge drops a held charge without spending anything.
func CancelCharge(f *Frame) bool {
	fi := f.Fighter
	if fi == nil || !fi.Charge.Active {
		return false
	}
	fi.Charge = components.Charge{}
	if f.Player.State == components.StateCharging {
		f.Player.SetState(components.StateIdle)
	}
	return true
}
