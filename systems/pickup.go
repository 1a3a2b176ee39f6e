package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/telemetry"
)

// PickupSystem expires pickups that were left on the floor too long.
type PickupSystem struct{}

// NewPickupSystem creates a new pickup system.
func NewPickupSystem() *PickupSystem {
	return &PickupSystem{}
}

// Update ages every pickup.
func (s *PickupSystem) Update(f *Frame) {
	for _, d := range f.Pickups {
		if d.Actor.IsDead() {
			continue
		}
		d.Pickup.Lifetime -= f.DT
		if d.Pickup.Lifetime <= 0 {
			d.Actor.Kill()
		}
	}
}

// collectPickups grants every pickup the player is touching.
func collectPickups(f *Frame) {
	if !f.PlayerAlive() {
		return
	}
	p, fi := f.Player, f.Fighter
	for _, d := range f.Pickups {
		if d.Actor.IsDead() || d.Pickup.Taken || !Overlaps(p, d.Actor) {
			continue
		}
		switch d.Pickup.Kind {
		case components.PickupAmmo:
			if fi != nil {
				fi.Resource = min(fi.Resource+int(d.Pickup.Amount), fi.MaxResource)
			}
		case components.PickupHeal:
			p.Heal(d.Pickup.Amount)
		case components.PickupVitality:
			p.SetMaxHealth(p.MaxHealth + d.Pickup.Amount)
		}
		d.Pickup.Taken = true
		d.Actor.Kill()
		f.Effects.glow(d.Actor.Center(), components.ArchPickup)
		f.Emit(telemetry.Event{
			Type:      telemetry.EventPickupCollected,
			ActorID:   d.Actor.ID,
			Archetype: components.ArchPickup,
			Pos:       d.Actor.Pos,
			SourceID:  p.ID,
			Amount:    d.Pickup.Amount,
		})
	}
}

// DropPickup queues a pickup at pos, its kind rolled by the configured weights.
func DropPickup(f *Frame, pos r2.Vec) components.ActorID {
	pc := f.Cfg.Pickups
	kind := components.PickupAmmo
	amount := float64(pc.AmmoAmount)
	total := pc.AmmoWeight + pc.HealWeight + pc.VitalityWeight
	if total > 0 {
		r := f.Rng.Float64() * total
		switch {
		case r < pc.AmmoWeight:
		case r < pc.AmmoWeight+pc.HealWeight:
			kind, amount = components.PickupHeal, pc.HealAmount
		default:
			kind, amount = components.PickupVitality, pc.VitalityBonus
		}
	}
	return DropPickupKind(f, pos, kind, amount)
}

// DropPickupKind queues a pickup of a specific kind.
func DropPickupKind(f *Frame, pos r2.Vec, kind components.PickupKind, amount float64) components.ActorID {
	id := f.IDs.Next()
	size := f.Cfg.Pickups.Size
	bounds := components.Rect{X: -size / 2, Y: -size / 2, W: size, H: size}
	actor := components.NewActor(id, components.ArchPickup, pos, 1, bounds)
	actor.Friction = f.Cfg.Archetype(components.ArchPickup.String()).Friction
	pickup := components.Pickup{Kind: kind, Amount: amount, Lifetime: f.Cfg.Pickups.Lifetime}
	f.Spawns.Push(Pending{Actor: &actor, Pickup: &pickup})
	return id
}
