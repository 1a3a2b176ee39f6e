package game

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/config"
	"github.com/pthm-cable/brawl/systems"
)

const (
	autopilotShootRange  = 360.0 // Holds a charge when the target is closer than this
	autopilotPanicRange  = 36.0  // Considers a dash when something is this close
	autopilotPanicChance = 0.04
	autopilotAxisDead    = 0.3 // Minimum axis component that presses a move key
)

// Autopilot produces player input for headless runs: it closes on the nearest visible enemy,
// lunges in melee range and fires fully charged shots from mid range.
type Autopilot struct {
	cfg *config.Config
	rng *rand.Rand

	charging bool
	held     float64
}

// NewAutopilot creates an autopilot with its own RNG stream.
func NewAutopilot(cfg *config.Config, seed int64) *Autopilot {
	return &Autopilot{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Next returns the input for the coming frame of dt seconds.
func (p *Autopilot) Next(g *Game, dt float64) systems.InputSnapshot {
	var in systems.InputSnapshot
	player, ok := g.Player()
	if !ok || player.State == components.StateDead {
		p.charging = false
		return in
	}
	ammo, _ := g.Ammo()

	target, dist, found := nearestEnemy(player, g.Snapshots())
	if !found {
		p.charging = false
		bounds := g.frame.WorldBounds()
		pressMove(&in, r2.Sub(bounds.Center(), player.Pos))
		return in
	}

	toTarget := r2.Sub(target.Pos, player.Pos)
	in.Pointer = toTarget

	switch {
	case dist <= p.cfg.Melee.DetectionRadius*0.8:
		p.charging = false
		in.Pressed[systems.ActionAttack] = true
		pressMove(&in, toTarget)
		if dist < autopilotPanicRange && p.rng.Float64() < autopilotPanicChance {
			in.Pressed[systems.ActionDash] = true
			pressMove(&in, r2.Scale(-1, toTarget))
		}
	case dist <= autopilotShootRange && (ammo > 0 || p.charging):
		// Hold until fully charged, strafing around the target
		if !p.charging {
			p.charging = true
			p.held = 0
		}
		p.held += dt
		if p.held < p.cfg.Charge.MaxChargeTime {
			in.Held[systems.ActionFire] = true
		} else {
			p.charging = false
		}
		pressMove(&in, r2.Vec{X: -toTarget.Y, Y: toTarget.X})
	default:
		p.charging = false
		pressMove(&in, toTarget)
	}
	return in
}

// nearestEnemy finds the closest living, visible enemy.
func nearestEnemy(player components.Snapshot, snaps []components.Snapshot) (components.Snapshot, float64, bool) {
	var best components.Snapshot
	bestDist := -1.0
	for _, s := range snaps {
		if !s.Archetype.IsEnemy() || s.Hidden || s.State == components.StateDead {
			continue
		}
		d := r2.Norm(r2.Sub(s.Pos, player.Pos))
		if bestDist < 0 || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, bestDist, bestDist >= 0
}

// pressMove holds the movement keys that best approximate dir.
func pressMove(in *systems.InputSnapshot, dir r2.Vec) {
	n := r2.Norm(dir)
	if n == 0 {
		return
	}
	d := r2.Scale(1/n, dir)
	in.Held[systems.ActionMoveLeft] = d.X < -autopilotAxisDead
	in.Held[systems.ActionMoveRight] = d.X > autopilotAxisDead
	in.Held[systems.ActionMoveUp] = d.Y < -autopilotAxisDead
	in.Held[systems.ActionMoveDown] = d.Y > autopilotAxisDead
}
