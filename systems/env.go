package systems

import (
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
)

// Terrain is the world collaborator. Implementations live outside the simulation core.
type Terrain interface {
	IsPositionWalkable(p r2.Vec) bool
	// FindValidPositionNear returns a walkable point at distance [minR, maxR] from center that is
	// at least avoidR away from avoid.
	FindValidPositionNear(center r2.Vec, minR, maxR float64, avoid r2.Vec, avoidR float64) (r2.Vec, bool)
	LoadedWorldBounds() (components.Rect, bool)
}

// Action is an input action the player layer can query.
type Action uint8

const (
	ActionMoveUp Action = iota
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionAttack // Melee lunge
	ActionFire   // Charge while held, release to shoot
	ActionDash

	NumActions
)

// Input is the per-frame input snapshot consumed by the player controller.
type Input interface {
	IsHeld(a Action) bool
	WasPressed(a Action) bool
	PointerDirection() r2.Vec
}

// InputSnapshot is a plain Input value, filled by adapters and tests.
type InputSnapshot struct {
	Held    [NumActions]bool
	Pressed [NumActions]bool
	Pointer r2.Vec
}

func (s InputSnapshot) IsHeld(a Action) bool     { return a < NumActions && s.Held[a] }
func (s InputSnapshot) WasPressed(a Action) bool { return a < NumActions && s.Pressed[a] }
func (s InputSnapshot) PointerDirection() r2.Vec { return s.Pointer }

// Effects holds optional fire-and-forget visual/audio hooks. Any slot may be nil; the
// simulation carries on without it.
type Effects struct {
	Impact       func(pos r2.Vec, strength float64)
	Explosion    func(pos r2.Vec, radius float64)
	Trail        func(pos, vel r2.Vec)
	Shake        func(intensity, duration float64)
	Glow         func(pos r2.Vec, arch components.Archetype)
	TimeDilation func(scale, duration float64)
}

func (e *Effects) impact(pos r2.Vec, strength float64) {
	if e == nil || e.Impact == nil {
		warnOnce("effect_hook_missing", "impact")
		return
	}
	e.Impact(pos, strength)
}

func (e *Effects) explosion(pos r2.Vec, radius float64) {
	if e == nil || e.Explosion == nil {
		warnOnce("effect_hook_missing", "explosion")
		return
	}
	e.Explosion(pos, radius)
}

func (e *Effects) trail(pos, vel r2.Vec) {
	if e == nil || e.Trail == nil {
		warnOnce("effect_hook_missing", "trail")
		return
	}
	e.Trail(pos, vel)
}

func (e *Effects) shake(intensity, duration float64) {
	if e == nil || e.Shake == nil {
		warnOnce("effect_hook_missing", "shake")
		return
	}
	e.Shake(intensity, duration)
}

func (e *Effects) glow(pos r2.Vec, arch components.Archetype) {
	if e == nil || e.Glow == nil {
		warnOnce("effect_hook_missing", "glow")
		return
	}
	e.Glow(pos, arch)
}

func (e *Effects) timeDilation(scale, duration float64) {
	if e == nil || e.TimeDilation == nil {
		warnOnce("effect_hook_missing", "time_dilation")
		return
	}
	e.TimeDilation(scale, duration)
}

var warned sync.Map

// warnOnce logs a recovered invalid-input condition at most once per (event, detail) pair.
func warnOnce(event, detail string) {
	if _, seen := warned.LoadOrStore(event+":"+detail, struct{}{}); seen {
		return
	}
	slog.Debug(event, "detail", detail)
}
