package systems

import "github.com/pthm-cable/brawl/config"

// HitStop is the global time-dilation pulse that follows a heavy hit. Repeated triggers extend
// the pulse to the longest requested duration; the slowdown itself never compounds.
type HitStop struct {
	cfg       config.HitStopConfig
	remaining float64
}

// NewHitStop creates a hit-stop controller.
func NewHitStop(cfg config.HitStopConfig) *HitStop {
	return &HitStop{cfg: cfg}
}

// Trigger starts or extends a pulse scaled by damage. Returns the pulse duration, or 0 when
// nothing was triggered.
func (h *HitStop) Trigger(damage float64) float64 {
	if h == nil || !(damage > 0) {
		return 0
	}
	d := clampFloat(damage*h.cfg.PerDamage, h.cfg.MinDuration, h.cfg.MaxDuration)
	if d > h.remaining {
		h.remaining = d
	}
	return d
}

// Update counts the pulse down in real (unscaled) seconds.
func (h *HitStop) Update(realDT float64) {
	if h == nil || h.remaining <= 0 {
		return
	}
	h.remaining -= realDT
	if h.remaining < 0 {
		h.remaining = 0
	}
}

// Scale returns the simulation speed multiplier for this frame.
func (h *HitStop) Scale() float64 {
	if h == nil || h.remaining <= 0 {
		return 1
	}
	return clampFloat(h.cfg.TimeScale, 0, 1)
}

// Active reports whether a pulse is in progress.
func (h *HitStop) Active() bool {
	return h != nil && h.remaining > 0
}

// Remaining returns the seconds left in the current pulse.
func (h *HitStop) Remaining() float64 {
	if h == nil {
		return 0
	}
	return h.remaining
}

// Reset cancels any pulse in progress.
func (h *HitStop) Reset() {
	if h != nil {
		h.remaining = 0
	}
}

func triggerHitStop(f *Frame, dealt float64) {
	if d := f.HitStop.Trigger(dealt); d > 0 {
		f.Effects.timeDilation(f.HitStop.Scale(), d)
	}
}
