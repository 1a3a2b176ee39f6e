package components

// Timer indexes a slot in a Timers bag.
type Timer uint8

const (
	TimerDecision Timer = iota // Next AI re-evaluation
	TimerBehavior              // Remaining wander/idle duration
	TimerAttack                // Attack / contact cooldown
	TimerSpecial               // Escape, tunnel or dash cooldown
	TimerPhase                 // Duration of the current special phase
	TimerReload                // Magazine reload
	TimerDodge                 // Projectile-avoidance cooldown
	TimerEvade                 // Remaining dodge steer

	NumTimers
)

// Timers is a fixed bag of countdown timers, decremented uniformly once per frame.
type Timers [NumTimers]float64

// Tick counts every timer down by dt, stopping at zero.
func (t *Timers) Tick(dt float64) {
	for i := range t {
		if t[i] > 0 {
			t[i] -= dt
			if t[i] < 0 {
				t[i] = 0
			}
		}
	}
}

// Ready reports whether the timer has run out.
func (t *Timers) Ready(k Timer) bool {
	return t[k] <= 0
}

// Set starts the timer at d seconds.
func (t *Timers) Set(k Timer, d float64) {
	t[k] = d
}

// Left returns the remaining time.
func (t *Timers) Left(k Timer) float64 {
	return t[k]
}
