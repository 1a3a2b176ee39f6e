package systems

import (
	"log/slog"
	"math"
	"math/rand"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/config"
	"github.com/pthm-cable/brawl/telemetry"
)

// WavePhase is the wave director state.
type WavePhase uint8

const (
	WaveInactive WavePhase = iota
	WaveActive
	WaveCountdown
	WaveComplete // Final wave cleared; run over
)

func (p WavePhase) String() string {
	switch p {
	case WaveActive:
		return "active"
	case WaveCountdown:
		return "countdown"
	case WaveComplete:
		return "complete"
	}
	return "inactive"
}

// WaveStatus is the read-only view of the wave director for HUDs.
type WaveStatus struct {
	Phase     WavePhase
	Wave      int
	Quota     int
	Spawned   int
	Remaining int
	Live      int
	Countdown float64
	Boss      bool
}

// WaveDirector paces waves: it releases each wave's quota, detects when the wave is cleared
// and runs the countdown to the next one.
type WaveDirector struct {
	cfg *config.Config
	rng *rand.Rand

	phase      WavePhase
	wave       int
	queue      []components.Archetype
	spawned    int
	remaining  int
	boss       bool
	spawnTimer float64
	countdown  float64
	lastWhole  int
}

// NewWaveDirector creates an inactive wave director.
func NewWaveDirector(cfg *config.Config, rng *rand.Rand) *WaveDirector {
	return &WaveDirector{cfg: cfg, rng: rng}
}

// StartNextWave begins the wave after the current one.
func (w *WaveDirector) StartNextWave(f *Frame) {
	w.begin(f, w.wave+1)
}

// JumpTo resets bookkeeping and starts wave n immediately. The caller is responsible for
// clearing the enemies of the abandoned wave.
func (w *WaveDirector) JumpTo(f *Frame, n int) {
	w.Reset()
	w.begin(f, max(n, 1))
}

// Reset returns the director to its inactive state.
func (w *WaveDirector) Reset() {
	*w = WaveDirector{cfg: w.cfg, rng: w.rng, queue: w.queue[:0]}
}

func (w *WaveDirector) begin(f *Frame, n int) {
	w.wave = n
	w.queue = append(w.queue[:0], w.Composition(n)...)
	w.boss = w.isBossWave(n)
	w.spawned = 0
	w.remaining = len(w.queue)
	w.spawnTimer = 0
	w.countdown = 0
	w.phase = WaveActive
	f.Emit(telemetry.NewWaveEvent(telemetry.EventWaveStarted, f.Tick, n, float64(len(w.queue))))
	slog.Info("wave_started", "wave", n, "quota", len(w.queue), "boss", w.boss)
}

func (w *WaveDirector) isBossWave(n int) bool {
	wc := w.cfg.Waves
	if wc.BossWave <= 0 || n%wc.BossWave != 0 {
		return false
	}
	arch, ok := components.ParseArchetype(wc.BossArchetype)
	return ok && arch.IsEnemy()
}

// Composition returns the spawn list for wave n. The boss wave is the boss alone; other waves
// grow linearly and draw from the archetypes unlocked by n.
func (w *WaveDirector) Composition(n int) []components.Archetype {
	wc := w.cfg.Waves
	if w.isBossWave(n) {
		arch, _ := components.ParseArchetype(wc.BossArchetype)
		return []components.Archetype{arch}
	}

	count := wc.BaseCount + wc.CountPerWave*(n-1)
	if wc.MaxCount > 0 {
		count = min(count, wc.MaxCount)
	}
	count = max(count, 1)

	// Sorted so the draw only depends on the rng
	names := make([]string, 0, len(wc.Unlocks))
	for name, at := range wc.Unlocks {
		if at <= n && wc.Weights[name] > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	pool := make([]components.Archetype, 0, len(names))
	weights := make([]float64, 0, len(names))
	for _, name := range names {
		if arch, ok := components.ParseArchetype(name); ok && arch.IsEnemy() {
			pool = append(pool, arch)
			weights = append(weights, wc.Weights[name])
		}
	}

	out := make([]components.Archetype, count)
	if len(pool) == 0 {
		for i := range out {
			out[i] = components.ArchMelee
		}
		return out
	}
	cum := floats.CumSum(make([]float64, len(weights)), weights)
	total := cum[len(cum)-1]
	for i := range out {
		idx := sort.SearchFloat64s(cum, w.rng.Float64()*total)
		out[i] = pool[min(idx, len(pool)-1)]
	}
	return out
}

// Update advances the active wave or the countdown. Call after dead actors are removed and
// queued spawns are flushed so the live count is current.
func (w *WaveDirector) Update(f *Frame) {
	switch w.phase {
	case WaveActive:
		w.release(f)
		if w.spawned >= len(w.queue) && f.LiveEnemies() == 0 && f.Spawns.PendingEnemies() == 0 {
			w.end(f)
		}
	case WaveCountdown:
		w.countdown -= f.DT
		if w.countdown <= 0 {
			w.StartNextWave(f)
			return
		}
		if whole := int(math.Ceil(w.countdown)); whole != w.lastWhole {
			w.lastWhole = whole
			f.Emit(telemetry.NewWaveEvent(telemetry.EventCountdownTick, f.Tick, w.wave+1, float64(whole)))
		}
	}
}

// release trickles the quota out on the spawn interval. A rejected spawn is retried later.
func (w *WaveDirector) release(f *Frame) {
	wc := w.cfg.Waves
	w.spawnTimer -= f.DT
	opts := SpawnOptions{HealthScale: 1 + wc.HealthGrowth*float64(w.wave-1)}
	for w.spawned < len(w.queue) && w.spawnTimer <= 0 {
		if _, ok := f.Spawner.Spawn(f, w.queue[w.spawned], opts); !ok {
			w.spawnTimer = wc.SpawnInterval
			return
		}
		w.spawned++
		w.spawnTimer += wc.SpawnInterval
	}
}

func (w *WaveDirector) end(f *Frame) {
	wc := w.cfg.Waves
	f.Emit(telemetry.NewWaveEvent(telemetry.EventWaveEnded, f.Tick, w.wave, float64(w.spawned)))
	slog.Info("wave_ended", "wave", w.wave, "tick", f.Tick)

	if !wc.Endless && wc.FinalWave > 0 && w.wave >= wc.FinalWave {
		w.phase = WaveComplete
		f.Emit(telemetry.NewWaveEvent(telemetry.EventRunComplete, f.Tick, w.wave, 0))
		slog.Info("run_complete", "wave", w.wave)
		return
	}
	w.phase = WaveCountdown
	w.countdown = wc.Countdown
	w.lastWhole = int(math.Ceil(w.countdown))
	f.Emit(telemetry.NewWaveEvent(telemetry.EventCountdownTick, f.Tick, w.wave+1, float64(w.lastWhole)))
}

// OnEvent decrements the remaining count for every enemy death.
func (w *WaveDirector) OnEvent(ev telemetry.Event) {
	if ev.Type == telemetry.EventEntityDied && ev.Archetype.IsEnemy() && w.remaining > 0 {
		w.remaining--
	}
}

// Phase returns the current phase.
func (w *WaveDirector) Phase() WavePhase { return w.phase }

// Wave returns the current wave number, 0 before the first wave.
func (w *WaveDirector) Wave() int { return w.wave }

// Status summarizes the director for display.
func (w *WaveDirector) Status(live int) WaveStatus {
	return WaveStatus{
		Phase:     w.phase,
		Wave:      w.wave,
		Quota:     len(w.queue),
		Spawned:   w.spawned,
		Remaining: w.remaining,
		Live:      live,
		Countdown: max(w.countdown, 0),
		Boss:      w.boss,
	}
}
