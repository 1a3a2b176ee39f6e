package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/telemetry"
)

func newTestWaves(f *Frame) *WaveDirector {
	return NewWaveDirector(f.Cfg, rand.New(rand.NewSource(7)))
}

func killAll(f *Frame) {
	for _, e := range f.Enemies {
		e.Actor.Kill()
	}
}

func TestComposition(t *testing.T) {
	f := newTestFrame(t)
	w := newTestWaves(f)
	wc := f.Cfg.Waves

	t.Run("first wave is base count of unlocked types", func(t *testing.T) {
		comp := w.Composition(1)
		assert.Len(t, comp, wc.BaseCount)
		for _, arch := range comp {
			assert.Equal(t, components.ArchMelee, arch)
		}
	})

	t.Run("count grows per wave", func(t *testing.T) {
		assert.Len(t, w.Composition(2), wc.BaseCount+wc.CountPerWave)
		assert.Len(t, w.Composition(3), wc.BaseCount+2*wc.CountPerWave)
	})

	t.Run("only unlocked archetypes", func(t *testing.T) {
		for _, arch := range w.Composition(2) {
			assert.Contains(t, []components.Archetype{components.ArchMelee, components.ArchRanged}, arch)
		}
	})

	t.Run("boss wave", func(t *testing.T) {
		comp := w.Composition(wc.BossWave)
		require.Len(t, comp, 1)
		assert.Equal(t, components.ArchTunneler, comp[0])
		assert.Equal(t, []components.Archetype{components.ArchTunneler}, w.Composition(2*wc.BossWave))
	})

	t.Run("capped", func(t *testing.T) {
		assert.Len(t, w.Composition(101), wc.MaxCount)
	})
}

func TestWaveEndsOnlyWhenQuotaAndOffspringCleared(t *testing.T) {
	f := newTestFrame(t)
	f.Cfg.Waves.SpawnInterval = 0
	w := newTestWaves(f)

	w.StartNextWave(f)
	require.Equal(t, WaveActive, w.Phase())
	require.Len(t, eventsOf(f, telemetry.EventWaveStarted), 1)

	w.Update(f)
	assert.Equal(t, f.Cfg.Waves.BaseCount, f.Spawns.PendingEnemies())
	assert.Equal(t, WaveActive, w.Phase(), "pending spawns keep the wave open")

	flushSpawns(f)
	killAll(f)

	// An offspring arrives after the last quota kill
	orphan := addTestEnemyWith(f, components.ArchSplitter, r2.Vec{X: 500, Y: 500}, SpawnOptions{Offspring: true, IsChild: true})
	w.Update(f)
	assert.Equal(t, WaveActive, w.Phase())

	orphan.Actor.Kill()
	w.Update(f)
	assert.Equal(t, WaveCountdown, w.Phase())
	ended := eventsOf(f, telemetry.EventWaveEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, 1, ended[0].Wave)
}

func TestWaveCountdownStartsNext(t *testing.T) {
	f := newTestFrame(t)
	f.Cfg.Waves.SpawnInterval = 0
	f.Cfg.Waves.Countdown = 3
	w := newTestWaves(f)

	w.StartNextWave(f)
	w.Update(f)
	flushSpawns(f)
	killAll(f)
	w.Update(f)
	require.Equal(t, WaveCountdown, w.Phase())

	f.DT = 1
	w.Update(f)
	w.Update(f)
	assert.Equal(t, WaveCountdown, w.Phase())
	w.Update(f)
	assert.Equal(t, WaveActive, w.Phase())
	assert.Equal(t, 2, w.Wave())

	var ticks []float64
	for _, ev := range eventsOf(f, telemetry.EventCountdownTick) {
		ticks = append(ticks, ev.Amount)
	}
	assert.Equal(t, []float64{3, 2, 1}, ticks)
	assert.Len(t, eventsOf(f, telemetry.EventWaveStarted), 2)
}

func TestFinalWaveCompletesRun(t *testing.T) {
	tests := []struct {
		name    string
		endless bool
		want    WavePhase
	}{
		{name: "final", endless: false, want: WaveComplete},
		{name: "endless", endless: true, want: WaveCountdown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFrame(t)
			f.Cfg.Waves.SpawnInterval = 0
			f.Cfg.Waves.FinalWave = 1
			f.Cfg.Waves.Endless = tc.endless
			w := newTestWaves(f)

			w.StartNextWave(f)
			w.Update(f)
			flushSpawns(f)
			killAll(f)
			w.Update(f)

			assert.Equal(t, tc.want, w.Phase())
			complete := len(eventsOf(f, telemetry.EventRunComplete)) == 1
			assert.Equal(t, !tc.endless, complete)
		})
	}
}

func TestJumpToWave(t *testing.T) {
	f := newTestFrame(t)
	w := newTestWaves(f)
	w.StartNextWave(f)

	w.JumpTo(f, 7)

	assert.Equal(t, 7, w.Wave())
	assert.Equal(t, WaveActive, w.Phase())
	st := w.Status(0)
	assert.Zero(t, st.Spawned)
	assert.Equal(t, len(w.Composition(7)), st.Quota)
	started := eventsOf(f, telemetry.EventWaveStarted)
	require.Len(t, started, 2)
	assert.Equal(t, 7, started[1].Wave)
}

func TestWaveRetriesRejectedSpawns(t *testing.T) {
	f := newTestFrame(t)
	f.Cfg.Waves.SpawnInterval = 0
	f.Cfg.Population.Cap = 2
	w := newTestWaves(f)

	w.StartNextWave(f)
	w.Update(f)

	assert.Equal(t, 2, w.Status(0).Spawned)
	assert.NotEmpty(t, eventsOf(f, telemetry.EventSpawnRejected))

	flushSpawns(f)
	killAll(f)
	f.Spawns.Drain()
	f.DT = 1
	w.Update(f)
	assert.Equal(t, 4, w.Status(0).Spawned)
	assert.Equal(t, WaveActive, w.Phase())
}

func TestWaveRemainingTracksDeaths(t *testing.T) {
	f := newTestFrame(t)
	w := newTestWaves(f)
	w.StartNextWave(f)
	quota := w.Status(0).Remaining

	w.OnEvent(telemetry.Event{Type: telemetry.EventEntityDied, Archetype: components.ArchMelee})
	w.OnEvent(telemetry.Event{Type: telemetry.EventEntityDied, Archetype: components.ArchProjectile})
	w.OnEvent(telemetry.Event{Type: telemetry.EventDamageDealt, Archetype: components.ArchMelee})

	assert.Equal(t, quota-1, w.Status(0).Remaining)
}
