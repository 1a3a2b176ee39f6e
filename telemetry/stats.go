package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WaveStats holds aggregated statistics for one wave.
type WaveStats struct {
	Wave        int     `csv:"wave"`
	Boss        bool    `csv:"boss"`
	StartTick   uint64  `csv:"-"`
	EndTick     uint64  `csv:"end_tick"`
	DurationSec float64 `csv:"duration"`

	// Population
	Spawned       int `csv:"spawned"`
	Offspring     int `csv:"offspring"`
	SpawnRejected int `csv:"spawn_rejected"`

	// Kills by archetype
	Kills         int `csv:"kills"`
	KillsMelee    int `csv:"kills_melee"`
	KillsRanged   int `csv:"kills_ranged"`
	KillsTunneler int `csv:"kills_tunneler"`
	KillsTurret   int `csv:"kills_turret"`
	KillsDrone    int `csv:"kills_drone"`
	KillsSplitter int `csv:"kills_splitter"`

	// Damage (enemy hits sampled for distribution)
	DamageDealt float64 `csv:"damage_dealt"`
	DamageTaken float64 `csv:"damage_taken"`
	HitMean     float64 `csv:"hit_mean"`
	HitP90      float64 `csv:"hit_p90"`
	HitMax      float64 `csv:"hit_max"`

	// Player actions
	ShotsFired       int `csv:"shots_fired"`
	Fizzles          int `csv:"fizzles"`
	ChargeRejected   int `csv:"charge_rejected"`
	PickupsCollected int `csv:"pickups"`

	PlayerHealth float64 `csv:"player_health"`
}

// ComputeHitStats returns mean, 90th percentile and max of per-hit damage.
func ComputeHitStats(values []float64) (mean, p90, max float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	max = floats.Max(sorted)
	return mean, p90, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WaveStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("wave", s.Wave),
		slog.Bool("boss", s.Boss),
		slog.Float64("duration", s.DurationSec),
		slog.Int("spawned", s.Spawned),
		slog.Int("offspring", s.Offspring),
		slog.Int("kills", s.Kills),
		slog.Float64("damage_dealt", s.DamageDealt),
		slog.Float64("damage_taken", s.DamageTaken),
		slog.Float64("hit_p90", s.HitP90),
		slog.Int("shots_fired", s.ShotsFired),
		slog.Int("fizzles", s.Fizzles),
		slog.Float64("player_health", s.PlayerHealth),
	)
}
