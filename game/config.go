package game

import "github.com/pthm-cable/brawl/telemetry"

// Options holds configuration for arena initialization.
type Options struct {
	Seed      int64  // RNG seed; 0 keeps the default seed of 1
	OutputDir string // Directory for waves.csv/perf.csv/config.yaml (empty = disabled)
	LogStats  bool   // Log each finished wave through slog
	Headless  bool   // No viewer; effect hooks are ignored

	// PerfWindow is the number of frames averaged by the perf collector.
	PerfWindow int

	// StatsCallback receives every finished wave. Optional.
	StatsCallback func(telemetry.WaveStats)
}

// DefaultOptions returns the default arena options.
func DefaultOptions() Options {
	return Options{
		Seed:       1,
		PerfWindow: 120,
	}
}
