package game

import (
	"log/slog"

	"github.com/pthm-cable/brawl/telemetry"
)

// finishWave closes the collector's wave, then logs and writes its stats.
func (g *Game) finishWave(tick uint64) {
	stats := g.collector.EndWave(tick, g.playerHealth())
	perfStats := g.perf.Stats()
	g.lastStats = stats

	// Call stats callback if provided
	if g.opts.StatsCallback != nil {
		g.opts.StatsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.opts.LogStats {
		slog.Info("wave_stats", "stats", stats)
		slog.Info("perf", "stats", perfStats)
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteWave(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// PerfStats returns frame timing over the rolling window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perf.Stats()
}
