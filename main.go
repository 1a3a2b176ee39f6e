package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/config"
	"github.com/pthm-cable/brawl/game"
	"github.com/pthm-cable/brawl/renderer"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	targetFPS    = 60
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, driven by the autopilot")
	logStats := flag.Bool("log-stats", false, "Output per-wave stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	startWave := flag.Int("start-wave", 1, "Wave to begin at")
	endless := flag.Bool("endless", false, "Keep generating waves past the final wave")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *endless {
		cfg.Waves.Endless = true
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := game.DefaultOptions()
	opts.Seed = rngSeed
	opts.LogStats = *logStats
	opts.OutputDir = *outputDir
	opts.Headless = *headless

	g := game.New(cfg, opts)
	defer g.Unload()
	g.SpawnPlayer(r2.Vec{X: cfg.World.Width / 2, Y: cfg.World.Height / 2})

	if *startWave > 1 {
		g.JumpToWave(*startWave)
	} else {
		g.StartFirstWave()
	}

	if *headless {
		runHeadless(g, rngSeed, *maxTicks)
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(screenWidth, screenHeight, "Brawl")
	defer rl.CloseWindow()
	rl.SetTargetFPS(targetFPS)

	arena := renderer.NewArena(screenWidth, screenHeight, float32(cfg.World.Width), float32(cfg.World.Height))
	g.SetEffects(arena.Effects())

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		if rl.IsKeyPressed(rl.KeyP) {
			if g.Paused() {
				g.Resume()
			} else {
				g.Pause()
			}
		}

		player, _ := g.Player()
		g.Step(renderer.PollInput(arena.Camera(), player), float64(dt))
		arena.Update(g, dt)

		rl.BeginDrawing()
		arena.Draw(g)
		rl.EndDrawing()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the simulation at the fixed frame rate with the autopilot at the controls.
func runHeadless(g *game.Game, seed int64, maxTicks int) {
	dt := g.Config().Frame.DT
	auto := game.NewAutopilot(g.Config(), seed)

	slog.Info("starting headless simulation",
		"seed", seed,
		"max_ticks", maxTicks,
		"wave", g.Wave().Wave,
	)

	for {
		g.Step(auto.Next(g, dt), dt)

		if g.Over() {
			stats := g.PerfStats()
			slog.Info("run over",
				"tick", g.Tick(),
				"wave", g.Wave().Wave,
				"avg_tick_us", stats.AvgTickDuration.Microseconds(),
			)
			return
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "wave", g.Wave().Wave)
			return
		}
	}
}
