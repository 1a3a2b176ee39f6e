package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/config"
	"github.com/pthm-cable/brawl/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func newTestFrame(t *testing.T) *Frame {
	t.Helper()
	return NewFrame(testConfig(t), rand.New(rand.NewSource(1)))
}

func addTestPlayer(f *Frame, pos r2.Vec) (*components.Actor, *components.Fighter) {
	a, fi := BuildPlayer(f.Cfg, f.IDs, pos)
	actor, fighter := &a, &fi
	f.AddPlayer(actor, fighter)
	return actor, fighter
}

func addTestEnemy(f *Frame, arch components.Archetype, pos r2.Vec) Enemy {
	return addTestEnemyWith(f, arch, pos, SpawnOptions{})
}

func addTestEnemyWith(f *Frame, arch components.Archetype, pos r2.Vec, opts SpawnOptions) Enemy {
	a, b := f.Spawner.Build(arch, pos, opts)
	actor, brain := &a, &b
	f.AddEnemy(actor, brain)
	return Enemy{Actor: actor, Brain: brain}
}

// flushSpawns moves queued actors into the frame the way the game does between frames.
func flushSpawns(f *Frame) {
	for _, p := range f.Spawns.Drain() {
		switch {
		case p.Brain != nil:
			f.AddEnemy(p.Actor, p.Brain)
		case p.Projectile != nil:
			f.AddProjectile(p.Actor, p.Projectile)
		case p.Pickup != nil:
			f.AddPickup(p.Actor, p.Pickup)
		default:
			f.AddStatic(p.Actor)
		}
	}
}

func eventsOf(f *Frame, typ telemetry.EventType) []telemetry.Event {
	var out []telemetry.Event
	for _, ev := range f.Events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func pendingEnemies(items []Pending) []Pending {
	var out []Pending
	for _, p := range items {
		if p.Brain != nil {
			out = append(out, p)
		}
	}
	return out
}
