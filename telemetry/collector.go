package telemetry

import "github.com/pthm-cable/brawl/components"

// Collector accumulates events within a wave and produces WaveStats when it ends.
type Collector struct {
	dt         float64
	maxSamples int

	// Current wave tracking
	wave      int
	boss      bool
	startTick uint64

	spawned       int
	offspring     int
	spawnRejected int
	kills         [components.NumArchetypes]int
	damageDealt   float64
	damageTaken   float64
	hits          []float64
	shotsFired    int
	fizzles       int
	rejected      int
	pickups       int
}

// NewCollector creates a new wave stats collector.
// dt: seconds per tick (used for tick-to-time conversion)
// maxSamples: cap on hit samples kept for percentiles
func NewCollector(dt float64, maxSamples int) *Collector {
	if maxSamples < 1 {
		maxSamples = 256
	}
	return &Collector{
		dt:         dt,
		maxSamples: maxSamples,
		hits:       make([]float64, 0, maxSamples),
	}
}

// Record folds one event into the current wave.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventEntityDied:
		if !ev.Forced && ev.Archetype.IsEnemy() {
			c.kills[ev.Archetype]++
		}
	case EventDamageDealt:
		if ev.Archetype == components.ArchPlayer {
			c.damageTaken += ev.Amount
			return
		}
		c.damageDealt += ev.Amount
		if len(c.hits) < c.maxSamples {
			c.hits = append(c.hits, ev.Amount)
		}
	case EventShotFired:
		if ev.Archetype == components.ArchPlayer {
			c.shotsFired++
		}
	case EventChargeFizzled:
		c.fizzles++
	case EventChargeRejected:
		c.rejected++
	case EventSpawnRejected:
		c.spawnRejected++
	case EventPickupCollected:
		c.pickups++
	}
}

// RecordSpawn records an enemy entering the arena.
func (c *Collector) RecordSpawn(offspring bool) {
	if offspring {
		c.offspring++
		return
	}
	c.spawned++
}

// BeginWave resets counters for a new wave.
func (c *Collector) BeginWave(wave int, boss bool, tick uint64) {
	c.wave = wave
	c.boss = boss
	c.startTick = tick
	c.reset()
}

// EndWave produces the stats for the wave that just ended.
func (c *Collector) EndWave(tick uint64, playerHealth float64) WaveStats {
	mean, p90, max := ComputeHitStats(c.hits)

	var total int
	for _, k := range c.kills {
		total += k
	}

	stats := WaveStats{
		Wave:        c.wave,
		Boss:        c.boss,
		StartTick:   c.startTick,
		EndTick:     tick,
		DurationSec: float64(tick-c.startTick) * c.dt,

		Spawned:       c.spawned,
		Offspring:     c.offspring,
		SpawnRejected: c.spawnRejected,

		Kills:         total,
		KillsMelee:    c.kills[components.ArchMelee],
		KillsRanged:   c.kills[components.ArchRanged],
		KillsTunneler: c.kills[components.ArchTunneler],
		KillsTurret:   c.kills[components.ArchTurret],
		KillsDrone:    c.kills[components.ArchDrone],
		KillsSplitter: c.kills[components.ArchSplitter],

		DamageDealt: c.damageDealt,
		DamageTaken: c.damageTaken,
		HitMean:     mean,
		HitP90:      p90,
		HitMax:      max,

		ShotsFired:       c.shotsFired,
		Fizzles:          c.fizzles,
		ChargeRejected:   c.rejected,
		PickupsCollected: c.pickups,

		PlayerHealth: playerHealth,
	}

	c.startTick = tick
	c.reset()
	return stats
}

// Wave returns the wave currently being collected.
func (c *Collector) Wave() int {
	return c.wave
}

func (c *Collector) reset() {
	c.spawned = 0
	c.offspring = 0
	c.spawnRejected = 0
	c.kills = [components.NumArchetypes]int{}
	c.damageDealt = 0
	c.damageTaken = 0
	c.hits = c.hits[:0]
	c.shotsFired = 0
	c.fizzles = 0
	c.rejected = 0
	c.pickups = 0
}
