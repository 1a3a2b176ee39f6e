// Package telemetry provides simulation events, per-wave statistics and CSV output.
package telemetry

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brawl/components"
)

// EventType identifies simulation events.
type EventType uint8

const (
	EventEntityDied EventType = iota
	EventDamageDealt
	EventWaveStarted
	EventWaveEnded
	EventCountdownTick
	EventPlayerDied
	EventRunComplete
	EventChargeFizzled
	EventChargeRejected
	EventSpawnRejected
	EventShotFired
	EventPickupCollected
)

var eventNames = [...]string{
	"entity_died",
	"damage_dealt",
	"wave_started",
	"wave_ended",
	"countdown_tick",
	"player_died",
	"run_complete",
	"charge_fizzled",
	"charge_rejected",
	"spawn_rejected",
	"shot_fired",
	"pickup_collected",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is a discrete notification produced during a frame and dispatched after it.
type Event struct {
	Type      EventType
	Tick      uint64
	ActorID   components.ActorID
	Archetype components.Archetype
	Pos       r2.Vec

	// Optional fields depending on event type
	SourceID components.ActorID // Attacker for damage/death events
	Amount   float64            // Damage dealt, countdown seconds left
	Wave     int
	Forced   bool // Death caused by an administrative command, not combat
}

// NewDeathEvent creates an entity-died event.
func NewDeathEvent(tick uint64, a *components.Actor, source components.ActorID) Event {
	return Event{
		Type:      EventEntityDied,
		Tick:      tick,
		ActorID:   a.ID,
		Archetype: a.Archetype,
		Pos:       a.Pos,
		SourceID:  source,
	}
}

// NewDamageEvent creates a damage-dealt event.
func NewDamageEvent(tick uint64, target *components.Actor, source components.ActorID, amount float64) Event {
	return Event{
		Type:      EventDamageDealt,
		Tick:      tick,
		ActorID:   target.ID,
		Archetype: target.Archetype,
		Pos:       target.Pos,
		SourceID:  source,
		Amount:    amount,
	}
}

// NewWaveEvent creates a wave lifecycle event (started, ended, countdown, run complete).
func NewWaveEvent(typ EventType, tick uint64, wave int, amount float64) Event {
	return Event{
		Type:   typ,
		Tick:   tick,
		Wave:   wave,
		Amount: amount,
	}
}

// Bus fans events out to subscribers in registration order.
type Bus struct {
	subs []func(Event)
}

// Subscribe registers fn for every future event.
func (b *Bus) Subscribe(fn func(Event)) {
	if fn != nil {
		b.subs = append(b.subs, fn)
	}
}

// Publish delivers events to every subscriber.
func (b *Bus) Publish(events []Event) {
	for _, ev := range events {
		for _, fn := range b.subs {
			fn(ev)
		}
	}
}
