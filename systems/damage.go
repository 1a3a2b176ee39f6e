package systems

import (
	"github.com/pthm-cable/brawl/components"
	"github.com/pthm-cable/brawl/telemetry"
)

// ApplyDamage is the single entry point for hurting an actor inside a frame. It runs the
// archetype's damage filter, applies the damage, records it and dispatches death handling on the
// transition to dead. Damage against an already dead actor does nothing.
func ApplyDamage(f *Frame, target *components.Actor, amount float64, source components.ActorID) (dealt float64, died bool) {
	if target.IsDead() || !(amount > 0) {
		return 0, false
	}

	e, beh := enemyOf(f, target)
	if filter, ok := beh.(DamageFilter); ok {
		amount = filter.FilterDamage(f, e, amount)
		if !(amount > 0) {
			return 0, false
		}
	}

	dealt, died = target.TakeDamage(amount)
	emitDamage(f, target, source, dealt)
	if died {
		handleDeath(f, target, e, beh, source)
		return dealt, true
	}
	if reactor, ok := beh.(DamageReactor); ok {
		reactor.AfterDamage(f, e)
	}
	return dealt, false
}

// Destroy kills an actor without damage, running the normal death handling. Returns false when
// the actor was already dead.
func Destroy(f *Frame, target *components.Actor, source components.ActorID) bool {
	if !target.Kill() {
		return false
	}
	e, beh := enemyOf(f, target)
	handleDeath(f, target, e, beh, source)
	return true
}

// enemyOf resolves the brain and behavior of an enemy target. Both are zero for other actors.
func enemyOf(f *Frame, a *components.Actor) (Enemy, Behavior) {
	if !a.Archetype.IsEnemy() {
		return Enemy{}, nil
	}
	b := f.Brain(a.ID)
	if b == nil {
		return Enemy{}, nil
	}
	return Enemy{Actor: a, Brain: b}, BehaviorFor(a.Archetype)
}

func handleDeath(f *Frame, a *components.Actor, e Enemy, beh Behavior, source components.ActorID) {
	switch {
	case a.Archetype == components.ArchPlayer:
		f.Emit(telemetry.NewDeathEvent(f.Tick, a, source))
		f.Emit(telemetry.Event{Type: telemetry.EventPlayerDied, ActorID: a.ID, Archetype: a.Archetype, Pos: a.Center(), SourceID: source})
		if f.Fighter != nil && f.Player == a {
			endLunge(f)
			f.Fighter.Charge = components.Charge{}
		}
		f.Effects.shake(12, 0.4)
		return
	case e.Brain == nil:
		return
	}

	f.Emit(telemetry.NewDeathEvent(f.Tick, a, source))
	e.Brain.Mode = components.AIDead
	f.gridDirty = true
	if routine, ok := beh.(DeathRoutine); ok {
		routine.OnDeath(f, e, source)
		return
	}
	dropLoot(f, e)
}

// dropLoot rolls the enemy's drop chance and leaves a pickup where it died.
func dropLoot(f *Frame, e Enemy) {
	if e.Brain.Roll(e.Brain.DropChance) {
		DropPickup(f, e.Actor.Center())
	}
}
