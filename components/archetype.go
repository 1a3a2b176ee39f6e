package components

// Archetype is the behavioural category of an actor. The set is closed; behaviour tables are
// indexed by it.
type Archetype uint8

const (
	ArchPlayer Archetype = iota
	ArchMelee
	ArchRanged
	ArchTunneler
	ArchTurret
	ArchDrone
	ArchSplitter
	ArchProjectile
	ArchPickup
	ArchStatic

	NumArchetypes
)

var archetypeNames = [NumArchetypes]string{
	ArchPlayer:     "player",
	ArchMelee:      "melee",
	ArchRanged:     "ranged",
	ArchTunneler:   "tunneler",
	ArchTurret:     "turret",
	ArchDrone:      "drone",
	ArchSplitter:   "splitter",
	ArchProjectile: "projectile",
	ArchPickup:     "pickup",
	ArchStatic:     "static",
}

// String returns the config key for the archetype.
func (a Archetype) String() string {
	if a < NumArchetypes {
		return archetypeNames[a]
	}
	return "unknown"
}

// ParseArchetype maps a config key back to its archetype.
func ParseArchetype(name string) (Archetype, bool) {
	for i, n := range archetypeNames {
		if n == name {
			return Archetype(i), true
		}
	}
	return 0, false
}

// IsEnemy reports whether the archetype counts toward wave and population bookkeeping.
func (a Archetype) IsEnemy() bool {
	switch a {
	case ArchMelee, ArchRanged, ArchTunneler, ArchTurret, ArchDrone, ArchSplitter:
		return true
	}
	return false
}

// DefaultFaction returns the side an archetype fights for.
func (a Archetype) DefaultFaction() Faction {
	switch {
	case a == ArchPlayer:
		return FactionPlayer
	case a.IsEnemy():
		return FactionEnemy
	}
	return FactionNeutral
}

// State is the actor's single active finite state.
type State uint8

const (
	StateIdle State = iota
	StateMoving
	StateAttacking
	StateCharging
	StateDashing
	StateStunned
	StateTunneling
	StateDead
	StateStatic

	numStates
)

var stateNames = [numStates]string{
	"idle", "moving", "attacking", "charging", "dashing", "stunned", "tunneling", "dead", "static",
}

func (s State) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return "unknown"
}

// StateMask is a set of allowed states.
type StateMask uint16

// MaskOf builds a mask from the given states.
func MaskOf(states ...State) StateMask {
	var m StateMask
	for _, s := range states {
		m |= 1 << s
	}
	return m
}

// Has reports whether s is in the mask.
func (m StateMask) Has(s State) bool {
	return m&(1<<s) != 0
}

// TurretStates is the collapsed state set of a stationary turret.
var TurretStates = MaskOf(StateIdle, StateAttacking, StateDead)
