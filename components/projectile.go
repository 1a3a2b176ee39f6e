package components

// Projectile extends an actor that carries damage from its owner.
type Projectile struct {
	OwnerID  ActorID
	Faction  Faction // Side that fired it
	Damage   float64
	Lifetime float64 // Seconds left before self-destruction
	Speed    float64

	Guided   bool
	TargetID ActorID
	TurnRate float64 // Radians per second

	Knockback float64
	Charged   bool // Fired by a charge release
	// Spent is set on the first qualifying hit; a spent projectile never hits again.
	Spent bool
}

// PickupKind is what a pickup grants.
type PickupKind uint8

const (
	PickupAmmo PickupKind = iota
	PickupHeal
	PickupVitality
)

func (k PickupKind) String() string {
	switch k {
	case PickupAmmo:
		return "ammo"
	case PickupHeal:
		return "heal"
	case PickupVitality:
		return "vitality"
	}
	return "unknown"
}

// Pickup is a collectible dropped by a defeated enemy.
type Pickup struct {
	Kind     PickupKind
	Amount   float64
	Lifetime float64
	Taken    bool
}

// Obstacle tags static blockers placed by the scene.
type Obstacle struct {
	Size Rect
}
