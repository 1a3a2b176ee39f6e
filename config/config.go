// Package config provides configuration loading and access for the arena simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation tuning. Nothing in the simulation hard-codes these values.
type Config struct {
	Frame      FrameConfig      `yaml:"frame"`
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Archetypes ArchetypeTable   `yaml:"archetypes"`
	AI         AIConfig         `yaml:"ai"`
	Ranged     RangedConfig     `yaml:"ranged"`
	Turret     TurretConfig     `yaml:"turret"`
	Tunneler   TunnelerConfig   `yaml:"tunneler"`
	Drone      DroneConfig      `yaml:"drone"`
	Splitter   SplitterConfig   `yaml:"splitter"`
	Player     PlayerConfig     `yaml:"player"`
	Melee      MeleeConfig      `yaml:"melee"`
	Charge     ChargeConfig     `yaml:"charge"`
	HitStop    HitStopConfig    `yaml:"hit_stop"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Pickups    PickupConfig     `yaml:"pickups"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Waves      WaveConfig       `yaml:"waves"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// FrameConfig holds per-frame timing parameters.
type FrameConfig struct {
	DT                   float64 `yaml:"dt"`                    // Fixed headless step in seconds
	MaxDT                float64 `yaml:"max_dt"`                // Upper bound on a single frame delta
	ResolutionIterations int     `yaml:"resolution_iterations"` // Pairwise separation passes per frame
	SeparationTolerance  float64 `yaml:"separation_tolerance"`  // Extra push added to each half-penetration
}

// WorldConfig holds the fallback world rectangle used when no terrain reports bounds.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Cap int `yaml:"cap"` // Max live enemies; spawn requests beyond this are dropped
}

// Vec2 is a YAML-friendly pair.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// RectConfig is a bounds rectangle relative to an actor's position.
type RectConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// ArchetypeConfig holds the physical and behavioural defaults shared by every archetype.
type ArchetypeConfig struct {
	MaxHealth        float64    `yaml:"max_health"`
	MoveSpeed        float64    `yaml:"move_speed"`
	Friction         float64    `yaml:"friction"` // Per-1/60s velocity retention
	Gravity          float64    `yaml:"gravity"`
	MaxVelocity      Vec2       `yaml:"max_velocity"` // 0 on an axis = unclamped
	Bounds           RectConfig `yaml:"bounds"`
	ContactDamage    float64    `yaml:"contact_damage"`
	ContactCooldown  float64    `yaml:"contact_cooldown"`
	ContactKnockback float64    `yaml:"contact_knockback"`
	DecisionInterval float64    `yaml:"decision_interval"`
	AggroRange       float64    `yaml:"aggro_range"`
	Aggressiveness   float64    `yaml:"aggressiveness"` // Probability of pursuing when in range
	SeparationRadius float64    `yaml:"separation_radius"`
	HealthJitter     float64    `yaml:"health_jitter"` // +/- fraction applied at spawn
	SpeedJitter      float64    `yaml:"speed_jitter"`
	DropChance       float64    `yaml:"drop_chance"`
}

// ArchetypeTable maps archetype names to their tuning.
type ArchetypeTable map[string]ArchetypeConfig

// UnmarshalYAML decodes each entry on top of the one already in the table, so an overlay file
// only replaces the keys it names.
func (t *ArchetypeTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("archetypes: expected a mapping, got line %d", node.Line)
	}
	if *t == nil {
		*t = make(ArchetypeTable)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("archetypes: %w", err)
		}
		entry := (*t)[name]
		if err := node.Content[i+1].Decode(&entry); err != nil {
			return fmt.Errorf("archetypes.%s: %w", name, err)
		}
		(*t)[name] = entry
	}
	return nil
}

// AIConfig holds generic decision-making parameters.
type AIConfig struct {
	WanderMin          float64 `yaml:"wander_min"`
	WanderMax          float64 `yaml:"wander_max"`
	IdleMin            float64 `yaml:"idle_min"`
	IdleMax            float64 `yaml:"idle_max"`
	RepeatChance       float64 `yaml:"repeat_chance"` // Chance to repeat wander/idle when its duration expires
	WanderSpeedFactor  float64 `yaml:"wander_speed_factor"`
	SeparationStrength float64 `yaml:"separation_strength"`
	TangentialFactor   float64 `yaml:"tangential_factor"`
	DodgeLookahead     float64 `yaml:"dodge_lookahead"`
	DodgeScanRadius    float64 `yaml:"dodge_scan_radius"`
	DodgeCooldown      float64 `yaml:"dodge_cooldown"`
	DodgeDuration      float64 `yaml:"dodge_duration"`
	DodgeSpeedFactor   float64 `yaml:"dodge_speed_factor"`
	AttackRange        float64 `yaml:"attack_range"` // Distance at which melee-class enemies enter attacking
}

// RangedConfig holds kiting enemy parameters.
type RangedConfig struct {
	RetreatDistance  float64 `yaml:"retreat_distance"`
	AttackRange      float64 `yaml:"attack_range"`
	FireCooldown     float64 `yaml:"fire_cooldown"`
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	ProjectileDamage float64 `yaml:"projectile_damage"`
	EscapeDistance   float64 `yaml:"escape_distance"`
	EscapeCooldown   float64 `yaml:"escape_cooldown"`
	EscapeMinRadius  float64 `yaml:"escape_min_radius"`
	EscapeMaxRadius  float64 `yaml:"escape_max_radius"`
}

// TurretConfig holds stationary turret parameters.
type TurretConfig struct {
	Range            float64 `yaml:"range"`
	FireCooldown     float64 `yaml:"fire_cooldown"`
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	ProjectileDamage float64 `yaml:"projectile_damage"`
	Guided           bool    `yaml:"guided"`
	TurnRate         float64 `yaml:"turn_rate"` // Radians per second for guided shots
	DisarmTime       float64 `yaml:"disarm_time"`
}

// TunnelerConfig holds the teleporting boss parameters.
type TunnelerConfig struct {
	TriggerRange     float64 `yaml:"trigger_range"`
	Cooldown         float64 `yaml:"cooldown"`
	Duration         float64 `yaml:"duration"`
	MinRadius        float64 `yaml:"min_radius"`
	MaxRadius        float64 `yaml:"max_radius"`
	AvoidRadius      float64 `yaml:"avoid_radius"`
	PlacementTries   int     `yaml:"placement_tries"`
	TurretChance     float64 `yaml:"turret_chance"`
	TurretCount      int     `yaml:"turret_count"`
	TurretSpread     float64 `yaml:"turret_spread"`
	MagazineSize     int     `yaml:"magazine_size"`
	ReloadTime       float64 `yaml:"reload_time"`
	ShotInterval     float64 `yaml:"shot_interval"`
	ShotRange        float64 `yaml:"shot_range"`
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	ProjectileDamage float64 `yaml:"projectile_damage"`
	DroneCount       int     `yaml:"drone_count"`
	DroneSpread      float64 `yaml:"drone_spread"`
}

// DroneConfig holds self-destructing drone parameters.
type DroneConfig struct {
	ExplosionRadius float64 `yaml:"explosion_radius"`
	ExplosionDamage float64 `yaml:"explosion_damage"`
}

// SplitterConfig holds on-death mitosis parameters.
type SplitterConfig struct {
	ChildCount  int     `yaml:"child_count"`
	HealthScale float64 `yaml:"health_scale"` // < 1: children are weaker
	SpeedScale  float64 `yaml:"speed_scale"`  // > 1: children are faster
	SizeScale   float64 `yaml:"size_scale"`
	Offset      float64 `yaml:"offset"`
}

// PlayerConfig holds player movement parameters.
type PlayerConfig struct {
	Acceleration float64 `yaml:"acceleration"`
	DashSpeed    float64 `yaml:"dash_speed"`
	DashDuration float64 `yaml:"dash_duration"`
	DashCooldown float64 `yaml:"dash_cooldown"`
	StartingAmmo int     `yaml:"starting_ammo"`
	MaxAmmo      int     `yaml:"max_ammo"`
}

// MeleeConfig holds lunge attack parameters.
type MeleeConfig struct {
	Cooldown        float64 `yaml:"cooldown"`
	DetectionRadius float64 `yaml:"detection_radius"`
	LungeSpeed      float64 `yaml:"lunge_speed"`
	Duration        float64 `yaml:"duration"`
	MaxDistance     float64 `yaml:"max_distance"`
	Damage          float64 `yaml:"damage"`
	KnockbackForce  float64 `yaml:"knockback_force"`
	StunDuration    float64 `yaml:"stun_duration"`
}

// ChargeConfig holds charge-and-release ranged attack parameters.
type ChargeConfig struct {
	MaxChargeTime   float64 `yaml:"max_charge_time"`
	MinChargeToFire float64 `yaml:"min_charge_to_fire"`
	MinDamage       float64 `yaml:"min_damage"`
	MaxDamage       float64 `yaml:"max_damage"`
	ProjectileSpeed float64 `yaml:"projectile_speed"`
	KnockbackForce  float64 `yaml:"knockback_force"`
}

// HitStopConfig holds time-dilation response parameters.
type HitStopConfig struct {
	TimeScale   float64 `yaml:"time_scale"`   // Simulation speed while active
	PerDamage   float64 `yaml:"per_damage"`   // Seconds of dilation per point of damage
	MinDuration float64 `yaml:"min_duration"` // Clamp bounds for one pulse
	MaxDuration float64 `yaml:"max_duration"`
}

// ProjectileConfig holds shared projectile parameters.
type ProjectileConfig struct {
	Lifetime float64 `yaml:"lifetime"`
	Size     float64 `yaml:"size"`
}

// PickupConfig holds drop parameters.
type PickupConfig struct {
	Lifetime       float64 `yaml:"lifetime"`
	Size           float64 `yaml:"size"`
	AmmoAmount     int     `yaml:"ammo_amount"`
	HealAmount     float64 `yaml:"heal_amount"`
	VitalityBonus  float64 `yaml:"vitality_bonus"`
	AmmoWeight     float64 `yaml:"ammo_weight"`
	HealWeight     float64 `yaml:"heal_weight"`
	VitalityWeight float64 `yaml:"vitality_weight"`
}

// SpawnConfig holds spawn director parameters.
type SpawnConfig struct {
	MinDistance float64 `yaml:"min_distance"` // Band around the player
	MaxDistance float64 `yaml:"max_distance"`
	EdgeMargin  float64 `yaml:"edge_margin"`
}

// WaveConfig holds wave director parameters.
type WaveConfig struct {
	BaseCount     int                `yaml:"base_count"`
	CountPerWave  int                `yaml:"count_per_wave"`
	MaxCount      int                `yaml:"max_count"`
	SpawnInterval float64            `yaml:"spawn_interval"`
	Countdown     float64            `yaml:"countdown"`
	BossWave      int                `yaml:"boss_wave"`
	BossArchetype string             `yaml:"boss_archetype"`
	FinalWave     int                `yaml:"final_wave"`
	Endless       bool               `yaml:"endless"`
	Unlocks       map[string]int     `yaml:"unlocks"` // archetype name -> first wave it appears
	Weights       map[string]float64 `yaml:"weights"`
	HealthGrowth  float64            `yaml:"health_growth"` // Extra max health fraction per wave
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	DamageSamples int `yaml:"damage_samples"` // Max hit samples kept per wave for percentiles
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameRate float64 // 1/DT
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate rejects tuning that would break simulation invariants.
func (c *Config) Validate() error {
	if c.Frame.DT <= 0 {
		return fmt.Errorf("%w: frame.dt must be positive", ErrInvalid)
	}
	if c.Frame.ResolutionIterations < 0 {
		return fmt.Errorf("%w: frame.resolution_iterations must not be negative", ErrInvalid)
	}
	if c.Population.Cap <= 0 {
		return fmt.Errorf("%w: population.cap must be positive", ErrInvalid)
	}
	if c.Charge.MinChargeToFire < 0 || c.Charge.MinChargeToFire > 1 {
		return fmt.Errorf("%w: charge.min_charge_to_fire must be within [0,1]", ErrInvalid)
	}
	if c.Charge.MinDamage > c.Charge.MaxDamage {
		return fmt.Errorf("%w: charge.min_damage exceeds charge.max_damage", ErrInvalid)
	}
	if c.Charge.MaxChargeTime <= 0 {
		return fmt.Errorf("%w: charge.max_charge_time must be positive", ErrInvalid)
	}
	if c.HitStop.MinDuration > c.HitStop.MaxDuration {
		return fmt.Errorf("%w: hit_stop.min_duration exceeds hit_stop.max_duration", ErrInvalid)
	}
	for name, arch := range c.Archetypes {
		if arch.Bounds.W < 0 || arch.Bounds.H < 0 {
			return fmt.Errorf("%w: archetypes.%s.bounds must have non-negative size", ErrInvalid, name)
		}
		if arch.DecisionInterval < 0 || arch.ContactCooldown < 0 {
			return fmt.Errorf("%w: archetypes.%s has a negative duration", ErrInvalid, name)
		}
	}
	if _, ok := c.Archetypes["melee"]; !ok {
		return fmt.Errorf("%w: archetypes.melee is required as the fallback entry", ErrInvalid)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FrameRate = 1 / c.Frame.DT
}

// Archetype returns the tuning entry for the given archetype name, falling back to melee.
func (c *Config) Archetype(name string) *ArchetypeConfig {
	if arch, ok := c.Archetypes[name]; ok {
		return &arch
	}
	arch := c.Archetypes["melee"]
	return &arch
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
