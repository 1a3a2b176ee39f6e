package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Frame.ResolutionIterations)
	assert.InDelta(t, 60.0, cfg.Derived.FrameRate, 0.01)
	assert.Greater(t, cfg.Population.Cap, 0)
	assert.Equal(t, "tunneler", cfg.Waves.BossArchetype)

	for _, name := range []string{"player", "melee", "ranged", "tunneler", "turret", "drone", "splitter", "projectile", "pickup", "static"} {
		_, ok := cfg.Archetypes[name]
		assert.True(t, ok, "missing archetype %q", name)
	}
}

func TestLoadOverlayKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("population:\n  cap: 7\ncharge:\n  max_damage: 90\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Population.Cap)
	assert.Equal(t, 90.0, cfg.Charge.MaxDamage)
	assert.Equal(t, 10.0, cfg.Charge.MinDamage, "keys absent from the file keep their defaults")
}

func TestLoadOverlayMergesArchetypeEntries(t *testing.T) {
	defaults, err := Load("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "override.yaml")
	data := "archetypes:\n  drone:\n    max_health: 5\n    bounds: {w: 20}\n  sentry:\n    max_health: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	want := defaults.Archetypes["drone"]
	want.MaxHealth = 5
	want.Bounds.W = 20
	assert.Equal(t, want, cfg.Archetypes["drone"], "unset drone keys keep their defaults")
	assert.Equal(t, defaults.Archetypes["melee"], cfg.Archetypes["melee"], "entries absent from the file are untouched")
	assert.Equal(t, 3.0, cfg.Archetypes["sentry"].MaxHealth, "new entries are added")
	assert.Len(t, cfg.Archetypes, len(defaults.Archetypes)+1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Frame.DT = 0 }},
		{"negative iterations", func(c *Config) { c.Frame.ResolutionIterations = -1 }},
		{"zero cap", func(c *Config) { c.Population.Cap = 0 }},
		{"min charge above one", func(c *Config) { c.Charge.MinChargeToFire = 1.5 }},
		{"inverted damage bounds", func(c *Config) { c.Charge.MinDamage = 100 }},
		{"zero charge time", func(c *Config) { c.Charge.MaxChargeTime = 0 }},
		{"inverted hit stop", func(c *Config) { c.HitStop.MinDuration = 1 }},
		{"negative bounds", func(c *Config) {
			a := c.Archetypes["drone"]
			a.Bounds.W = -1
			c.Archetypes["drone"] = a
		}},
		{"missing fallback", func(c *Config) { delete(c.Archetypes, "melee") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestArchetypeFallback(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	got := cfg.Archetype("dragon")
	want := cfg.Archetypes["melee"]
	assert.Equal(t, want, *got)

	// Returned entries are copies
	got.MaxHealth = -1
	assert.NotEqual(t, -1.0, cfg.Archetypes["melee"].MaxHealth)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Waves.FinalWave = 3

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Waves.FinalWave)
}

func TestCfgRequiresInit(t *testing.T) {
	prev := global
	t.Cleanup(func() { global = prev })

	global = nil
	assert.Panics(t, func() { Cfg() })

	require.NoError(t, Init(""))
	assert.NotNil(t, Cfg())
}
