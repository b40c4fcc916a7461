package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.Sim.TickRate)
	assert.Equal(t, 50.0, cfg.Sim.PhysicsRate)
	assert.Equal(t, 30*time.Second, cfg.Sim.Duration)
	assert.Equal(t, int64(1), cfg.Sim.Seed)
	assert.Equal(t, "scenario.yaml", cfg.Sim.Scenario)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.InDelta(t, 0.02, cfg.Sim.PhysicsInterval(), 1e-12)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sim:
  tick_rate: 30
  duration: 5s
log:
  level: debug
metrics:
  enabled: true
`), 0o644))
	t.Setenv("SKIRMISH_SIM_SEED", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.Sim.TickRate)
	assert.Equal(t, 5*time.Second, cfg.Sim.Duration)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 50.0, cfg.Sim.PhysicsRate)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  physics_rate: 0\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}
