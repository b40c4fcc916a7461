package prefabs

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/skirmish/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedSpecsDecode(t *testing.T) {
	player, err := LoadPlayerSpec("player.yaml")
	require.NoError(t, err)
	assert.Equal(t, component.TeamHome, player.Team)
	assert.Equal(t, 100, player.Stats.HP)
	assert.Equal(t, -25.0, player.Movement.Gravity)
	assert.Equal(t, 0.5, player.Attack.Duration)
	require.NotNil(t, player.Projectile)
	assert.Equal(t, 15.0, player.Projectile.Speed)
	assert.Contains(t, player.Colors, "attacking")

	camp, err := LoadEnemySpec("prefabs/enemy_camp.yaml")
	require.NoError(t, err)
	assert.Equal(t, component.TeamNeutral, camp.Team)
	assert.Equal(t, 15.0, camp.LeashRadius)
	assert.Nil(t, camp.CanFollow)

	minion, err := LoadEnemySpec("enemy_minion.yaml")
	require.NoError(t, err)
	assert.Equal(t, "chase.tengo", minion.ChaseScript)

	goal, err := LoadGoalSpec("goal.yaml")
	require.NoError(t, err)
	assert.Equal(t, 100, goal.Capacity)

	scenario, err := LoadScenarioSpec("scenario.yaml")
	require.NoError(t, err)
	assert.Equal(t, "player.yaml", scenario.Player.Prefab)
	assert.Len(t, scenario.Enemies, 2)
	require.Len(t, scenario.Goals, 2)
	require.NotNil(t, scenario.Goals[1].Team)
	assert.Equal(t, component.TeamHome, *scenario.Goals[1].Team)
	assert.NotEmpty(t, scenario.Inputs)
	assert.Equal(t, ActionMove, scenario.Inputs[0].Action)
}

func TestLoadSpecMissingFile(t *testing.T) {
	_, err := LoadPlayerSpec("nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: load nope.yaml")
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "goal.yaml"), []byte("name: custom\ncapacity: 5\n"), 0o644))

	goal, err := LoadGoalSpec("goal.yaml")
	require.NoError(t, err)
	assert.Equal(t, "custom", goal.Name)
	assert.Equal(t, 5, goal.Capacity)

	_, ok := ModTime("goal.yaml")
	assert.True(t, ok)
	_, ok = ModTime("player.yaml")
	assert.False(t, ok)
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"chase.tengo", "scripts/chase.tengo", "prefabs/scripts/chase.tengo"} {
		src, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(src), "chase :=")
	}
}

func TestColorDecode(t *testing.T) {
	tests := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{in: "#ff0000", want: color.NRGBA{R: 255, A: 255}},
		{in: "00ff0080", want: color.NRGBA{G: 255, A: 128}},
		{in: "gold", want: color.RGBA{R: 0xff, G: 0xd7, A: 0xff}},
		{in: "#abc", wantErr: true},
		{in: "zzzzzz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c Color
			err := yaml.Unmarshal([]byte(`"`+tt.in+`"`), &c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Color)
		})
	}
}

func TestUnknownInputAction(t *testing.T) {
	var ev InputEventSpec
	err := yaml.Unmarshal([]byte("{at: 1, action: dance}"), &ev)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcherFor(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "player.yaml"), []byte("name: p\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "player.yaml", name)
	case <-time.After(2 * time.Second):
		t.Fatal("no watch event")
	}
}

func TestWatcherWithoutDirectories(t *testing.T) {
	_, err := NewWatcherFor(filepath.Join(t.TempDir(), "missing"))
	var werr *WatchError
	assert.ErrorAs(t, err, &werr)
}
