package component

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRoll float64

func (r fixedRoll) Float64() float64 { return float64(r) }

type countingRoller struct {
	draws int
	value float64
}

func (r *countingRoller) Float64() float64 {
	r.draws++
	return r.value
}

func stats(atk, def int, crit float64) StatBlock {
	s := DefaultStatBlock()
	s.Attack = atk
	s.Defense = def
	s.CritRate = crit
	return s
}

func TestCalculateDamage(t *testing.T) {
	tests := []struct {
		name      string
		atk, def  int
		crit      float64
		roll      float64
		empowered bool
		want      int
		wantCrit  bool
	}{
		{"plain", 10, 5, 0, 0.5, false, 5, false},
		{"defense exceeds attack", 3, 20, 0, 0.5, false, 1, false},
		{"empowered", 10, 5, 0, 0.5, true, 7, false},
		{"crit", 10, 5, 0.5, 0.1, false, 10, true},
		{"empowered crit", 10, 5, 0.5, 0.1, true, 15, true},
		{"roll at crit rate misses", 10, 5, 0.5, 0.5, false, 5, false},
		{"minimum empowered", 1, 1, 0, 0.9, true, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, crit := CalculateDamage(stats(tt.atk, 0, tt.crit), stats(0, tt.def, 0), tt.empowered, fixedRoll(tt.roll))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCrit, crit)
		})
	}
}

func TestCalculateDamageDrawsOnce(t *testing.T) {
	r := &countingRoller{value: 0.99}
	CalculateDamage(stats(10, 0, 0.5), stats(0, 5, 0), true, r)
	assert.Equal(t, 1, r.draws)
}

func TestEmpoweredNeverWeaker(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		atk := StatBlock{Attack: rng.Intn(60), CritRate: rng.Float64()}
		def := StatBlock{Defense: rng.Intn(60)}
		roll := fixedRoll(rng.Float64())

		plain, _ := CalculateDamage(atk, def, false, roll)
		empowered, _ := CalculateDamage(atk, def, true, roll)
		require.GreaterOrEqual(t, empowered, plain)
		require.Positive(t, plain)
	}
}

func TestStrikeAppliesDamageAndEmits(t *testing.T) {
	r := NewCombatResolver(fixedRoll(0.99))
	var events []CombatEvent
	r.Emitter.Handlers = append(r.Emitter.Handlers, func(evt CombatEvent) {
		events = append(events, evt)
	})
	attacker := NewCharacter("a", TeamHome, stats(20, 0, 0))
	target := NewCharacter("t", TeamAway, stats(0, 5, 0))

	evt, ok := r.Strike(attacker, target, false)

	require.True(t, ok)
	assert.Equal(t, 15, evt.Damage)
	assert.Equal(t, 85, target.Health)
	require.Len(t, events, 1)
	assert.False(t, events[0].Killed)
}

func TestStrikeRejectsInvalidParticipants(t *testing.T) {
	r := NewCombatResolver(fixedRoll(0.5))
	alive := newTestCharacter(TeamHome)
	dead := newTestCharacter(TeamAway)
	dead.TakeDamage(1000, nil)

	tests := []struct {
		name             string
		attacker, target *Character
	}{
		{"nil attacker", nil, alive},
		{"nil target", alive, nil},
		{"dead target", alive, dead},
		{"dead attacker", dead, alive},
		{"self", alive, alive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := r.Strike(tt.attacker, tt.target, false)
			assert.False(t, ok)
		})
	}
	assert.Equal(t, 100, alive.Health)
}

func TestStrikeReportsKill(t *testing.T) {
	r := NewCombatResolver(fixedRoll(0.99))
	attacker := NewCharacter("a", TeamHome, stats(50, 0, 0))
	target := NewCharacter("t", TeamAway, stats(0, 0, 0))
	target.Health = 10

	evt, ok := r.Strike(attacker, target, false)
	require.True(t, ok)
	assert.True(t, evt.Killed)
	assert.Equal(t, 2, attacker.Level)
}
