package system

import (
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/prefabs"
)

// PlayerTuning holds the movement and attack constants of a player.
type PlayerTuning struct {
	Gravity           float64
	InitialJumpHeight float64
	MaxJumpHeight     float64
	DoubleJumpBoost   float64
	JumpHoldDuration  float64
	LowJumpMultiplier float64
	JumpBuffer        float64
	LandingVelocity   float64
	RotationSpeed     float64

	AttackDuration       float64
	AttackMoveMultiplier float64
	MeleeRadius          float64
	RevealOnAttack       float64

	Palette Palette
}

func DefaultPlayerTuning() PlayerTuning {
	return PlayerTuning{
		Gravity:              -25,
		InitialJumpHeight:    1,
		MaxJumpHeight:        1.5,
		DoubleJumpBoost:      6,
		JumpHoldDuration:     0.25,
		LowJumpMultiplier:    2,
		JumpBuffer:           0.15,
		LandingVelocity:      -2,
		RotationSpeed:        15,
		AttackDuration:       0.5,
		AttackMoveMultiplier: 0.5,
		MeleeRadius:          2,
		RevealOnAttack:       2,
		Palette:              DefaultPlayerPalette(),
	}
}

// PlayerTuningFromSpec overlays the non-zero spec values on the defaults.
func PlayerTuningFromSpec(spec *prefabs.PlayerSpec) PlayerTuning {
	t := DefaultPlayerTuning()
	if spec == nil {
		return t
	}
	m := spec.Movement
	setIf(&t.Gravity, m.Gravity)
	setIf(&t.InitialJumpHeight, m.InitialJumpHeight)
	setIf(&t.MaxJumpHeight, m.MaxJumpHeight)
	setIf(&t.DoubleJumpBoost, m.DoubleJumpBoost)
	setIf(&t.JumpHoldDuration, m.JumpHoldDuration)
	setIf(&t.LowJumpMultiplier, m.LowJumpMultiplier)
	setIf(&t.JumpBuffer, m.JumpBuffer)
	setIf(&t.LandingVelocity, m.LandingVelocity)
	setIf(&t.RotationSpeed, m.RotationSpeed)

	a := spec.Attack
	setIf(&t.AttackDuration, a.Duration)
	setIf(&t.AttackMoveMultiplier, a.MoveMultiplier)
	setIf(&t.MeleeRadius, a.MeleeRadius)
	setIf(&t.RevealOnAttack, a.RevealDuration)

	t.Palette = t.Palette.Merge(spec.Colors)
	return t
}

// EnemyTuning holds the perception and death constants of an AI entity.
type EnemyTuning struct {
	LeashRadius     float64
	AttackRadius    float64
	ReturnTolerance float64
	CoinDrop        int
	DeathFade       float64
	CanFollow       bool

	Palette Palette
}

func DefaultEnemyTuning() EnemyTuning {
	return EnemyTuning{
		LeashRadius:     15,
		AttackRadius:    2,
		ReturnTolerance: 1,
		CoinDrop:        3,
		DeathFade:       1.5,
		CanFollow:       true,
		Palette:         DefaultEnemyPalette(),
	}
}

func EnemyTuningFromSpec(spec *prefabs.EnemySpec) EnemyTuning {
	t := DefaultEnemyTuning()
	if spec == nil {
		return t
	}
	setIf(&t.LeashRadius, spec.LeashRadius)
	setIf(&t.AttackRadius, spec.AttackRadius)
	setIf(&t.ReturnTolerance, spec.ReturnTolerance)
	setIf(&t.DeathFade, spec.DeathFade)
	if spec.CoinDrop > 0 {
		t.CoinDrop = spec.CoinDrop
	}
	if spec.CanFollow != nil {
		t.CanFollow = *spec.CanFollow
	}
	t.Palette = t.Palette.Merge(spec.Colors)
	return t
}

// CharacterFromSpec builds a Character from prefab stats, falling back to the
// default stat block when the prefab leaves it empty.
func CharacterFromSpec(name string, team component.Team, stats component.StatBlock, growth *component.Growth) *component.Character {
	if stats == (component.StatBlock{}) {
		stats = component.DefaultStatBlock()
	}
	c := component.NewCharacter(name, team, stats)
	if growth != nil {
		c.Growth = *growth
	}
	return c
}

func setIf(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}
