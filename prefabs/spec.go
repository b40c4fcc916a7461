package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/skirmish/component"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

var ErrUnknownAction = errors.New("prefabs: unknown input action")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PlayerSpec tunes a player-controlled entity. Zero values fall back to the
// controller defaults.
type PlayerSpec struct {
	Name       string              `yaml:"name"`
	Team       component.Team      `yaml:"team"`
	Radius     float64             `yaml:"radius"`
	Stats      component.StatBlock `yaml:"stats"`
	Growth     *component.Growth   `yaml:"growth"`
	Movement   MovementSpec        `yaml:"movement"`
	Attack     AttackSpec          `yaml:"attack"`
	Projectile *ProjectileSpec     `yaml:"projectile"`
	Colors     map[string]Color    `yaml:"colors"`
}

type MovementSpec struct {
	Gravity           float64 `yaml:"gravity"`
	InitialJumpHeight float64 `yaml:"initial_jump_height"`
	MaxJumpHeight     float64 `yaml:"max_jump_height"`
	DoubleJumpBoost   float64 `yaml:"double_jump_boost"`
	JumpHoldDuration  float64 `yaml:"jump_hold_duration"`
	LowJumpMultiplier float64 `yaml:"low_jump_multiplier"`
	JumpBuffer        float64 `yaml:"jump_buffer"`
	LandingVelocity   float64 `yaml:"landing_velocity"`
	RotationSpeed     float64 `yaml:"rotation_speed"`
}

type AttackSpec struct {
	Duration       float64 `yaml:"duration"`
	MoveMultiplier float64 `yaml:"move_multiplier"`
	MeleeRadius    float64 `yaml:"melee_radius"`
	RevealDuration float64 `yaml:"reveal_duration"`
}

type ProjectileSpec struct {
	Speed    float64 `yaml:"speed"`
	Lifetime float64 `yaml:"lifetime"`
	Radius   float64 `yaml:"radius"`
}

// EnemySpec tunes an AI-controlled entity.
type EnemySpec struct {
	Name            string              `yaml:"name"`
	Team            component.Team      `yaml:"team"`
	Radius          float64             `yaml:"radius"`
	Stats           component.StatBlock `yaml:"stats"`
	Growth          *component.Growth   `yaml:"growth"`
	LeashRadius     float64             `yaml:"leash_radius"`
	AttackRadius    float64             `yaml:"attack_radius"`
	ReturnTolerance float64             `yaml:"return_tolerance"`
	CoinDrop        int                 `yaml:"coin_drop"`
	DeathFade       float64             `yaml:"death_fade"`
	CanFollow       *bool               `yaml:"can_follow"`
	ChaseScript     string              `yaml:"chase_script"`
	Colors          map[string]Color    `yaml:"colors"`
}

type GoalSpec struct {
	Name          string         `yaml:"name"`
	Team          component.Team `yaml:"team"`
	Radius        float64        `yaml:"radius"`
	Capacity      int            `yaml:"capacity"`
	TimePerPoint  float64        `yaml:"time_per_point"`
	HealPerSecond int            `yaml:"heal_per_second"`
}

// ScenarioSpec lays out an arena and the scripted player input.
type ScenarioSpec struct {
	Name    string           `yaml:"name"`
	Player  SpawnSpec        `yaml:"player"`
	Enemies []SpawnSpec      `yaml:"enemies"`
	Goals   []SpawnSpec      `yaml:"goals"`
	Grass   []RegionSpec     `yaml:"grass"`
	Rocks   []RegionSpec     `yaml:"rocks"`
	Coins   []CoinSpec       `yaml:"coins"`
	Inputs  []InputEventSpec `yaml:"inputs"`
}

type SpawnSpec struct {
	Name   string          `yaml:"name"`
	Prefab string          `yaml:"prefab"`
	X      float64         `yaml:"x"`
	Z      float64         `yaml:"z"`
	Team   *component.Team `yaml:"team"`
	Coins  int             `yaml:"coins"`
}

type RegionSpec struct {
	X      float64 `yaml:"x"`
	Z      float64 `yaml:"z"`
	Radius float64 `yaml:"radius"`
}

type CoinSpec struct {
	X     float64 `yaml:"x"`
	Z     float64 `yaml:"z"`
	Value int     `yaml:"value"`
}

// InputAction names a scripted player intent.
type InputAction string

const (
	ActionMove         InputAction = "move"
	ActionJump         InputAction = "jump"
	ActionJumpRelease  InputAction = "jump_release"
	ActionAttack       InputAction = "attack"
	ActionScore        InputAction = "score"
	ActionScoreRelease InputAction = "score_release"
)

type InputEventSpec struct {
	At     float64     `yaml:"at"`
	Action InputAction `yaml:"action"`
	X      float64     `yaml:"x"`
	Z      float64     `yaml:"z"`
}

func (a *InputAction) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("action must be a string")
	}
	switch act := InputAction(strings.ToLower(value.Value)); act {
	case ActionMove, ActionJump, ActionJumpRelease, ActionAttack, ActionScore, ActionScoreRelease:
		*a = act
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, value.Value)
	}
}

func LoadPlayerSpec(name string) (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadEnemySpec(name string) (*EnemySpec, error) {
	spec, err := LoadSpec[EnemySpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadGoalSpec(name string) (*GoalSpec, error) {
	spec, err := LoadSpec[GoalSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadScenarioSpec(name string) (*ScenarioSpec, error) {
	spec, err := LoadSpec[ScenarioSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Color decodes "#rrggbb", "#rrggbbaa" or an SVG color name.
type Color struct {
	color.Color
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
