package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/rs/zerolog"
)

// ChaseInput is what an AI knows about its target when deciding to pursue.
type ChaseInput struct {
	HasTarget     bool
	Aggroed       bool
	Concealed     bool
	CanFollow     bool
	LeashDistance float64
	LeashRadius   float64
}

// ChaseRule decides whether an AI keeps pursuing its target.
type ChaseRule interface {
	ShouldChase(in ChaseInput) bool
}

// DefaultChase pursues a visible, aggroed target that stays inside the leash.
type DefaultChase struct{}

func (DefaultChase) ShouldChase(in ChaseInput) bool {
	return in.HasTarget && !in.Concealed && in.CanFollow && in.Aggroed && in.LeashDistance <= in.LeashRadius
}

// ScriptedChase evaluates a tengo script that assigns a boolean `chase`.
// A script that fails at runtime is abandoned in favour of DefaultChase.
type ScriptedChase struct {
	name     string
	compiled *tengo.Compiled
	fallback ChaseRule
	log      zerolog.Logger
	failed   bool
}

var chaseVars = []string{"has_target", "aggroed", "concealed", "can_follow", "leash_distance", "leash_radius"}

func NewScriptedChase(name string, src []byte, log zerolog.Logger) (*ScriptedChase, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for _, v := range chaseVars {
		var zero any = false
		if v == "leash_distance" || v == "leash_radius" {
			zero = 0.0
		}
		if err := script.Add(v, zero); err != nil {
			return nil, fmt.Errorf("ai: chase script %s: add %s: %w", name, v, err)
		}
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ai: chase script %s: compile: %w", name, err)
	}
	return &ScriptedChase{
		name:     name,
		compiled: compiled,
		fallback: DefaultChase{},
		log:      log,
	}, nil
}

// LoadScriptedChase compiles a script from the prefab scripts folder.
func LoadScriptedChase(name string, log zerolog.Logger) (*ScriptedChase, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("ai: load chase script %s: %w", name, err)
	}
	return NewScriptedChase(name, src, log)
}

func (s *ScriptedChase) ShouldChase(in ChaseInput) bool {
	if s == nil || s.compiled == nil || s.failed {
		return DefaultChase{}.ShouldChase(in)
	}
	chase, err := s.eval(in)
	if err != nil {
		s.failed = true
		s.log.Warn().Err(err).Str("script", s.name).Msg("chase script failed, using default rule")
		return s.fallback.ShouldChase(in)
	}
	return chase
}

func (s *ScriptedChase) eval(in ChaseInput) (bool, error) {
	values := map[string]any{
		"has_target":     in.HasTarget,
		"aggroed":        in.Aggroed,
		"concealed":      in.Concealed,
		"can_follow":     in.CanFollow,
		"leash_distance": in.LeashDistance,
		"leash_radius":   in.LeashRadius,
	}
	for k, v := range values {
		if err := s.compiled.Set(k, v); err != nil {
			return false, err
		}
	}
	if err := s.compiled.Run(); err != nil {
		return false, err
	}
	if !s.compiled.IsDefined("chase") {
		return false, fmt.Errorf("script did not define chase")
	}
	return s.compiled.Get("chase").Bool(), nil
}
