package system

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/prefabs"
)

// ScriptedInput replays a timeline of player intents.
type ScriptedInput struct {
	events []prefabs.InputEventSpec
	next   int
}

var _ component.InputSource = (*ScriptedInput)(nil)

func NewScriptedInput(events []prefabs.InputEventSpec) *ScriptedInput {
	sorted := append([]prefabs.InputEventSpec(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &ScriptedInput{events: sorted}
}

// Drain delivers every event scheduled at or before now.
func (s *ScriptedInput) Drain(now float64, sink component.InputSink) {
	if s == nil || sink == nil {
		return
	}
	for s.next < len(s.events) && s.events[s.next].At <= now {
		ev := s.events[s.next]
		s.next++
		switch ev.Action {
		case prefabs.ActionMove:
			sink.SetMove(cp.Vector{X: ev.X, Y: ev.Z})
		case prefabs.ActionJump:
			sink.PressJump()
		case prefabs.ActionJumpRelease:
			sink.ReleaseJump()
		case prefabs.ActionAttack:
			sink.PressAttack()
		case prefabs.ActionScore:
			sink.PressScore()
		case prefabs.ActionScoreRelease:
			sink.ReleaseScore()
		}
	}
}

// Finished reports whether every event has been delivered.
func (s *ScriptedInput) Finished() bool {
	return s == nil || s.next >= len(s.events)
}
