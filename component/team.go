package component

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Team identifies which side an entity fights for.
type Team int

const (
	TeamHome Team = iota
	TeamAway
	TeamNeutral
)

func (t Team) String() string {
	switch t {
	case TeamHome:
		return "home"
	case TeamAway:
		return "away"
	case TeamNeutral:
		return "neutral"
	default:
		return fmt.Sprintf("team(%d)", int(t))
	}
}

// Opposes reports whether an entity on t may attack an entity on other.
func (t Team) Opposes(other Team) bool {
	return t != other
}

func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home":
		return TeamHome, nil
	case "away":
		return TeamAway, nil
	case "neutral", "":
		return TeamNeutral, nil
	default:
		return TeamNeutral, fmt.Errorf("component: unknown team %q", s)
	}
}

func (t *Team) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("team must be a string")
	}
	parsed, err := ParseTeam(value.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
