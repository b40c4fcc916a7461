package component

const (
	DefaultGoalCapacity   = 100
	DefaultTimePerPoint   = 0.1
	DefaultZoneHealPerSec = 10
	scoringBonusEvery     = 5
	scoringBonusXP        = 10
)

// ScoringXP is the experience earned for scoring points: one per point plus a
// bonus for every full five.
func ScoringXP(points int) int {
	if points <= 0 {
		return 0
	}
	return points + (points/scoringBonusEvery)*scoringBonusXP
}

// Scoreboard keeps team totals. Neutral points are not tracked.
type Scoreboard struct {
	totals map[Team]int

	OnScore func(team Team, points, total int)
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{totals: make(map[Team]int)}
}

func (s *Scoreboard) AddScore(team Team, points int) {
	if s == nil || points <= 0 || team == TeamNeutral {
		return
	}
	if s.totals == nil {
		s.totals = make(map[Team]int)
	}
	s.totals[team] += points
	if s.OnScore != nil {
		s.OnScore(team, points, s.totals[team])
	}
}

func (s *Scoreboard) Total(team Team) int {
	if s == nil {
		return 0
	}
	return s.totals[team]
}

// GoalZone accepts points until its capacity runs out, then breaks for good.
type GoalZone struct {
	Name         string
	Team         Team
	Capacity     int
	TimePerPoint float64
	HealPerSec   int

	Feedback Feedback

	broken    bool
	scoring   bool
	occupants []*zoneOccupant
}

type zoneOccupant struct {
	char  *Character
	timer float64
}

func NewGoalZone(name string, team Team, capacity int) *GoalZone {
	if capacity < 0 {
		capacity = 0
	}
	return &GoalZone{
		Name:         name,
		Team:         team,
		Capacity:     capacity,
		TimePerPoint: DefaultTimePerPoint,
		HealPerSec:   DefaultZoneHealPerSec,
		broken:       capacity <= 0,
	}
}

func (z *GoalZone) Owner() Team {
	if z == nil {
		return TeamNeutral
	}
	return z.Team
}

func (z *GoalZone) PointDuration() float64 {
	if z == nil {
		return 0
	}
	return z.TimePerPoint
}

func (z *GoalZone) Broken() bool {
	return z == nil || z.broken
}

// CanBeScoredBy reports whether team may score here: neutral zones accept
// anyone, owned zones only the other side.
func (z *GoalZone) CanBeScoredBy(team Team) bool {
	if z.Broken() {
		return false
	}
	return z.Team == TeamNeutral || z.Team != team
}

// ScorePoints takes up to amount points and returns how many were accepted.
func (z *GoalZone) ScorePoints(amount int) int {
	if z.Broken() || amount <= 0 {
		return 0
	}
	accepted := min(amount, z.Capacity)
	z.Capacity -= accepted
	if z.Capacity <= 0 {
		z.Capacity = 0
		z.breakZone()
	}
	return accepted
}

func (z *GoalZone) breakZone() {
	z.broken = true
	z.SetScoringIndicator(false)
	z.occupants = nil
	if z.Feedback != nil {
		z.Feedback.SetAlpha(0)
	}
}

func (z *GoalZone) SetScoringIndicator(on bool) {
	if z == nil || z.scoring == on {
		return
	}
	z.scoring = on
	if z.Feedback != nil {
		z.Feedback.SetHighlight(on)
	}
}

func (z *GoalZone) ScoringIndicator() bool {
	return z != nil && z.scoring
}

// Enter registers a Character standing in the zone. Same-team occupants of
// an owned zone are healed on their first tick inside.
func (z *GoalZone) Enter(c *Character) {
	if z.Broken() || c == nil {
		return
	}
	for _, o := range z.occupants {
		if o.char == c {
			return
		}
	}
	z.occupants = append(z.occupants, &zoneOccupant{char: c, timer: 1})
}

func (z *GoalZone) Exit(c *Character) {
	if z == nil {
		return
	}
	for i, o := range z.occupants {
		if o.char == c {
			z.occupants = append(z.occupants[:i], z.occupants[i+1:]...)
			return
		}
	}
}

// Tick heals friendly occupants once per second.
func (z *GoalZone) Tick(dt float64) {
	if z.Broken() || z.Team == TeamNeutral || z.HealPerSec <= 0 {
		return
	}
	for _, o := range z.occupants {
		if o.char.Team != z.Team || !o.char.IsAlive() {
			continue
		}
		o.timer += dt
		for o.timer >= 1 {
			o.timer -= 1
			o.char.Heal(z.HealPerSec)
		}
	}
}
