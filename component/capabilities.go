package component

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
)

// Motion moves a body and reports ground contact.
type Motion interface {
	Locator
	IsGrounded() bool
	Move(velocity common.Vec3, dt float64)
	Forward() cp.Vector
	SetForward(dir cp.Vector)
}

// Navigator walks a body toward a destination on its own.
type Navigator interface {
	Locator
	SetDestination(p common.Vec3)
	ResetPath()
	Stop()
	SetSpeed(speed float64)
}

// InputSink receives decoded player intents.
type InputSink interface {
	SetMove(v cp.Vector)
	PressJump()
	ReleaseJump()
	PressAttack()
	PressScore()
	ReleaseScore()
}

// InputSource pushes the intents that occurred up to now into sink.
type InputSource interface {
	Drain(now float64, sink InputSink)
}

// Targeting picks a preferred enemy for ranged attacks.
type Targeting interface {
	FindBestTarget() *Character
}

// Feedback receives fire-and-forget visual state.
type Feedback interface {
	SetColor(c color.Color)
	SetAlpha(a float64)
	SetHighlight(on bool)
}

// ScoringZone is a goal that accepts points.
type ScoringZone interface {
	Owner() Team
	PointDuration() float64
	CanBeScoredBy(team Team) bool
	ScorePoints(amount int) int
	SetScoringIndicator(on bool)
}

// Contact is a Character found by an area query.
type Contact struct {
	Character *Character
	Position  common.Vec3
	Distance  float64
}

// AreaQuery finds characters near a point, nearest first.
type AreaQuery interface {
	Overlap(center common.Vec3, radius float64) []Contact
}

// Launcher spawns a projectile.
type Launcher interface {
	Launch(owner *Character, origin common.Vec3, dir cp.Vector)
}

// LootDropper scatters coins where an entity fell.
type LootDropper interface {
	DropCoins(at common.Vec3, amount int)
}

// ScoreKeeper records team points.
type ScoreKeeper interface {
	AddScore(team Team, points int)
}

var (
	_ ScoringZone = (*GoalZone)(nil)
	_ ScoreKeeper = (*Scoreboard)(nil)
)

// NopFeedback ignores every notification.
type NopFeedback struct{}

func (NopFeedback) SetColor(color.Color) {}
func (NopFeedback) SetAlpha(float64) {}
func (NopFeedback) SetHighlight(bool) {}
