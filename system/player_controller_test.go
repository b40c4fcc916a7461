package system

import (
	"image/color"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

const frame = 1.0 / 60

type playerFixture struct {
	p        *PlayerController
	body     *fakeBody
	area     *fakeArea
	feedback *recordingFeedback
	scores   *component.Scoreboard
}

func newPlayerFixture(t *testing.T, launcher component.Launcher) *playerFixture {
	t.Helper()
	f := &playerFixture{
		body:     &fakeBody{grounded: true},
		area:     &fakeArea{},
		feedback: &recordingFeedback{},
		scores:   component.NewScoreboard(),
	}
	char := component.NewCharacter("hero", component.TeamHome, component.DefaultStatBlock())
	deps := PlayerDeps{
		Motion:   f.body,
		Area:     f.area,
		Feedback: f.feedback,
		Scores:   f.scores,
		Resolver: component.NewCombatResolver(fixedRoll(0.99)),
		Log:      zerolog.Nop(),
	}
	if launcher != nil {
		deps.Launcher = launcher
	}
	f.p = NewPlayerController(char, DefaultPlayerTuning(), deps)
	require.Equal(t, "idle", f.p.State())
	require.NotNil(t, f.p.deps.Metrics)
	return f
}

// attackAndRecover presses attack and waits out the swing and the cooldown.
func attackAndRecover(p *PlayerController) {
	p.PressAttack()
	p.Tick(frame)
	p.Tick(0.5)
	p.Tick(0.5)
}

func TestPlayerIdleAndGrounded(t *testing.T) {
	f := newPlayerFixture(t, nil)

	f.p.SetMove(cp.Vector{X: 1})
	f.p.Tick(frame)
	assert.Equal(t, "grounded", f.p.State())
	assert.Equal(t, colornames.Lightskyblue, f.feedback.last())

	f.p.FixedTick(0.1)
	assert.InDelta(t, 0.5, f.body.pos.X, 1e-9)
	assert.InDelta(t, 5.0, f.p.Velocity().X, 1e-9)

	f.p.SetMove(cp.Vector{})
	f.p.Tick(frame)
	assert.Equal(t, "idle", f.p.State())
	assert.Zero(t, f.p.Velocity().X)
}

func TestPlayerMoveInputIsClamped(t *testing.T) {
	f := newPlayerFixture(t, nil)

	f.p.SetMove(cp.Vector{X: 3, Y: 4})
	f.p.Tick(frame)
	f.p.FixedTick(1)

	assert.InDelta(t, 5.0, math.Hypot(f.p.Velocity().X, f.p.Velocity().Z), 1e-9)
}

func TestPlayerJumpDoubleJumpAndBuffer(t *testing.T) {
	f := newPlayerFixture(t, nil)
	jumpV := common.JumpVelocity(1, -25)

	f.p.PressJump()
	f.p.Tick(frame)
	assert.InDelta(t, jumpV, f.p.Velocity().Y, 1e-9)
	assert.Equal(t, 1, f.p.JumpsRemaining())

	f.body.grounded = false
	f.p.Tick(frame)
	require.Equal(t, "airborne", f.p.State())

	f.p.ReleaseJump()
	f.p.PressJump()
	f.p.FixedTick(0.02)
	assert.Equal(t, 0, f.p.JumpsRemaining())
	assert.InDelta(t, jumpV+6, f.p.Velocity().Y, 1e-9)
	assert.Equal(t, colornames.Lime, f.feedback.last())

	// No charge left: the press stays buffered.
	f.p.ReleaseJump()
	f.p.PressJump()
	f.p.FixedTick(0.02)
	assert.Equal(t, 0, f.p.JumpsRemaining())

	f.p.ReleaseJump()
	f.body.grounded = true
	f.p.Tick(frame)
	assert.Equal(t, "idle", f.p.State())
	assert.Equal(t, 1, f.p.JumpsRemaining())
	assert.InDelta(t, -2.0, f.p.Velocity().Y, 1e-9)

	f.p.Tick(frame)
	assert.InDelta(t, jumpV, f.p.Velocity().Y, 1e-9, "buffered press jumps on landing")
}

func TestPlayerFallingAppliesGravity(t *testing.T) {
	f := newPlayerFixture(t, nil)
	f.body.grounded = false
	f.p.Tick(frame)
	require.Equal(t, "airborne", f.p.State())

	before := f.p.Velocity().Y
	f.p.FixedTick(0.1)
	assert.InDelta(t, before-2.5, f.p.Velocity().Y, 1e-9)
}

func TestPlayerJumpHoldShapesAscent(t *testing.T) {
	const step = 0.02
	tuning := DefaultPlayerTuning()
	g := tuning.Gravity

	tests := []struct {
		name    string
		hold    bool
		firstVy float64
		color   color.Color
	}{
		{
			name:    "held jump keeps the high launch speed",
			hold:    true,
			firstVy: common.JumpVelocity(tuning.MaxJumpHeight, g) + g*step,
			color:   colornames.Orange,
		},
		{
			name:    "early release adds low-jump gravity",
			hold:    false,
			firstVy: common.JumpVelocity(tuning.InitialJumpHeight, g) + g*step + g*tuning.LowJumpMultiplier*step,
			color:   colornames.Yellow,
		},
	}

	peaks := make(map[bool]float64)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlayerFixture(t, nil)
			f.p.PressJump()
			f.p.Tick(frame)
			f.body.grounded = false
			f.p.Tick(frame)
			require.Equal(t, "airborne", f.p.State())

			if !tt.hold {
				f.p.ReleaseJump()
			}
			f.p.FixedTick(step)
			assert.InDelta(t, tt.firstVy, f.p.Velocity().Y, 1e-9)
			assert.Equal(t, tt.color, f.feedback.last())

			for range 9 {
				f.p.FixedTick(step)
			}
			peaks[tt.hold] = f.body.peak
		})
	}
	assert.Greater(t, peaks[true], peaks[false])
}

func TestPlayerJumpReleaseMidAscent(t *testing.T) {
	const step = 0.02
	tuning := DefaultPlayerTuning()
	f := newPlayerFixture(t, nil)
	f.p.PressJump()
	f.p.Tick(frame)
	f.body.grounded = false
	f.p.Tick(frame)

	f.p.FixedTick(step)
	before := f.p.Velocity().Y
	require.Positive(t, before)

	f.p.ReleaseJump()
	f.p.FixedTick(step)
	drop := tuning.Gravity*step + tuning.Gravity*tuning.LowJumpMultiplier*step
	assert.InDelta(t, before+drop, f.p.Velocity().Y, 1e-9)
}

func TestPlayerLandsIntoGroundedWithMoveInput(t *testing.T) {
	f := newPlayerFixture(t, nil)
	f.body.grounded = false
	f.p.Tick(frame)
	require.Equal(t, "airborne", f.p.State())

	f.p.SetMove(cp.Vector{Y: 1})
	f.body.grounded = true
	f.p.Tick(frame)
	assert.Equal(t, "grounded", f.p.State())
}

func TestPlayerAttackCooldownAndCombo(t *testing.T) {
	f := newPlayerFixture(t, nil)
	enemy := placed("camp", component.TeamAway, common.V3(1, 0, 0))
	f.area.chars = []*component.Character{enemy}

	f.p.PressAttack()
	f.p.Tick(frame)
	assert.Equal(t, "attacking", f.p.State())
	assert.Equal(t, 95, enemy.Health)
	assert.InDelta(t, 1.0, f.p.AttackCooldown(), 1e-9)
	assert.Equal(t, 1, f.p.Character().ComboCount())

	f.p.PressAttack()
	f.p.Tick(0.5)
	assert.Equal(t, "idle", f.p.State())
	f.p.Tick(frame)
	assert.Equal(t, "idle", f.p.State(), "press during cooldown is dropped")
	assert.Equal(t, 95, enemy.Health)

	f.p.Tick(0.5)
	attackAndRecover(f.p)
	assert.Equal(t, 90, enemy.Health)
	assert.True(t, f.p.Character().IsNextAttackEmpowered())

	attackAndRecover(f.p)
	assert.Equal(t, 83, enemy.Health, "empowered melee deals 1.5x")
	assert.Equal(t, 0, f.p.Character().ComboCount())
}

func TestPlayerAttackSlowsMovement(t *testing.T) {
	f := newPlayerFixture(t, nil)
	f.p.SetMove(cp.Vector{X: 1})
	f.p.PressAttack()
	f.p.Tick(frame)
	require.Equal(t, "attacking", f.p.State())

	samples := []struct {
		name    string
		advance float64
		speed   float64
	}{
		{"swing starts at full speed", 0, 5},
		{"halfway through", 0.25, 3.75},
		{"nearly done", 0.24, 2.55},
	}
	for _, s := range samples {
		f.p.Tick(s.advance)
		require.Equal(t, "attacking", f.p.State(), s.name)
		f.p.FixedTick(0.02)
		assert.InDelta(t, s.speed, f.p.Velocity().X, 1e-9, s.name)
	}

	f.p.Tick(0.02)
	assert.Equal(t, "idle", f.p.State())
}

func TestPlayerAttackMotionFollowsReturnState(t *testing.T) {
	tests := []struct {
		name     string
		airborne bool
		state    string
		wantVy   float64
	}{
		{name: "grounded swing keeps footing", state: "idle", wantVy: -2},
		{name: "air swing keeps falling", airborne: true, state: "airborne", wantVy: -2 - 25*0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlayerFixture(t, nil)
			if tt.airborne {
				f.body.grounded = false
				f.p.Tick(frame)
				require.Equal(t, "airborne", f.p.State())
			}
			f.p.SetMove(cp.Vector{X: 1})
			f.p.PressAttack()
			f.p.Tick(frame)
			require.Equal(t, "attacking", f.p.State())

			f.p.FixedTick(0.1)
			assert.InDelta(t, tt.wantVy, f.p.Velocity().Y, 1e-9)
			assert.InDelta(t, 5.0, f.p.Velocity().X, 1e-9)

			f.p.Tick(0.5)
			assert.Equal(t, tt.state, f.p.State())
		})
	}
}

func TestPlayerAttackIgnoresTeammates(t *testing.T) {
	f := newPlayerFixture(t, nil)
	ally := placed("ally", component.TeamHome, common.V3(0.5, 0, 0))
	enemy := placed("camp", component.TeamAway, common.V3(1.5, 0, 0))
	f.area.chars = []*component.Character{ally, enemy}

	attackAndRecover(f.p)
	assert.Equal(t, 100, ally.Health)
	assert.Equal(t, 95, enemy.Health)
}

func TestPlayerAttackRevealsConcealment(t *testing.T) {
	f := newPlayerFixture(t, nil)
	char := f.p.Character()
	char.SetConcealment(true)
	assert.InDelta(t, concealedAlpha, f.feedback.alpha, 1e-9)

	f.p.PressAttack()
	f.p.Tick(frame)
	assert.True(t, char.Revealed())
	assert.InDelta(t, 2.0, char.RevealRemaining(), 1e-9)
	assert.False(t, char.ConcealedFrom(component.TeamAway))
	assert.InDelta(t, 1.0, f.feedback.alpha, 1e-9)
}

func TestPlayerEmpoweredAttackFiresProjectile(t *testing.T) {
	launcher := &fakeLauncher{}
	f := newPlayerFixture(t, launcher)
	enemy := placed("camp", component.TeamAway, common.V3(1, 0, 0))
	f.area.chars = []*component.Character{enemy}
	f.p.Character().PerformBasicAttack()
	f.p.Character().PerformBasicAttack()

	f.p.PressAttack()
	f.p.Tick(frame)

	require.Len(t, launcher.launches, 1)
	assert.Same(t, f.p.Character(), launcher.launches[0].owner)
	assert.Equal(t, cp.Vector{X: 1}, launcher.launches[0].dir)
	assert.Equal(t, 100, enemy.Health, "projectile replaces the melee hit")
	assert.Equal(t, 0, f.p.Character().ComboCount())
}

func TestPlayerProjectileAimsAtTarget(t *testing.T) {
	launcher := &fakeLauncher{}
	f := newPlayerFixture(t, launcher)
	enemy := placed("camp", component.TeamAway, common.V3(3, 0, 4))
	f.p.deps.Targeting = fixedTarget{c: enemy}
	f.p.Character().PerformBasicAttack()
	f.p.Character().PerformBasicAttack()

	f.p.PressAttack()
	f.p.Tick(frame)

	require.Len(t, launcher.launches, 1)
	dir := launcher.launches[0].dir
	assert.InDelta(t, 0.6, dir.X, 1e-9)
	assert.InDelta(t, 0.8, dir.Y, 1e-9)

	f.p.Tick(1)
	f.p.deps.Targeting = fixedTarget{}
	f.p.Character().PerformBasicAttack()
	f.p.Character().PerformBasicAttack()
	f.p.PressAttack()
	f.p.Tick(frame)
	require.Len(t, launcher.launches, 2)
	assert.Equal(t, cp.Vector{X: 1}, launcher.launches[1].dir, "no target fires along the facing")
}

func TestPlayerAirAttackReturnsToAirborne(t *testing.T) {
	f := newPlayerFixture(t, nil)
	f.body.grounded = false
	f.p.Tick(frame)
	require.Equal(t, "airborne", f.p.State())

	f.p.PressAttack()
	f.p.Tick(frame)
	require.Equal(t, "attacking", f.p.State())

	f.p.Tick(0.1)
	assert.Equal(t, "attacking", f.p.State(), "falling does not cancel the swing")

	f.p.Tick(0.5)
	assert.Equal(t, "airborne", f.p.State())
}

func TestPlayerScoring(t *testing.T) {
	f := newPlayerFixture(t, nil)
	zone := component.NewGoalZone("center", component.TeamNeutral, 100)
	f.p.SetCoins(7)
	f.p.EnterZone(zone)
	require.True(t, f.p.CanStartScoring())

	f.p.PressScore()
	f.p.Tick(frame)
	require.Equal(t, "scoring", f.p.State())
	assert.True(t, zone.ScoringIndicator())

	f.p.Tick(0.3)
	assert.Equal(t, "scoring", f.p.State())

	f.p.ReleaseScore()
	f.p.Tick(frame)
	assert.Equal(t, "idle", f.p.State())
	assert.False(t, zone.ScoringIndicator())
	assert.Equal(t, 100, zone.Capacity)
	assert.Equal(t, 7, f.p.Coins())

	f.p.PressScore()
	f.p.Tick(frame)
	require.Equal(t, "scoring", f.p.State())
	f.p.Tick(0.4)
	f.p.Tick(0.4)

	assert.Equal(t, "idle", f.p.State())
	assert.Equal(t, 93, zone.Capacity)
	assert.Equal(t, 0, f.p.Coins())
	assert.Equal(t, 7, f.scores.Total(component.TeamHome))
	assert.Equal(t, component.ScoringXP(7), f.p.Character().XP)
}

func TestPlayerScoringCancelledByMovement(t *testing.T) {
	f := newPlayerFixture(t, nil)
	zone := component.NewGoalZone("center", component.TeamNeutral, 100)
	f.p.SetCoins(3)
	f.p.EnterZone(zone)

	f.p.PressScore()
	f.p.Tick(frame)
	require.Equal(t, "scoring", f.p.State())

	f.p.SetMove(cp.Vector{X: 1})
	f.p.Tick(frame)
	assert.Equal(t, "idle", f.p.State())
	assert.Equal(t, 3, f.p.Coins())
}

func TestPlayerDeathWhileScoringClearsIndicator(t *testing.T) {
	f := newPlayerFixture(t, nil)
	zone := component.NewGoalZone("center", component.TeamNeutral, 100)
	f.p.SetCoins(3)
	f.p.EnterZone(zone)

	f.p.PressScore()
	f.p.Tick(frame)
	require.Equal(t, "scoring", f.p.State())
	require.True(t, zone.ScoringIndicator())

	f.p.Character().TakeDamage(1000, nil)
	assert.False(t, zone.ScoringIndicator())

	f.p.Tick(1)
	assert.Equal(t, 100, zone.Capacity)
	assert.Equal(t, 3, f.p.Coins())
}

func TestPlayerCanStartScoring(t *testing.T) {
	tests := []struct {
		name  string
		coins int
		zone  *component.GoalZone
		want  bool
	}{
		{"neutral zone", 2, component.NewGoalZone("n", component.TeamNeutral, 10), true},
		{"enemy zone", 2, component.NewGoalZone("a", component.TeamAway, 10), true},
		{"own zone", 2, component.NewGoalZone("h", component.TeamHome, 10), false},
		{"no coins", 0, component.NewGoalZone("n", component.TeamNeutral, 10), false},
		{"broken zone", 2, component.NewGoalZone("b", component.TeamNeutral, 0), false},
		{"no zone", 2, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlayerFixture(t, nil)
			f.p.SetCoins(tt.coins)
			if tt.zone != nil {
				f.p.EnterZone(tt.zone)
			}
			assert.Equal(t, tt.want, f.p.CanStartScoring())
		})
	}
}

func TestPlayerZoneExit(t *testing.T) {
	f := newPlayerFixture(t, nil)
	a := component.NewGoalZone("a", component.TeamNeutral, 10)
	b := component.NewGoalZone("b", component.TeamNeutral, 10)

	f.p.EnterZone(a)
	f.p.EnterZone(b)
	f.p.ExitZone(a)
	assert.Equal(t, component.ScoringZone(b), f.p.Zone())

	f.p.ExitZone(b)
	assert.Nil(t, f.p.Zone())
}

func TestDeadPlayerStopsActing(t *testing.T) {
	f := newPlayerFixture(t, nil)
	f.p.Character().TakeDamage(1000, nil)

	f.p.SetMove(cp.Vector{X: 1})
	f.p.Tick(frame)
	f.p.FixedTick(0.1)
	f.p.CollectCoins(5)

	assert.Equal(t, "idle", f.p.State())
	assert.Zero(t, f.body.pos.X)
	assert.Equal(t, 0, f.p.Coins())
	assert.False(t, f.p.Done())
}
