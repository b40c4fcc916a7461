package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/fsm"
	"github.com/milk9111/skirmish/telemetry"
	"github.com/rs/zerolog"
)

// PlayerDeps are the collaborators a PlayerController drives. Any of them
// may be nil; the dependent action is then skipped.
type PlayerDeps struct {
	Motion    component.Motion
	Area      component.AreaQuery
	Targeting component.Targeting
	Launcher  component.Launcher
	Feedback  component.Feedback
	Scores    component.ScoreKeeper
	Resolver  *component.CombatResolver
	Metrics   *telemetry.Metrics
	Log       zerolog.Logger
}

// PlayerController owns the intent buffers and state machine of a
// player-driven Character.
type PlayerController struct {
	char   *component.Character
	tuning PlayerTuning
	deps   PlayerDeps
	log    zerolog.Logger

	machine  *fsm.Machine
	idle     *playerIdleState
	grounded *playerGroundedState
	airborne *playerAirborneState
	attack   *playerAttackState
	scoring  *playerScoringState

	moveInput     cp.Vector
	jumpHeld      bool
	scoreHeld     bool
	attackPressed bool

	jumpBufferTimer float64
	attackCooldown  float64

	velocity       common.Vec3
	jumpsRemaining int
	coins          int
	zone           component.ScoringZone
}

var _ component.InputSink = (*PlayerController)(nil)

func NewPlayerController(char *component.Character, tuning PlayerTuning, deps PlayerDeps) *PlayerController {
	if tuning.Palette == nil {
		tuning.Palette = DefaultPlayerPalette()
	}
	p := &PlayerController{
		char:    char,
		tuning:  tuning,
		deps:    deps,
		log:     deps.Log.With().Str("entity", char.Name).Str("team", char.Team.String()).Logger(),
		machine: fsm.New(),
	}
	if deps.Feedback == nil {
		p.deps.Feedback = component.NopFeedback{}
	}
	if deps.Metrics == nil {
		p.deps.Metrics = telemetry.Noop()
	}
	if deps.Motion != nil {
		char.SetBody(deps.Motion)
	}

	p.idle = &playerIdleState{p: p}
	p.grounded = &playerGroundedState{p: p}
	p.airborne = &playerAirborneState{p: p}
	p.attack = &playerAttackState{p: p}
	p.scoring = &playerScoringState{p: p}

	p.machine.AddAnyTransition(p.airborne, func() bool {
		return !p.isGrounded() && !p.machine.In(p.attack)
	})
	p.machine.AddTransition(p.airborne, p.grounded, func() bool {
		return p.isGrounded() && p.hasMoveInput()
	})
	p.machine.AddTransition(p.airborne, p.idle, func() bool {
		return p.isGrounded() && !p.hasMoveInput()
	})
	p.machine.OnChange = func(from, to fsm.State) {
		p.log.Debug().Str("from", stateName(from)).Str("to", to.Name()).Msg("player state")
		p.deps.Metrics.RecordTransition("player", stateName(from), to.Name())
	}

	char.Subscribe(p.onCharacterEvent)
	p.machine.SetInitialState(p.idle)
	return p
}

func stateName(s fsm.State) string {
	if s == nil {
		return ""
	}
	return s.Name()
}

func (p *PlayerController) Character() *component.Character { return p.char }
func (p *PlayerController) State() string { return p.machine.CurrentName() }
func (p *PlayerController) Velocity() common.Vec3 { return p.velocity }
func (p *PlayerController) JumpsRemaining() int { return p.jumpsRemaining }
func (p *PlayerController) Coins() int { return p.coins }
func (p *PlayerController) AttackCooldown() float64 { return p.attackCooldown }
func (p *PlayerController) Zone() component.ScoringZone { return p.zone }

// Done is always false: a dead player stays in the arena and stops acting.
func (p *PlayerController) Done() bool {
	return false
}

// SetTuning swaps movement constants, e.g. after a prefab reload.
func (p *PlayerController) SetTuning(t PlayerTuning) {
	if t.Palette == nil {
		t.Palette = p.tuning.Palette
	}
	p.tuning = t
}

// Tick advances intent timers then the state machine.
func (p *PlayerController) Tick(dt float64) {
	if !p.char.IsAlive() {
		return
	}
	p.jumpBufferTimer = common.MoveTowards(p.jumpBufferTimer, 0, dt)
	p.attackCooldown = common.MoveTowards(p.attackCooldown, 0, dt)
	p.machine.Tick(dt)
}

// FixedTick integrates motion for one physics step.
func (p *PlayerController) FixedTick(dt float64) {
	if !p.char.IsAlive() {
		return
	}
	p.machine.FixedTick(dt)
}

func (p *PlayerController) SetMove(v cp.Vector) {
	if v.LengthSq() > 1 {
		v = v.Normalize()
	}
	p.moveInput = v
}

func (p *PlayerController) PressJump() {
	p.jumpHeld = true
	p.jumpBufferTimer = p.tuning.JumpBuffer
}

func (p *PlayerController) ReleaseJump() {
	p.jumpHeld = false
}

// PressAttack is ignored while the attack is cooling down.
func (p *PlayerController) PressAttack() {
	if p.attackCooldown <= 0 {
		p.attackPressed = true
	}
}

func (p *PlayerController) PressScore() { p.scoreHeld = true }
func (p *PlayerController) ReleaseScore() { p.scoreHeld = false }

func (p *PlayerController) consumeAttackPress() bool {
	if !p.attackPressed {
		return false
	}
	p.attackPressed = false
	return true
}

func (p *PlayerController) consumeJumpBuffer() bool {
	if p.jumpBufferTimer <= 0 {
		return false
	}
	p.jumpBufferTimer = 0
	return true
}

func (p *PlayerController) hasMoveInput() bool {
	return p.moveInput.LengthSq() > 1e-6
}

func (p *PlayerController) isGrounded() bool {
	if p.deps.Motion == nil {
		return true
	}
	return p.deps.Motion.IsGrounded()
}

func (p *PlayerController) position() common.Vec3 {
	if p.deps.Motion == nil {
		return common.Vec3{}
	}
	return p.deps.Motion.Position()
}

func (p *PlayerController) move(v common.Vec3, dt float64) {
	if p.deps.Motion == nil {
		return
	}
	p.deps.Motion.Move(v, dt)
}

// land refills the jump charge and pins the body to the ground.
func (p *PlayerController) land() {
	p.jumpsRemaining = 1
	p.velocity.Y = p.tuning.LandingVelocity
}

func (p *PlayerController) jump() {
	p.velocity.Y = common.JumpVelocity(p.tuning.InitialJumpHeight, p.tuning.Gravity)
}

// integrateGrounded moves along the ground at speedScale of full speed and
// turns to face the movement.
func (p *PlayerController) integrateGrounded(dt, speedScale float64) {
	speed := p.char.Stats.Speed * speedScale
	p.velocity.X = p.moveInput.X * speed
	p.velocity.Z = p.moveInput.Y * speed
	p.faceMovement(dt)
	p.move(p.velocity, dt)
}

func (p *PlayerController) integrateFalling(dt, speedScale float64) {
	speed := p.char.Stats.Speed * speedScale
	p.velocity.X = p.moveInput.X * speed
	p.velocity.Z = p.moveInput.Y * speed
	p.velocity.Y += p.tuning.Gravity * dt
	p.move(p.velocity, dt)
}

func (p *PlayerController) faceMovement(dt float64) {
	if p.deps.Motion == nil || !p.hasMoveInput() {
		return
	}
	want := p.moveInput.Normalize()
	cur := p.deps.Motion.Forward()
	t := common.Clamp01(p.tuning.RotationSpeed * dt)
	next := cur.Lerp(want, t)
	if next.LengthSq() < 1e-9 {
		next = want
	}
	p.deps.Motion.SetForward(next.Normalize())
}

func (p *PlayerController) facing() cp.Vector {
	if p.deps.Motion == nil {
		return cp.Vector{X: 1}
	}
	f := p.deps.Motion.Forward()
	if f.LengthSq() < 1e-9 {
		return cp.Vector{X: 1}
	}
	return f.Normalize()
}

// executeAttack breaks stealth, arms the cooldown and enters the attack
// state, which returns to returnTo once it finishes.
func (p *PlayerController) executeAttack(returnTo fsm.State) {
	if p.char.InConcealment() {
		p.char.Reveal(p.tuning.RevealOnAttack)
	}
	p.jumpBufferTimer = 0
	p.attackCooldown = p.char.Stats.AttackCooldown()
	p.attack.returnTo = returnTo
	p.machine.ChangeState(p.attack)
}

// meleeStrike hits the nearest living opponent within reach.
func (p *PlayerController) meleeStrike(empowered bool) {
	if p.deps.Area == nil {
		return
	}
	for _, c := range p.deps.Area.Overlap(p.position(), p.tuning.MeleeRadius) {
		target := c.Character
		if target == nil || target == p.char || !target.IsAlive() || !p.char.Team.Opposes(target.Team) {
			continue
		}
		if evt, ok := p.deps.Resolver.Strike(p.char, target, empowered); ok {
			p.log.Info().Str("target", target.Name).Int("damage", evt.Damage).
				Bool("crit", evt.Crit).Bool("empowered", empowered).Msg("player hit")
		}
		return
	}
	p.log.Debug().Msg("player attack whiffed")
}

func (p *PlayerController) fireProjectile() {
	origin := p.position()
	dir := p.facing()
	if p.deps.Targeting != nil {
		if target := p.deps.Targeting.FindBestTarget(); target != nil {
			if at, ok := target.Position(); ok {
				if d := at.Sub(origin).Plane(); d.LengthSq() > 1e-9 {
					dir = d.Normalize()
				}
			}
		}
	}
	p.deps.Launcher.Launch(p.char, origin, dir)
	p.log.Info().Float64("dir_x", dir.X).Float64("dir_z", dir.Y).Msg("player fired projectile")
}

// CanStartScoring reports whether the player holds points and stands in a
// zone it may score at.
func (p *PlayerController) CanStartScoring() bool {
	return p.coins > 0 && p.zone != nil && p.zone.CanBeScoredBy(p.char.Team)
}

func (p *PlayerController) commitScore(zone component.ScoringZone) {
	if zone == nil || p.coins <= 0 {
		return
	}
	accepted := zone.ScorePoints(p.coins)
	if accepted <= 0 {
		return
	}
	p.coins -= accepted
	if p.deps.Scores != nil {
		p.deps.Scores.AddScore(p.char.Team, accepted)
	}
	p.deps.Metrics.RecordScore(p.char.Team, accepted)
	p.char.AddXP(component.ScoringXP(accepted))
	p.log.Info().Int("points", accepted).Int("coins_left", p.coins).Msg("player scored")
}

// EnterZone and ExitZone are driven by goal-zone triggers.
func (p *PlayerController) EnterZone(z component.ScoringZone) {
	p.zone = z
}

func (p *PlayerController) ExitZone(z component.ScoringZone) {
	if p.zone == z {
		p.zone = nil
	}
}

// CollectCoins adds scorable points picked up from the arena.
func (p *PlayerController) CollectCoins(n int) {
	if n <= 0 || !p.char.IsAlive() {
		return
	}
	p.coins += n
	p.log.Debug().Int("coins", p.coins).Msg("player collected coins")
}

func (p *PlayerController) SetCoins(n int) {
	p.coins = max(0, n)
}

func (p *PlayerController) setColor(key string) {
	p.deps.Feedback.SetColor(p.tuning.Palette.Get(key))
}

func (p *PlayerController) onCharacterEvent(evt component.Event) {
	switch evt.Type {
	case component.EventConcealmentChanged, component.EventRevealChanged:
		alpha := 1.0
		if p.char.Hidden() {
			alpha = concealedAlpha
		}
		p.deps.Feedback.SetAlpha(alpha)
	case component.EventLevelUp:
		p.deps.Metrics.RecordLevelUp(p.char.Team)
		p.log.Info().Int("level", evt.Amount).Msg("player leveled up")
	case component.EventDied:
		// The machine stops with the player, so Scoring never exits on its own.
		if p.machine.In(p.scoring) {
			p.scoring.Exit()
		}
		p.log.Info().Msg("player died")
	}
}
