package system

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/fsm"
)

type playerIdleState struct{ p *PlayerController }

type playerGroundedState struct{ p *PlayerController }

type playerAirborneState struct {
	p             *PlayerController
	jumpHoldTimer float64
}

type playerAttackState struct {
	p          *PlayerController
	returnTo   fsm.State
	timer      float64
	normalized float64
}

type playerScoringState struct {
	p     *PlayerController
	zone  component.ScoringZone
	timer float64
}

func (s *playerIdleState) Name() string { return "idle" }
func (s *playerIdleState) Enter() {
	s.p.land()
	s.p.velocity.X, s.p.velocity.Z = 0, 0
	s.p.setColor("idle")
}
func (s *playerIdleState) Exit() {}
func (s *playerIdleState) Update(dt float64) {
	p := s.p
	if p.consumeAttackPress() {
		p.executeAttack(s)
		return
	}
	if p.consumeJumpBuffer() {
		p.jump()
		return
	}
	if p.scoreHeld && p.CanStartScoring() {
		p.machine.ChangeState(p.scoring)
		return
	}
	if p.hasMoveInput() {
		p.machine.ChangeState(p.grounded)
	}
}
func (s *playerIdleState) FixedUpdate(dt float64) {
	s.p.move(common.Vec3{Y: s.p.velocity.Y}, dt)
}

func (s *playerGroundedState) Name() string { return "grounded" }
func (s *playerGroundedState) Enter() {
	s.p.land()
	s.p.setColor("moving")
}
func (s *playerGroundedState) Exit() {}
func (s *playerGroundedState) Update(dt float64) {
	p := s.p
	if p.consumeAttackPress() {
		p.executeAttack(p.idle)
		return
	}
	if p.consumeJumpBuffer() {
		p.jump()
		return
	}
	if p.scoreHeld && p.CanStartScoring() {
		p.machine.ChangeState(p.scoring)
		return
	}
	if !p.hasMoveInput() {
		p.machine.ChangeState(p.idle)
	}
}
func (s *playerGroundedState) FixedUpdate(dt float64) {
	s.p.integrateGrounded(dt, 1)
}

func (s *playerAirborneState) Name() string { return "airborne" }
func (s *playerAirborneState) Enter() {
	s.jumpHoldTimer = s.p.tuning.JumpHoldDuration
	s.p.setColor("airborne")
}
func (s *playerAirborneState) Exit() {
	s.p.velocity.Y = s.p.tuning.LandingVelocity
}
func (s *playerAirborneState) Update(dt float64) {
	p := s.p
	if p.consumeAttackPress() {
		p.executeAttack(s)
	}
}
func (s *playerAirborneState) FixedUpdate(dt float64) {
	p := s.p
	t := p.tuning

	if p.jumpsRemaining > 0 && p.consumeJumpBuffer() {
		p.jumpsRemaining--
		p.velocity.Y += t.DoubleJumpBoost
		p.setColor("double_jump")
		p.move(common.Vec3{Y: p.velocity.Y}, dt)
		return
	}

	if p.velocity.Y > 0 && p.jumpHeld && s.jumpHoldTimer > 0 {
		p.velocity.Y = common.JumpVelocity(t.MaxJumpHeight, t.Gravity)
		s.jumpHoldTimer -= dt
		p.setColor("high_jump")
	} else {
		p.setColor("airborne")
	}

	ascending := p.velocity.Y > 0
	p.velocity.Y += t.Gravity * dt
	if ascending && !p.jumpHeld {
		p.velocity.Y += t.Gravity * t.LowJumpMultiplier * dt
	}

	speed := p.char.Stats.Speed
	p.velocity.X = p.moveInput.X * speed
	p.velocity.Z = p.moveInput.Y * speed
	p.move(p.velocity, dt)
}

func (s *playerAttackState) Name() string { return "attacking" }
func (s *playerAttackState) Enter() {
	p := s.p
	if s.returnTo == nil {
		s.returnTo = p.idle
	}
	s.timer = p.tuning.AttackDuration
	s.normalized = 0

	empowered := p.char.IsNextAttackEmpowered()
	if empowered {
		p.setColor("empowered")
	} else {
		p.setColor("attacking")
	}
	if empowered && p.deps.Launcher != nil {
		p.fireProjectile()
	} else {
		p.meleeStrike(empowered)
	}
	p.char.PerformBasicAttack()
}
func (s *playerAttackState) Exit() {}
func (s *playerAttackState) Update(dt float64) {
	s.timer -= dt
	if d := s.p.tuning.AttackDuration; d > 0 {
		s.normalized = common.Clamp01(1 - s.timer/d)
	} else {
		s.normalized = 1
	}
	if s.timer <= 0 {
		s.p.machine.ChangeState(s.returnTo)
	}
}
func (s *playerAttackState) FixedUpdate(dt float64) {
	p := s.p
	scale := s.speedScale()
	if s.returnTo == fsm.State(p.airborne) {
		p.integrateFalling(dt, scale)
		return
	}
	p.integrateGrounded(dt, scale)
}

// speedScale is the movement multiplier currently applied by the attack.
func (s *playerAttackState) speedScale() float64 {
	return common.Lerp(1, s.p.tuning.AttackMoveMultiplier, s.normalized)
}

func (s *playerScoringState) Name() string { return "scoring" }
func (s *playerScoringState) Enter() {
	p := s.p
	s.zone = p.zone
	s.timer = float64(p.coins) * s.zone.PointDuration()
	s.zone.SetScoringIndicator(true)
	p.velocity.X, p.velocity.Z = 0, 0
	p.setColor("scoring")
	p.log.Debug().Int("coins", p.coins).Float64("duration", s.timer).Msg("player scoring")
}
func (s *playerScoringState) Exit() {
	if s.zone != nil {
		s.zone.SetScoringIndicator(false)
	}
	s.zone = nil
}
func (s *playerScoringState) Update(dt float64) {
	p := s.p
	s.timer -= dt
	if s.timer <= 0 {
		p.commitScore(s.zone)
		p.machine.ChangeState(p.idle)
		return
	}
	if !p.scoreHeld || p.hasMoveInput() {
		p.log.Debug().Float64("remaining", s.timer).Msg("player scoring cancelled")
		p.machine.ChangeState(p.idle)
	}
}
func (s *playerScoringState) FixedUpdate(dt float64) {
	s.p.move(common.Vec3{Y: s.p.velocity.Y}, dt)
}
