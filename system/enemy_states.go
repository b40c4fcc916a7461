package system

type enemyIdleState struct{ e *EnemyController }

type enemyCombatState struct {
	e           *EnemyController
	attackTimer float64
}

type enemyReturnState struct{ e *EnemyController }

func (s *enemyIdleState) Name() string { return "idle" }
func (s *enemyIdleState) Enter() {
	e := s.e
	e.setColor("idle")
	if e.deps.Nav != nil {
		e.deps.Nav.Stop()
	}
	e.LoseAggro()
}
func (s *enemyIdleState) Exit() {}
func (s *enemyIdleState) Update(dt float64) {}
func (s *enemyIdleState) FixedUpdate(dt float64) {}

func (s *enemyCombatState) Name() string { return "combat" }
func (s *enemyCombatState) Enter() {
	s.e.setColor("combat")
	s.attackTimer = s.e.char.Stats.AttackCooldown()
}
func (s *enemyCombatState) Exit() {
	if s.e.deps.Nav != nil {
		s.e.deps.Nav.ResetPath()
	}
}
func (s *enemyCombatState) Update(dt float64) {
	e := s.e
	pos, ok := e.target.Position()
	if !ok {
		return
	}
	if e.deps.Nav != nil {
		e.deps.Nav.SetDestination(pos)
	}
	s.attackTimer -= dt
	if s.attackTimer <= 0 && e.targetInRange(e.tuning.AttackRadius) {
		e.strike()
		s.attackTimer = e.char.Stats.AttackCooldown()
	}
}
func (s *enemyCombatState) FixedUpdate(dt float64) {}

func (s *enemyReturnState) Name() string { return "return" }
func (s *enemyReturnState) Enter() {
	e := s.e
	e.setColor("return")
	e.LoseAggro()
	if e.deps.Nav != nil {
		e.deps.Nav.SetDestination(e.spawn)
	}
}
func (s *enemyReturnState) Exit() {}
func (s *enemyReturnState) Update(dt float64) {}
func (s *enemyReturnState) FixedUpdate(dt float64) {}
