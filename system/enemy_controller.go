package system

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/fsm"
	"github.com/milk9111/skirmish/telemetry"
	"github.com/rs/zerolog"
)

// EnemyDeps are the collaborators an EnemyController drives. Nil
// collaborators skip the dependent action.
type EnemyDeps struct {
	Nav      component.Navigator
	Area     component.AreaQuery
	Feedback component.Feedback
	Loot     component.LootDropper
	Resolver *component.CombatResolver
	Chase    ChaseRule
	Metrics  *telemetry.Metrics
	Log      zerolog.Logger
}

// EnemyController runs the Idle/Combat/Return machine of an AI Character.
type EnemyController struct {
	char   *component.Character
	tuning EnemyTuning
	deps   EnemyDeps
	log    zerolog.Logger

	machine *fsm.Machine
	idle    *enemyIdleState
	combat  *enemyCombatState
	ret     *enemyReturnState

	spawn   common.Vec3
	target  *component.Character
	aggroed bool

	dying      bool
	deathTimer float64
	despawned  bool
}

func NewEnemyController(char *component.Character, tuning EnemyTuning, deps EnemyDeps) *EnemyController {
	if tuning.Palette == nil {
		tuning.Palette = DefaultEnemyPalette()
	}
	e := &EnemyController{
		char:    char,
		tuning:  tuning,
		deps:    deps,
		log:     deps.Log.With().Str("entity", char.Name).Str("team", char.Team.String()).Logger(),
		machine: fsm.New(),
	}
	if deps.Feedback == nil {
		e.deps.Feedback = component.NopFeedback{}
	}
	if deps.Metrics == nil {
		e.deps.Metrics = telemetry.Noop()
	}
	if deps.Chase == nil {
		e.deps.Chase = DefaultChase{}
	}
	if deps.Nav != nil {
		char.SetBody(deps.Nav)
		e.spawn = deps.Nav.Position()
		deps.Nav.SetSpeed(char.Stats.Speed)
	}

	e.idle = &enemyIdleState{e: e}
	e.combat = &enemyCombatState{e: e}
	e.ret = &enemyReturnState{e: e}

	e.machine.AddTransition(e.idle, e.combat, func() bool {
		return e.aggroed && e.shouldChase()
	})
	e.machine.AddTransition(e.combat, e.ret, func() bool {
		return !e.shouldChase()
	})
	e.machine.AddTransition(e.ret, e.idle, e.nearSpawn)
	e.machine.OnChange = func(from, to fsm.State) {
		e.log.Debug().Str("from", stateName(from)).Str("to", to.Name()).Msg("ai state")
		e.deps.Metrics.RecordTransition("ai", stateName(from), to.Name())
	}

	char.Subscribe(e.onCharacterEvent)
	e.machine.SetInitialState(e.idle)
	return e
}

func (e *EnemyController) Character() *component.Character { return e.char }
func (e *EnemyController) State() string { return e.machine.CurrentName() }
func (e *EnemyController) Aggroed() bool { return e.aggroed }
func (e *EnemyController) Target() *component.Character { return e.target }
func (e *EnemyController) Spawn() common.Vec3 { return e.spawn }

// Done reports whether the death fade has finished and the entity can be
// removed.
func (e *EnemyController) Done() bool { return e.despawned }

func (e *EnemyController) SetTuning(t EnemyTuning) {
	if t.Palette == nil {
		t.Palette = e.tuning.Palette
	}
	e.tuning = t
}

// SetChase swaps the pursuit rule, e.g. after a script reload.
func (e *EnemyController) SetChase(rule ChaseRule) {
	if rule == nil {
		rule = DefaultChase{}
	}
	e.deps.Chase = rule
}

// SetTarget assigns a target without aggroing on it.
func (e *EnemyController) SetTarget(c *component.Character) {
	e.target = c
}

// AggroOnDamage locks onto whoever hurt this entity.
func (e *EnemyController) AggroOnDamage(source *component.Character) {
	if source == nil || source == e.char || !e.char.IsAlive() {
		return
	}
	e.aggroed = true
	e.target = source
	e.log.Debug().Str("target", source.Name).Msg("ai aggro")
}

func (e *EnemyController) LoseAggro() {
	e.aggroed = false
}

// Tick runs perception, then the state machine. After death it only
// advances the fade-out.
func (e *EnemyController) Tick(dt float64) {
	if e.dying {
		e.tickDeath(dt)
		return
	}
	if !e.char.IsAlive() {
		return
	}
	e.perceive()
	e.machine.Tick(dt)
}

func (e *EnemyController) FixedTick(dt float64) {
	if e.dying || !e.char.IsAlive() {
		return
	}
	e.machine.FixedTick(dt)
}

// perceive drops targets that died and aggro on targets that vanished into
// concealment.
func (e *EnemyController) perceive() {
	if e.target != nil && !e.target.IsAlive() {
		e.target = nil
	}
	if e.aggroed && e.target != nil && e.target.ConcealedFrom(e.char.Team) {
		e.log.Debug().Str("target", e.target.Name).Msg("ai lost target in concealment")
		e.LoseAggro()
	}
}

func (e *EnemyController) chaseInput() ChaseInput {
	in := ChaseInput{
		Aggroed:     e.aggroed,
		CanFollow:   e.tuning.CanFollow,
		LeashRadius: e.tuning.LeashRadius,
	}
	if !e.target.IsAlive() {
		return in
	}
	pos, ok := e.target.Position()
	if !ok {
		return in
	}
	in.HasTarget = true
	in.Concealed = e.target.ConcealedFrom(e.char.Team)
	in.LeashDistance = e.spawn.Distance(pos)
	return in
}

func (e *EnemyController) shouldChase() bool {
	return e.deps.Chase.ShouldChase(e.chaseInput())
}

func (e *EnemyController) position() common.Vec3 {
	if e.deps.Nav == nil {
		return e.spawn
	}
	return e.deps.Nav.Position()
}

func (e *EnemyController) nearSpawn() bool {
	return e.position().PlaneDistance(e.spawn) < e.tuning.ReturnTolerance
}

func (e *EnemyController) targetInRange(radius float64) bool {
	pos, ok := e.target.Position()
	if !ok {
		return false
	}
	return e.position().Distance(pos) <= radius
}

// strike hits the locked target if the area query finds it.
func (e *EnemyController) strike() {
	empowered := e.char.IsNextAttackEmpowered()
	if empowered {
		e.setColor("empowered")
	} else {
		e.setColor("attack")
	}
	if e.deps.Area != nil {
		for _, c := range e.deps.Area.Overlap(e.position(), e.tuning.AttackRadius) {
			if c.Character != e.target || !c.Character.IsAlive() {
				continue
			}
			if evt, ok := e.deps.Resolver.Strike(e.char, c.Character, empowered); ok {
				e.log.Info().Str("target", c.Character.Name).Int("damage", evt.Damage).
					Bool("crit", evt.Crit).Bool("empowered", empowered).Msg("ai hit")
			}
			break
		}
	}
	e.char.PerformBasicAttack()
}

func (e *EnemyController) setColor(key string) {
	e.deps.Feedback.SetColor(e.tuning.Palette.Get(key))
}

func (e *EnemyController) onCharacterEvent(evt component.Event) {
	switch evt.Type {
	case component.EventDamaged:
		e.AggroOnDamage(evt.Source)
	case component.EventLevelUp:
		if e.deps.Nav != nil {
			e.deps.Nav.SetSpeed(e.char.Stats.Speed)
		}
		e.deps.Metrics.RecordLevelUp(e.char.Team)
	case component.EventDied:
		e.beginDeath(evt.Source)
	}
}

func (e *EnemyController) beginDeath(killer *component.Character) {
	if e.dying {
		return
	}
	e.dying = true
	e.deathTimer = e.tuning.DeathFade
	e.aggroed = false
	e.target = nil
	if e.deps.Nav != nil {
		e.deps.Nav.Stop()
	}
	e.setColor("dead")
	if e.deps.Loot != nil && e.tuning.CoinDrop > 0 {
		e.deps.Loot.DropCoins(e.position(), e.tuning.CoinDrop)
	}
	ev := e.log.Info()
	if killer != nil {
		ev = ev.Str("killer", killer.Name)
	}
	ev.Msg("ai died")
	if e.deathTimer <= 0 {
		e.despawned = true
	}
}

func (e *EnemyController) tickDeath(dt float64) {
	if e.despawned {
		return
	}
	e.deathTimer -= dt
	if e.tuning.DeathFade > 0 {
		e.deps.Feedback.SetAlpha(common.Clamp01(e.deathTimer / e.tuning.DeathFade))
	}
	if e.deathTimer <= 0 {
		e.despawned = true
	}
}
