package component

import (
	"math/rand"
	"time"
)

const (
	EmpoweredMultiplier = 1.5
	CritMultiplier      = 2.0
)

// Roller draws uniform numbers in [0, 1). *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// CalculateDamage returns max(1, atk-def), scaled for empowered hits and a
// successful crit roll. It performs exactly one draw from rng.
func CalculateDamage(attacker, defender StatBlock, empowered bool, rng Roller) (int, bool) {
	base := attacker.Attack - defender.Defense
	if base < 1 {
		base = 1
	}
	dmg := float64(base)
	if empowered {
		dmg *= EmpoweredMultiplier
	}
	crit := false
	if rng != nil && rng.Float64() < attacker.CritRate {
		crit = true
		dmg *= CritMultiplier
	}
	out := int(dmg)
	if out < 1 {
		out = 1
	}
	return out, crit
}

// CombatEvent describes a resolved hit.
type CombatEvent struct {
	Attacker  *Character
	Target    *Character
	Damage    int
	Crit      bool
	Empowered bool
	Killed    bool
}

// CombatEventHandler handles combat events.
type CombatEventHandler func(evt CombatEvent)

// CombatEventEmitter allows listeners to observe resolved hits.
type CombatEventEmitter struct {
	Handlers []CombatEventHandler
}

// Emit sends a combat event to all handlers.
func (e *CombatEventEmitter) Emit(evt CombatEvent) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}

// CombatResolver applies damage from one Character to another.
type CombatResolver struct {
	Emitter *CombatEventEmitter

	rng Roller
}

// NewCombatResolver creates a resolver. A nil rng seeds one from the clock.
func NewCombatResolver(rng Roller) *CombatResolver {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CombatResolver{Emitter: &CombatEventEmitter{}, rng: rng}
}

// Strike resolves a basic attack. Nil or dead participants make it a miss.
func (r *CombatResolver) Strike(attacker, target *Character, empowered bool) (CombatEvent, bool) {
	if r == nil || !attacker.IsAlive() || !target.IsAlive() || attacker == target {
		return CombatEvent{}, false
	}
	dmg, crit := CalculateDamage(attacker.Stats, target.Stats, empowered, r.rng)
	target.TakeDamage(dmg, attacker)

	evt := CombatEvent{
		Attacker:  attacker,
		Target:    target,
		Damage:    dmg,
		Crit:      crit,
		Empowered: empowered,
		Killed:    target.IsDead(),
	}
	r.Emitter.Emit(evt)
	return evt, true
}
