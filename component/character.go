package component

import "github.com/milk9111/skirmish/common"

const (
	StartingXPToNextLevel = 100
	XPThresholdMultiplier = 1.5
	KillXPReward          = 100
	EmpowerThreshold      = 3
)

// Locator reports where an entity currently is.
type Locator interface {
	Position() common.Vec3
}

// Character is the simulated state of a single entity: stats, health,
// progression, combo and stealth. Methods are nil-safe and a dead Character
// ignores damage, heals and XP.
type Character struct {
	Name   string
	Team   Team
	Stats  StatBlock
	Growth Growth

	Health   int
	Level    int
	XP       int
	XPToNext int

	Events EventEmitter

	dead        bool
	combo       int
	concealed   bool
	revealed    bool
	revealTimer float64
	body        Locator
}

func NewCharacter(name string, team Team, stats StatBlock) *Character {
	stats = stats.sanitized()
	return &Character{
		Name:     name,
		Team:     team,
		Stats:    stats,
		Growth:   DefaultGrowth(),
		Health:   stats.HP,
		Level:    1,
		XPToNext: StartingXPToNextLevel,
	}
}

func (c *Character) Subscribe(h EventHandler) {
	if c == nil {
		return
	}
	c.Events.Subscribe(h)
}

func (c *Character) IsAlive() bool {
	return c != nil && !c.dead
}

func (c *Character) IsDead() bool {
	return c != nil && c.dead
}

func (c *Character) MaxHealth() int {
	if c == nil {
		return 0
	}
	return c.Stats.HP
}

// SetBody attaches the collaborator that knows where this entity stands.
func (c *Character) SetBody(b Locator) {
	if c == nil {
		return
	}
	c.body = b
}

// Position returns the entity position and false when it has no body.
func (c *Character) Position() (common.Vec3, bool) {
	if c == nil || c.body == nil {
		return common.Vec3{}, false
	}
	return c.body.Position(), true
}

// TakeDamage lowers health by amount, clamped to [0, max]. A killing blow
// marks the Character dead and rewards a living source with XP. Returns the
// health actually removed.
func (c *Character) TakeDamage(amount int, source *Character) int {
	if c == nil || c.dead || amount < 0 {
		return 0
	}
	before := c.Health
	c.setHealth(c.Health - amount)
	lost := before - c.Health

	c.emit(Event{Type: EventHealthChanged, Amount: c.Health})
	c.emit(Event{Type: EventDamaged, Source: source, Amount: lost})

	if c.Health <= 0 {
		c.die(source)
	}
	return lost
}

// Heal restores health up to max and returns the amount restored.
func (c *Character) Heal(amount int) int {
	if c == nil || c.dead || amount <= 0 {
		return 0
	}
	before := c.Health
	c.setHealth(c.Health + amount)
	if c.Health != before {
		c.emit(Event{Type: EventHealthChanged, Amount: c.Health})
	}
	return c.Health - before
}

func (c *Character) setHealth(v int) {
	if v < 0 {
		v = 0
	}
	if v > c.Stats.HP {
		v = c.Stats.HP
	}
	c.Health = v
}

func (c *Character) die(killer *Character) {
	if c.dead {
		return
	}
	c.dead = true
	c.emit(Event{Type: EventDied, Source: killer})
	if killer != nil && killer != c && killer.IsAlive() {
		killer.AddXP(KillXPReward)
	}
}

// AddXP grants experience and applies every level-up it pays for.
func (c *Character) AddXP(amount int) {
	if c == nil || c.dead || amount <= 0 {
		return
	}
	c.XP += amount
	for c.XPToNext > 0 && c.XP >= c.XPToNext {
		c.levelUp()
	}
}

func (c *Character) levelUp() {
	c.Level++
	c.XP -= c.XPToNext
	next := int(float64(c.XPToNext) * XPThresholdMultiplier)
	if next < c.XPToNext {
		next = c.XPToNext
	}
	c.XPToNext = next

	c.Stats = c.Growth.Apply(c.Stats).sanitized()
	c.Health = c.Stats.HP

	c.emit(Event{Type: EventLevelUp, Amount: c.Level})
	c.emit(Event{Type: EventHealthChanged, Amount: c.Health})
}

// IsNextAttackEmpowered reports whether the next basic attack completes a
// combo.
func (c *Character) IsNextAttackEmpowered() bool {
	return c != nil && c.combo >= EmpowerThreshold-1
}

// PerformBasicAttack advances the combo counter, wrapping after the
// empowered hit.
func (c *Character) PerformBasicAttack() {
	if c == nil {
		return
	}
	c.combo++
	if c.combo >= EmpowerThreshold {
		c.combo = 0
	}
}

func (c *Character) ComboCount() int {
	if c == nil {
		return 0
	}
	return c.combo
}

// SetConcealment is driven by grass triggers.
func (c *Character) SetConcealment(in bool) {
	if c == nil || c.concealed == in {
		return
	}
	c.concealed = in
	c.emit(Event{Type: EventConcealmentChanged, Flag: in})
}

// Reveal exposes the entity for duration seconds, replacing any running
// reveal.
func (c *Character) Reveal(duration float64) {
	if c == nil {
		return
	}
	if duration <= 0 {
		c.revealTimer = 0
		c.setRevealed(false)
		return
	}
	c.revealTimer = duration
	c.revealed = true
	c.emit(Event{Type: EventRevealChanged, Flag: true})
}

func (c *Character) setRevealed(v bool) {
	if c.revealed == v {
		return
	}
	c.revealed = v
	c.emit(Event{Type: EventRevealChanged, Flag: v})
}

// Tick advances the reveal countdown.
func (c *Character) Tick(dt float64) {
	if c == nil || !c.revealed {
		return
	}
	c.revealTimer -= dt
	if c.revealTimer <= 0 {
		c.revealTimer = 0
		c.setRevealed(false)
	}
}

func (c *Character) InConcealment() bool {
	return c != nil && c.concealed
}

func (c *Character) Revealed() bool {
	return c != nil && c.revealed
}

func (c *Character) RevealRemaining() float64 {
	if c == nil {
		return 0
	}
	return c.revealTimer
}

// Hidden reports whether concealment is currently in effect.
func (c *Character) Hidden() bool {
	return c != nil && c.concealed && !c.revealed
}

// ConcealedFrom reports whether an observer on team cannot see c. Neutral
// observers see everything.
func (c *Character) ConcealedFrom(observer Team) bool {
	return c.Hidden() && observer != TeamNeutral
}

func (c *Character) emit(evt Event) {
	evt.Target = c
	c.Events.Emit(evt)
}
