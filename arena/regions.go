package arena

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/component"
)

// Grass conceals every character standing inside it.
type Grass struct {
	Center cp.Vector
	Radius float64
	shape  *cp.Shape
}

// Goal binds a GoalZone to a circular trigger.
type Goal struct {
	Zone   *component.GoalZone
	Center cp.Vector
	Radius float64
	shape  *cp.Shape
	look   *Appearance
}

func (g *Goal) Appearance() *Appearance { return g.look }

// Coin is a pickup worth Value points.
type Coin struct {
	Center cp.Vector
	Value  int
	shape  *cp.Shape
	taken  bool
}

// Rock is an obstacle bodies path around and are pushed out of.
type Rock struct {
	Center cp.Vector
	Radius float64
	shape  *cp.Shape
}

func (w *World) sensor(center cp.Vector, radius float64, kind cp.CollisionType, data interface{}) *cp.Shape {
	shape := cp.NewCircle(w.space.StaticBody, radius, center)
	shape.SetSensor(true)
	shape.SetCollisionType(kind)
	shape.UserData = data
	return w.space.AddShape(shape)
}

func (w *World) AddGrass(center cp.Vector, radius float64) *Grass {
	g := &Grass{Center: center, Radius: radius}
	g.shape = w.sensor(center, radius, collisionTypeGrass, g)
	w.grass = append(w.grass, g)
	return g
}

// AddGoal places zone at center. The zone's feedback is routed to the
// goal's appearance unless it already has one.
func (w *World) AddGoal(zone *component.GoalZone, center cp.Vector, radius float64) *Goal {
	g := &Goal{Zone: zone, Center: center, Radius: radius, look: NewAppearance()}
	if zone.Feedback == nil {
		zone.Feedback = g.look
	}
	g.shape = w.sensor(center, radius, collisionTypeGoal, g)
	w.goals = append(w.goals, g)
	return g
}

func (w *World) AddRock(center cp.Vector, radius float64) *Rock {
	r := &Rock{Center: center, Radius: radius}
	shape := cp.NewCircle(w.space.StaticBody, radius, center)
	shape.SetCollisionType(collisionTypeRock)
	shape.UserData = r
	r.shape = w.space.AddShape(shape)
	w.rocks = append(w.rocks, r)
	w.nav = nil
	return r
}

func (w *World) AddCoin(center cp.Vector, value int) *Coin {
	if value <= 0 {
		value = 1
	}
	c := &Coin{Center: center, Value: value}
	c.shape = w.sensor(center, w.coinRadius, collisionTypeCoin, c)
	w.coins = append(w.coins, c)
	return c
}

func (w *World) removeCoin(c *Coin) {
	for i, other := range w.coins {
		if other == c {
			w.space.RemoveShape(c.shape)
			w.coins = append(w.coins[:i], w.coins[i+1:]...)
			return
		}
	}
}
