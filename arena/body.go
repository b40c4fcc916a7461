package arena

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
)

const (
	groundEpsilon  = 1e-6
	arriveDistance = 0.05
)

// ZoneListener is told when its body walks into or out of a goal.
type ZoneListener interface {
	EnterZone(z component.ScoringZone)
	ExitZone(z component.ScoringZone)
}

// Collector picks up coins its body touches.
type Collector interface {
	CollectCoins(n int)
}

// Body is a character's presence in the arena. It serves as both the
// player's Motion and the AI's Navigator.
type Body struct {
	world  *World
	body   *cp.Body
	shape  *cp.Shape
	radius float64
	char   *component.Character
	look   *Appearance

	height  float64
	forward cp.Vector
	moved   bool

	dest  *cp.Vector
	path  []cp.Vector
	speed float64

	listener  ZoneListener
	collector Collector
	goals     map[*Goal]bool
}

var (
	_ component.Motion    = (*Body)(nil)
	_ component.Navigator = (*Body)(nil)
)

func (b *Body) Character() *component.Character { return b.char }
func (b *Body) Radius() float64 { return b.radius }

// Appearance is the body's headless render state.
func (b *Body) Appearance() *Appearance { return b.look }

// Listen routes goal enter and exit events to l.
func (b *Body) Listen(l ZoneListener) { b.listener = l }

// Collect makes the body pick up coins for c.
func (b *Body) Collect(c Collector) { b.collector = c }

func (b *Body) Position() common.Vec3 {
	return common.FromPlane(b.body.Position(), b.height)
}

func (b *Body) IsGrounded() bool {
	return b.height <= groundEpsilon
}

// Move sets the planar velocity for the next step and integrates height,
// which never goes below the ground.
func (b *Body) Move(v common.Vec3, dt float64) {
	b.body.SetVelocity(v.X, v.Z)
	b.height = math.Max(0, b.height+v.Y*dt)
	b.moved = true
}

func (b *Body) Forward() cp.Vector { return b.forward }

func (b *Body) SetForward(dir cp.Vector) {
	if dir.LengthSq() < 1e-9 {
		return
	}
	b.forward = dir.Normalize()
}

// SetDestination plans a route to p. A route is kept while the goal stays
// in the same nav cell.
func (b *Body) SetDestination(p common.Vec3) {
	dest := p.Plane()
	if b.dest != nil && len(b.path) > 0 && b.sameCell(*b.dest, dest) {
		b.dest = &dest
		b.path[len(b.path)-1] = dest
		return
	}
	b.dest = &dest
	b.path = b.world.plan(b.body.Position(), dest)
}

func (b *Body) ResetPath() {
	b.dest = nil
	b.path = nil
}

func (b *Body) Stop() {
	b.ResetPath()
	b.body.SetVelocity(0, 0)
}

// Waypoints returns the remaining route, ending at the destination.
func (b *Body) Waypoints() []cp.Vector { return b.path }

func (b *Body) sameCell(a, c cp.Vector) bool {
	nav := b.world.nav
	if nav == nil {
		return false
	}
	ca, okA := nav.cellOf(a)
	cc, okC := nav.cellOf(c)
	return okA && okC && ca == cc
}

func (b *Body) SetSpeed(speed float64) {
	b.speed = math.Max(0, speed)
}

// Destination reports the current navigation goal.
func (b *Body) Destination() (common.Vec3, bool) {
	if b.dest == nil {
		return common.Vec3{}, false
	}
	return common.FromPlane(*b.dest, 0), true
}

// steer heads toward the destination without overshooting it. Bodies that
// neither navigate nor moved this step come to rest.
func (b *Body) steer(dt float64) {
	if b.dest == nil {
		if !b.moved {
			b.body.SetVelocity(0, 0)
		}
		return
	}
	pos := b.body.Position()
	for len(b.path) > 1 && pos.Distance(b.path[0]) <= waypointReach {
		b.path = b.path[1:]
	}
	target := *b.dest
	if len(b.path) > 1 {
		target = b.path[0]
	}
	to := target.Sub(pos)
	d := to.Length()
	if d <= arriveDistance {
		b.body.SetVelocity(0, 0)
		b.ResetPath()
		return
	}
	if b.speed <= 0 {
		b.body.SetVelocity(0, 0)
		return
	}
	dir := to.Mult(1 / d)
	b.SetForward(dir)
	b.body.SetVelocityVector(dir.Mult(math.Min(b.speed, d/dt)))
}

// clearRocks pushes the body back to the edge of any rock it sank into.
func (b *Body) clearRocks() {
	pos := b.body.Position()
	bb := cp.NewBBForCircle(pos, b.radius)
	b.world.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		r, ok := shape.UserData.(*Rock)
		if !ok {
			return
		}
		away := pos.Sub(r.Center)
		minDist := r.Radius + b.radius
		d := away.Length()
		if d >= minDist {
			return
		}
		dir := cp.Vector{X: 1}
		if d > 1e-9 {
			dir = away.Mult(1 / d)
		}
		pos = r.Center.Add(dir.Mult(minDist))
	}, nil)
	if pos != b.body.Position() {
		b.body.SetPosition(pos)
	}
}

// touchRegions updates concealment and goal membership and returns the
// coins the body picked up.
func (b *Body) touchRegions() []*Coin {
	w := b.world
	pos := b.body.Position()
	inGrass := false
	inGoal := make(map[*Goal]bool, len(b.goals))
	var taken []*Coin

	bb := cp.NewBBForCircle(pos, b.radius)
	w.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		switch r := shape.UserData.(type) {
		case *Grass:
			if pos.Distance(r.Center) <= r.Radius {
				inGrass = true
			}
		case *Goal:
			if pos.Distance(r.Center) <= r.Radius {
				inGoal[r] = true
			}
		case *Coin:
			if !r.taken && b.collector != nil && b.char.IsAlive() && pos.Distance(r.Center) <= b.radius+w.coinRadius {
				r.taken = true
				taken = append(taken, r)
			}
		}
	}, nil)

	b.char.SetConcealment(inGrass)

	for g := range b.goals {
		if !inGoal[g] {
			b.leaveGoal(g)
		}
	}
	for g := range inGoal {
		if !b.goals[g] {
			b.enterGoal(g)
		}
	}
	for _, c := range taken {
		b.collector.CollectCoins(c.Value)
	}
	return taken
}

func (b *Body) enterGoal(g *Goal) {
	b.goals[g] = true
	g.Zone.Enter(b.char)
	if b.listener != nil {
		b.listener.EnterZone(g.Zone)
	}
}

func (b *Body) leaveGoal(g *Goal) {
	delete(b.goals, g)
	g.Zone.Exit(b.char)
	if b.listener != nil {
		b.listener.ExitZone(g.Zone)
	}
}
