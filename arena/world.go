package arena

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/logging"
	"github.com/rs/zerolog"
)

const (
	collisionTypeActor cp.CollisionType = iota + 1
	collisionTypeGrass
	collisionTypeGoal
	collisionTypeCoin
	collisionTypeRock
)

const (
	DefaultBodyRadius = 0.5
	DefaultCoinRadius = 0.5
	coinScatter       = 0.75
	queryPadding      = 1.0
	defaultHalfExtent = 32.0
)

// World owns the Chipmunk space the arena's entities move through. The
// ground plane is the space's XY plane; height is tracked per body.
type World struct {
	space *cp.Space
	log   zerolog.Logger

	bodies    []*Body
	maxRadius float64

	grass      []*Grass
	goals      []*Goal
	coins      []*Coin
	coinRadius float64

	rocks  []*Rock
	bounds cp.BB
	nav    *navGrid
}

var (
	_ component.AreaQuery   = (*World)(nil)
	_ component.LootDropper = (*World)(nil)
)

func NewWorld(log zerolog.Logger) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &World{
		space:      space,
		log:        logging.Component(log, "arena"),
		coinRadius: DefaultCoinRadius,
		bounds:     cp.NewBBForExtents(cp.Vector{}, defaultHalfExtent, defaultHalfExtent),
	}
}

// SetBounds sets the area path planning covers.
func (w *World) SetBounds(lo, hi cp.Vector) {
	w.bounds = cp.BB{L: lo.X, B: lo.Y, R: hi.X, T: hi.Y}
	w.nav = nil
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Bodies() []*Body { return w.bodies }
func (w *World) Coins() []*Coin { return w.coins }
func (w *World) Goals() []*Goal { return w.goals }
func (w *World) Rocks() []*Rock { return w.rocks }

// AddBody places a kinematic circle for c at pos and attaches it to c.
func (w *World) AddBody(c *component.Character, pos cp.Vector, radius float64) *Body {
	if radius <= 0 {
		radius = DefaultBodyRadius
	}
	cpBody := cp.NewKinematicBody()
	cpBody.SetPosition(pos)
	shape := cp.NewCircle(cpBody, radius, cp.Vector{})
	shape.SetCollisionType(collisionTypeActor)

	b := &Body{
		world:   w,
		body:    cpBody,
		shape:   shape,
		radius:  radius,
		char:    c,
		forward: cp.Vector{X: 1},
		goals:   make(map[*Goal]bool),
		look:    NewAppearance(),
	}
	shape.UserData = b
	cpBody.UserData = b

	w.space.AddBody(cpBody)
	w.space.AddShape(shape)
	w.bodies = append(w.bodies, b)
	if radius > w.maxRadius {
		w.maxRadius = radius
		w.nav = nil
	}
	c.SetBody(b)
	return b
}

// Remove takes c's body out of the arena and any goal it stood in.
func (w *World) Remove(c *component.Character) {
	for i, b := range w.bodies {
		if b.char != c {
			continue
		}
		for g := range b.goals {
			b.leaveGoal(g)
		}
		w.space.RemoveShape(b.shape)
		w.space.RemoveBody(b.body)
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		return
	}
}

// BodyOf returns the body attached to c, or nil.
func (w *World) BodyOf(c *component.Character) *Body {
	for _, b := range w.bodies {
		if b.char == c {
			return b
		}
	}
	return nil
}

// Step steers navigating bodies, advances the space and fires region
// triggers.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		b.steer(dt)
	}
	w.space.Step(dt)
	for _, b := range w.bodies {
		b.moved = false
		b.clearRocks()
	}
	w.updateTriggers()
}

// Overlap returns the characters whose bodies touch the sphere at center,
// nearest first.
func (w *World) Overlap(center common.Vec3, radius float64) []component.Contact {
	if w == nil || radius < 0 {
		return nil
	}
	var out []component.Contact
	bb := cp.NewBBForCircle(center.Plane(), radius+w.maxRadius+queryPadding)
	w.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		b, ok := shape.UserData.(*Body)
		if !ok || b.char == nil {
			return
		}
		pos := b.Position()
		d := center.Distance(pos)
		if d > radius+b.radius {
			return
		}
		out = append(out, component.Contact{Character: b.char, Position: pos, Distance: d})
	}, nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// DropCoins scatters amount single-point coins around at.
func (w *World) DropCoins(at common.Vec3, amount int) {
	if w == nil || amount <= 0 {
		return
	}
	center := at.Plane()
	for i := range amount {
		angle := 2 * math.Pi * float64(i) / float64(amount)
		offset := cp.Vector{X: math.Cos(angle), Y: math.Sin(angle)}.Mult(coinScatter)
		w.AddCoin(center.Add(offset), 1)
	}
	w.log.Debug().Int("coins", amount).Float64("x", at.X).Float64("z", at.Z).Msg("coins dropped")
}

func (w *World) updateTriggers() {
	var taken []*Coin
	for _, b := range w.bodies {
		if b.char == nil {
			continue
		}
		taken = append(taken, b.touchRegions()...)
	}
	for _, c := range taken {
		w.removeCoin(c)
	}
}

// plan routes from one point to another around rocks. A nil result means
// head straight there.
func (w *World) plan(from, to cp.Vector) []cp.Vector {
	if len(w.rocks) == 0 {
		return nil
	}
	if w.nav == nil {
		w.nav = newNavGrid(cp.Vector{X: w.bounds.L, Y: w.bounds.B}, cp.Vector{X: w.bounds.R, Y: w.bounds.T}, navCellSize)
		for _, r := range w.rocks {
			w.nav.block(r.Center, r.Radius+math.Max(w.maxRadius, DefaultBodyRadius))
		}
	}
	return w.nav.plan(from, to)
}
