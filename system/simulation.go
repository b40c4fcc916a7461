package system

import (
	"context"
	"math"
	"time"

	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/logging"
	"github.com/rs/zerolog"
)

// Actor is an entity driven by the simulation loop.
type Actor interface {
	Character() *component.Character
	Tick(dt float64)
	FixedTick(dt float64)
	Done() bool
}

// PhysicsWorld advances collision and trigger state by one fixed step.
type PhysicsWorld interface {
	Step(dt float64)
}

type inputBinding struct {
	src  component.InputSource
	sink component.InputSink
}

// Simulation drives every actor at a variable tick rate and a fixed physics
// rate. It is not safe for concurrent use; run one Simulation per goroutine.
type Simulation struct {
	log         zerolog.Logger
	fixedStep   float64
	maxSubsteps int

	actors      []Actor
	zones       []*component.GoalZone
	inputs      []inputBinding
	projectiles *Projectiles
	physics     PhysicsWorld

	accumulator float64
	elapsed     float64
	ticks       int
	steps       int

	// OnRemove is called for each actor pruned after its Done turned true.
	OnRemove func(a Actor)
}

func NewSimulation(fixedStep float64, maxSubsteps int, log zerolog.Logger) *Simulation {
	if fixedStep <= 0 {
		fixedStep = 0.02
	}
	if maxSubsteps <= 0 {
		maxSubsteps = 8
	}
	return &Simulation{
		log:         logging.Component(log, "sim"),
		fixedStep:   fixedStep,
		maxSubsteps: maxSubsteps,
	}
}

func (s *Simulation) AddActor(a Actor) {
	if a == nil {
		return
	}
	s.actors = append(s.actors, a)
}

func (s *Simulation) AddZone(z *component.GoalZone) {
	if z == nil {
		return
	}
	s.zones = append(s.zones, z)
}

// BindInput feeds src into sink at the start of every tick.
func (s *Simulation) BindInput(src component.InputSource, sink component.InputSink) {
	if src == nil || sink == nil {
		return
	}
	s.inputs = append(s.inputs, inputBinding{src: src, sink: sink})
}

func (s *Simulation) SetProjectiles(p *Projectiles) { s.projectiles = p }
func (s *Simulation) SetPhysics(w PhysicsWorld) { s.physics = w }

func (s *Simulation) Actors() []Actor { return s.actors }
func (s *Simulation) Elapsed() float64 { return s.elapsed }
func (s *Simulation) Ticks() int { return s.ticks }
func (s *Simulation) PhysicsSteps() int { return s.steps }

// Advance runs one variable-rate tick of dt seconds: input, entity timers,
// state machines, zones and projectiles, then as many fixed physics steps as
// the accumulated time allows.
func (s *Simulation) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	s.elapsed += dt
	s.ticks++

	for _, in := range s.inputs {
		in.src.Drain(s.elapsed, in.sink)
	}
	for _, a := range s.actors {
		a.Character().Tick(dt)
	}
	for _, a := range s.actors {
		a.Tick(dt)
	}
	for _, z := range s.zones {
		z.Tick(dt)
	}
	s.projectiles.Tick(dt)

	s.accumulator += dt
	for n := 0; s.accumulator >= s.fixedStep && n < s.maxSubsteps; n++ {
		s.fixedTick(s.fixedStep)
		s.accumulator -= s.fixedStep
	}
	if s.accumulator >= s.fixedStep {
		dropped := int(s.accumulator / s.fixedStep)
		s.accumulator = math.Mod(s.accumulator, s.fixedStep)
		s.log.Debug().Int("steps", dropped).Msg("physics backlog dropped")
	}

	s.prune()
}

func (s *Simulation) fixedTick(step float64) {
	for _, a := range s.actors {
		a.FixedTick(step)
	}
	if s.physics != nil {
		s.physics.Step(step)
	}
	s.steps++
}

func (s *Simulation) prune() {
	kept := s.actors[:0]
	for _, a := range s.actors {
		if a.Done() {
			s.log.Debug().Str("entity", a.Character().Name).Msg("despawned")
			if s.OnRemove != nil {
				s.OnRemove(a)
			}
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(s.actors); i++ {
		s.actors[i] = nil
	}
	s.actors = kept
}

// Run advances in fixed ticks of dt until duration has elapsed or ctx is
// cancelled. When realtime is set each tick waits for the wall clock.
func (s *Simulation) Run(ctx context.Context, dt, duration float64, realtime bool, between func()) error {
	if dt <= 0 {
		dt = 1.0 / 60
	}
	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
	}
	for s.elapsed+dt/2 < duration {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if between != nil {
			between()
		}
		s.Advance(dt)
	}
	return nil
}
