package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/rs/zerolog"
)

type ProjectileTuning struct {
	Speed    float64
	Lifetime float64
	Radius   float64
}

func DefaultProjectileTuning() ProjectileTuning {
	return ProjectileTuning{Speed: 15, Lifetime: 3, Radius: 0.5}
}

func ProjectileTuningFromSpec(spec *prefabs.ProjectileSpec) ProjectileTuning {
	t := DefaultProjectileTuning()
	if spec == nil {
		return t
	}
	setIf(&t.Speed, spec.Speed)
	setIf(&t.Lifetime, spec.Lifetime)
	setIf(&t.Radius, spec.Radius)
	return t
}

type projectile struct {
	owner *component.Character
	pos   common.Vec3
	dir   cp.Vector
	age   float64
	done  bool
}

// Projectiles flies empowered shots in a straight line until they hit an
// opponent or expire.
type Projectiles struct {
	tuning   ProjectileTuning
	area     component.AreaQuery
	resolver *component.CombatResolver
	log      zerolog.Logger

	live []*projectile
}

var _ component.Launcher = (*Projectiles)(nil)

func NewProjectiles(tuning ProjectileTuning, area component.AreaQuery, resolver *component.CombatResolver, log zerolog.Logger) *Projectiles {
	return &Projectiles{tuning: tuning, area: area, resolver: resolver, log: log}
}

func (p *Projectiles) Launch(owner *component.Character, origin common.Vec3, dir cp.Vector) {
	if p == nil || owner == nil {
		return
	}
	if dir.LengthSq() < 1e-9 {
		dir = cp.Vector{X: 1}
	}
	p.live = append(p.live, &projectile{owner: owner, pos: origin, dir: dir.Normalize()})
}

func (p *Projectiles) Active() int {
	if p == nil {
		return 0
	}
	return len(p.live)
}

// Tick moves every projectile and resolves at most one hit each.
func (p *Projectiles) Tick(dt float64) {
	if p == nil || len(p.live) == 0 {
		return
	}
	step := p.tuning.Speed * dt
	for _, pr := range p.live {
		pr.age += dt
		if pr.age >= p.tuning.Lifetime {
			pr.done = true
			continue
		}
		pr.pos = pr.pos.Add(common.FromPlane(pr.dir.Mult(step), 0))
		p.resolve(pr)
	}

	kept := p.live[:0]
	for _, pr := range p.live {
		if !pr.done {
			kept = append(kept, pr)
		}
	}
	for i := len(kept); i < len(p.live); i++ {
		p.live[i] = nil
	}
	p.live = kept
}

func (p *Projectiles) resolve(pr *projectile) {
	if p.area == nil {
		return
	}
	for _, c := range p.area.Overlap(pr.pos, p.tuning.Radius) {
		target := c.Character
		if target == nil || target == pr.owner || !target.IsAlive() || !pr.owner.Team.Opposes(target.Team) {
			continue
		}
		if evt, ok := p.resolver.Strike(pr.owner, target, true); ok {
			p.log.Info().Str("owner", pr.owner.Name).Str("target", target.Name).
				Int("damage", evt.Damage).Bool("crit", evt.Crit).Msg("projectile hit")
		}
		pr.done = true
		return
	}
}
