package arena

import "github.com/milk9111/skirmish/component"

// Targeter picks the nearest visible opponent of its owner.
type Targeter struct {
	world *World
	owner *component.Character
	Range float64
}

var _ component.Targeting = (*Targeter)(nil)

func (w *World) Targeter(owner *component.Character, rangeLimit float64) *Targeter {
	return &Targeter{world: w, owner: owner, Range: rangeLimit}
}

func (t *Targeter) FindBestTarget() *component.Character {
	pos, ok := t.owner.Position()
	if !ok {
		return nil
	}
	for _, c := range t.world.Overlap(pos, t.Range) {
		target := c.Character
		if target == t.owner || !target.IsAlive() || !t.owner.Team.Opposes(target.Team) {
			continue
		}
		if target.ConcealedFrom(t.owner.Team) {
			continue
		}
		return target
	}
	return nil
}
