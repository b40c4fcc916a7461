package system

import (
	"image/color"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
)

type fakeBody struct {
	pos      common.Vec3
	grounded bool
	forward  cp.Vector
	peak     float64

	dest    *common.Vec3
	speed   float64
	stopped int
	resets  int
}

func (b *fakeBody) Position() common.Vec3 { return b.pos }
func (b *fakeBody) IsGrounded() bool { return b.grounded }
func (b *fakeBody) Move(v common.Vec3, dt float64) {
	b.pos.X += v.X * dt
	b.pos.Y = max(0, b.pos.Y+v.Y*dt)
	b.pos.Z += v.Z * dt
	b.peak = max(b.peak, b.pos.Y)
}
func (b *fakeBody) Forward() cp.Vector { return b.forward }
func (b *fakeBody) SetForward(dir cp.Vector) { b.forward = dir }
func (b *fakeBody) SetDestination(p common.Vec3) { b.dest = &p }
func (b *fakeBody) ResetPath() { b.resets++ }
func (b *fakeBody) Stop() { b.stopped++ }
func (b *fakeBody) SetSpeed(speed float64) { b.speed = speed }

type fakeArea struct {
	chars []*component.Character
}

func (a *fakeArea) Overlap(center common.Vec3, radius float64) []component.Contact {
	var out []component.Contact
	for _, c := range a.chars {
		pos, ok := c.Position()
		if !ok {
			continue
		}
		if d := center.Distance(pos); d <= radius {
			out = append(out, component.Contact{Character: c, Position: pos, Distance: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

type fixedTarget struct{ c *component.Character }

func (f fixedTarget) FindBestTarget() *component.Character { return f.c }

type fixedRoll float64

func (r fixedRoll) Float64() float64 { return float64(r) }

type recordingFeedback struct {
	colors []color.Color
	alpha  float64
}

func (f *recordingFeedback) SetColor(c color.Color) { f.colors = append(f.colors, c) }
func (f *recordingFeedback) SetAlpha(a float64) { f.alpha = a }
func (f *recordingFeedback) SetHighlight(bool) {}

func (f *recordingFeedback) last() color.Color {
	if len(f.colors) == 0 {
		return nil
	}
	return f.colors[len(f.colors)-1]
}

type launch struct {
	owner  *component.Character
	origin common.Vec3
	dir    cp.Vector
}

type fakeLauncher struct {
	launches []launch
}

func (l *fakeLauncher) Launch(owner *component.Character, origin common.Vec3, dir cp.Vector) {
	l.launches = append(l.launches, launch{owner: owner, origin: origin, dir: dir})
}

type fakeLoot struct {
	at     common.Vec3
	amount int
	drops  int
}

func (l *fakeLoot) DropCoins(at common.Vec3, amount int) {
	l.at = at
	l.amount += amount
	l.drops++
}

// placed creates a Character standing still at pos.
func placed(name string, team component.Team, pos common.Vec3) *component.Character {
	c := component.NewCharacter(name, team, component.DefaultStatBlock())
	c.SetBody(&fakeBody{pos: pos, grounded: true})
	return c
}
