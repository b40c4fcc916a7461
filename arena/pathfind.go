package arena

import (
	"container/heap"
	"math"
	"slices"

	"github.com/jakecoffman/cp"
)

const (
	navCellSize   = 1.0
	navMaxNodes   = 4096
	waypointReach = 0.25
)

type cell struct {
	X, Y int
}

// navGrid rasterises rocks into blocked cells for path planning.
type navGrid struct {
	origin  cp.Vector
	size    float64
	width   int
	height  int
	blocked []bool
}

func newNavGrid(lo, hi cp.Vector, size float64) *navGrid {
	w := max(int(math.Ceil((hi.X-lo.X)/size)), 1)
	h := max(int(math.Ceil((hi.Y-lo.Y)/size)), 1)
	return &navGrid{
		origin:  lo,
		size:    size,
		width:   w,
		height:  h,
		blocked: make([]bool, w*h),
	}
}

func (g *navGrid) cellOf(p cp.Vector) (cell, bool) {
	x := int(math.Floor((p.X - g.origin.X) / g.size))
	y := int(math.Floor((p.Y - g.origin.Y) / g.size))
	return cell{X: x, Y: y}, g.inside(x, y)
}

func (g *navGrid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *navGrid) center(c cell) cp.Vector {
	return cp.Vector{
		X: g.origin.X + (float64(c.X)+0.5)*g.size,
		Y: g.origin.Y + (float64(c.Y)+0.5)*g.size,
	}
}

func (g *navGrid) isBlocked(x, y int) bool {
	return !g.inside(x, y) || g.blocked[y*g.width+x]
}

// block marks every cell whose center lies within radius of center.
func (g *navGrid) block(center cp.Vector, radius float64) {
	for y := range g.height {
		for x := range g.width {
			if g.center(cell{X: x, Y: y}).Distance(center) <= radius {
				g.blocked[y*g.width+x] = true
			}
		}
	}
}

// plan returns waypoints from `from` to `to` around blocked cells, ending
// exactly at `to`. It returns nil when either end is off the grid or the
// goal cannot be reached.
func (g *navGrid) plan(from, to cp.Vector) []cp.Vector {
	start, ok := g.cellOf(from)
	if !ok {
		return nil
	}
	goal, ok := g.cellOf(to)
	if !ok || g.isBlocked(goal.X, goal.Y) {
		return nil
	}
	cells := findPath(start, goal, g.width, g.height, func(x, y int) bool {
		return (x != start.X || y != start.Y) && g.isBlocked(x, y)
	}, navMaxNodes)
	if cells == nil {
		return nil
	}

	points := make([]cp.Vector, 0, len(cells))
	for _, c := range cells[1:] {
		points = append(points, g.center(c))
	}
	if len(points) == 0 {
		return []cp.Vector{to}
	}
	points[len(points)-1] = to
	return g.smooth(from, points)
}

// smooth drops waypoints that can be skipped in a straight, unblocked line.
func (g *navGrid) smooth(from cp.Vector, points []cp.Vector) []cp.Vector {
	out := make([]cp.Vector, 0, len(points))
	anchor := from
	for i := 0; i < len(points); i++ {
		j := i
		for j+1 < len(points) && g.clear(anchor, points[j+1]) {
			j++
		}
		out = append(out, points[j])
		anchor = points[j]
		i = j
	}
	return out
}

func (g *navGrid) clear(a, b cp.Vector) bool {
	d := a.Distance(b)
	steps := int(math.Ceil(d / (g.size / 2)))
	for i := 1; i <= steps; i++ {
		p := a.Lerp(b, float64(i)/float64(steps))
		c, ok := g.cellOf(p)
		if !ok || g.isBlocked(c.X, c.Y) {
			return false
		}
	}
	return true
}

// move is a step to a neighbouring cell and what it costs.
type move struct {
	dx, dy int
	cost   float64
}

var moves = [8]move{
	{1, 0, 1}, {-1, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

type searchNode struct {
	at     cell
	cost   float64
	left   float64
	parent *searchNode
	index  int
	closed bool
}

func (n *searchNode) total() float64 { return n.cost + n.left }

// frontier is a min-heap on estimated total cost, nearer-to-goal first on
// ties.
type frontier []*searchNode

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if a, b := f[i].total(), f[j].total(); a != b {
		return a < b
	}
	return f[i].left < f[j].left
}
func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}
func (f *frontier) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*f)
	*f = append(*f, n)
}
func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*f = old[:len(old)-1]
	return n
}

// octile is the cheapest 8-way cost between two cells on an open grid.
func octile(a, b cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
}

// findPath searches an 8-connected grid for the cheapest route from start
// to goal. Diagonal moves may not clip a blocked corner. It gives up after
// expanding maxNodes cells.
func findPath(start, goal cell, width, height int, blocked func(x, y int) bool, maxNodes int) []cell {
	passable := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < width && y < height && (blocked == nil || !blocked(x, y))
	}
	if !passable(goal.X, goal.Y) {
		return nil
	}
	if start == goal {
		return []cell{start}
	}

	nodes := map[cell]*searchNode{start: {at: start, left: octile(start, goal)}}
	open := frontier{nodes[start]}
	for expanded := 0; open.Len() > 0 && expanded < maxNodes; expanded++ {
		cur := heap.Pop(&open).(*searchNode)
		if cur.at == goal {
			return cur.route()
		}
		cur.closed = true

		for _, s := range moves {
			next := cell{X: cur.at.X + s.dx, Y: cur.at.Y + s.dy}
			if !passable(next.X, next.Y) {
				continue
			}
			if s.dx != 0 && s.dy != 0 && (!passable(cur.at.X+s.dx, cur.at.Y) || !passable(cur.at.X, cur.at.Y+s.dy)) {
				continue
			}
			cost := cur.cost + s.cost
			n, seen := nodes[next]
			switch {
			case !seen:
				n = &searchNode{at: next, cost: cost, left: octile(next, goal), parent: cur}
				nodes[next] = n
				heap.Push(&open, n)
			case !n.closed && cost < n.cost:
				n.cost = cost
				n.parent = cur
				heap.Fix(&open, n.index)
			}
		}
	}
	return nil
}

// route walks parent links back to the start.
func (n *searchNode) route() []cell {
	var out []cell
	for ; n != nil; n = n.parent {
		out = append(out, n.at)
	}
	slices.Reverse(out)
	return out
}
