package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Vec3 is a position or velocity in the arena. X and Z span the ground plane,
// Y is height.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// FromPlane lifts a ground-plane vector to the given height.
func FromPlane(p cp.Vector, y float64) Vec3 {
	return Vec3{X: p.X, Y: y, Z: p.Y}
}

// Plane projects v onto the ground plane.
func (v Vec3) Plane() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// PlaneDistance ignores height.
func (v Vec3) PlaneDistance(o Vec3) float64 {
	return v.Plane().Distance(o.Plane())
}
