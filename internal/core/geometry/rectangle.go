package geometry

import "math"

// Rectangle is an oriented rectangle: a center position, a full size
// (width along the local x axis, height along the local y axis) and a
// rotation in radians.
type Rectangle struct {
	Position Vector
	Size     Vector
	Rotation float64
}

// NewRectangle returns a rectangle centered at position.
func NewRectangle(position, size Vector, rotation float64) Rectangle {
	return Rectangle{Position: position, Size: size, Rotation: rotation}
}

// HalfExtents returns half the width and half the height.
func (r Rectangle) HalfExtents() Vector { return r.Size.Scale(0.5) }

// Axes returns the rectangle's local x and y unit axes in world space.
func (r Rectangle) Axes() [2]Vector {
	sin, cos := math.Sincos(r.Rotation)
	return [2]Vector{{X: cos, Y: sin}, {X: -sin, Y: cos}}
}

// Corners returns the four corners in world space, counter-clockwise
// starting at the local (+w/2, +h/2) corner.
func (r Rectangle) Corners() [4]Vector {
	h := r.HalfExtents()
	local := [4]Vector{{X: h.X, Y: h.Y}, {X: -h.X, Y: h.Y}, {X: -h.X, Y: -h.Y}, {X: h.X, Y: -h.Y}}
	var out [4]Vector
	for i, c := range local {
		out[i] = c.Rotate(r.Rotation).Add(r.Position)
	}
	return out
}

// Collides reports whether two oriented rectangles overlap. It is a
// separating-axis test over both rectangles' axes; touching counts as
// overlap.
func Collides(a, b Rectangle) bool {
	ca, cb := a.Corners(), b.Corners()
	axesA, axesB := a.Axes(), b.Axes()
	for _, axis := range [4]Vector{axesA[0], axesA[1], axesB[0], axesB[1]} {
		minA, maxA := project(ca, axis)
		minB, maxB := project(cb, axis)
		if maxA < minB || maxB < minA {
			return false
		}
	}
	return true
}

func project(corners [4]Vector, axis Vector) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		p := c.Dot(axis)
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	return lo, hi
}
