package geometry

import "math"

// Vector is a 2D vector in arena coordinates.
type Vector struct {
	X float64
	Y float64
}

// Vec is a shorthand constructor.
func Vec(x, y float64) Vector { return Vector{X: x, Y: y} }

// FromPolar builds a vector of the given length pointing at angle radians.
func FromPolar(length, angle float64) Vector {
	return Vector{X: length * math.Cos(angle), Y: length * math.Sin(angle)}
}

func (v Vector) Add(o Vector) Vector       { return Vector{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector       { return Vector{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vector) Scale(f float64) Vector    { return Vector{X: v.X * f, Y: v.Y * f} }
func (v Vector) Dot(o Vector) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vector) Magnitude() float64        { return math.Hypot(v.X, v.Y) }
func (v Vector) Angle() float64            { return math.Atan2(v.Y, v.X) }
func (v Vector) IsZero() bool              { return v.X == 0 && v.Y == 0 }
func (v Vector) Equal(o Vector) bool       { return v.X == o.X && v.Y == o.Y }
func (v Vector) Distance(o Vector) float64 { return o.Sub(v).Magnitude() }

// Rotate returns v rotated counter-clockwise by angle radians.
func (v Vector) Rotate(angle float64) Vector {
	sin, cos := math.Sincos(angle)
	return Vector{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Inside reports whether v lies in the closed box [0,w]x[0,h].
func (v Vector) Inside(w, h float64) bool {
	return v.X >= 0 && v.Y >= 0 && v.X <= w && v.Y <= h
}
