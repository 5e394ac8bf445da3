package math2d

import "math"

// Vector2 is an immutable 2D vector value. All methods return new values;
// none mutate the receiver.
type Vector2 struct {
	X float64
	Y float64
}

// Vec is shorthand for constructing a Vector2.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Zero is the zero vector.
var Zero = Vector2{}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies the vector by a scalar.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Div divides the vector by a scalar. The caller guarantees s != 0.
func (v Vector2) Div(s float64) Vector2 {
	return Vector2{X: v.X / s, Y: v.Y / s}
}

func (v Vector2) Neg() Vector2 {
	return Vector2{X: -v.X, Y: -v.Y}
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross is the 2D cross product, the Z component of the 3D cross of the two
// vectors extended into the plane.
func (v Vector2) Cross(o Vector2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared avoids the square root when only comparisons are needed.
func (v Vector2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector in the direction of v. The zero vector
// normalizes to the zero vector; there is no division by zero.
func (v Vector2) Normalize() Vector2 {
	length := v.Length()
	if length == 0 {
		return Vector2{}
	}
	inv := 1.0 / length
	return Vector2{X: v.X * inv, Y: v.Y * inv}
}

// Perpendicular returns v rotated 90 degrees counter-clockwise.
func (v Vector2) Perpendicular() Vector2 {
	return Vector2{X: -v.Y, Y: v.X}
}

// Rotate rotates v by angle radians counter-clockwise.
func (v Vector2) Rotate(angle float64) Vector2 {
	sin, cos := math.Sincos(angle)
	return Vector2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

func (v Vector2) DistanceTo(o Vector2) float64 {
	return o.Sub(v).Length()
}

func (v Vector2) DistanceSquaredTo(o Vector2) float64 {
	return o.Sub(v).LengthSquared()
}
