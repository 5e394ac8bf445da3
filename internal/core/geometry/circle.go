package geometry

import "github.com/zeusync/planar/internal/core/math2d"

// Circle is a circle collider shape. Radius must be >= 0; a zero-radius
// circle never intersects anything.
type Circle struct {
	Center math2d.Vector2
	Radius float64
}

// Contains reports whether the point lies inside the circle, boundary
// inclusive.
func (c Circle) Contains(p math2d.Vector2) bool {
	return c.Center.DistanceSquaredTo(p) <= c.Radius*c.Radius
}

// Intersects reports whether two circles overlap or touch.
func (c Circle) Intersects(o Circle) bool {
	sum := c.Radius + o.Radius
	return c.Center.DistanceSquaredTo(o.Center) <= sum*sum
}

// IntersectsAABB clamps the circle center into the box to find the closest
// point and compares squared distances, avoiding a square root.
func (c Circle) IntersectsAABB(b AABB) bool {
	closest := b.ClosestPoint(c.Center)
	return c.Center.DistanceSquaredTo(closest) <= c.Radius*c.Radius
}
