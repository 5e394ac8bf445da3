// Package geometry provides the shape primitives and intersection tests the
// physics engine is built on: axis-aligned boxes, circles, and ray casts
// against both. All tests are pure functions over value types.
package geometry

import "github.com/zeusync/planar/internal/core/math2d"

// AABB is an axis-aligned bounding box. Invariant: Min.X <= Max.X and
// Min.Y <= Max.Y. Zero-area boxes are legal.
type AABB struct {
	Min math2d.Vector2
	Max math2d.Vector2
}

// AABBFromCenter builds a box from its center point and full size.
func AABBFromCenter(center, size math2d.Vector2) AABB {
	half := size.Scale(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

// Contains reports whether the point lies inside the box. Both bounds are
// inclusive.
func (b AABB) Contains(p math2d.Vector2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects reports whether the two boxes overlap, using interval overlap
// per axis. Touching edges count as intersecting.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

func (b AABB) Center() math2d.Vector2 {
	return math2d.Vec((b.Min.X+b.Max.X)*0.5, (b.Min.Y+b.Max.Y)*0.5)
}

func (b AABB) Size() math2d.Vector2 {
	return b.Max.Sub(b.Min)
}

// ClosestPoint clamps p into the box, yielding the point of the box nearest
// to p. Interior points clamp to themselves.
func (b AABB) ClosestPoint(p math2d.Vector2) math2d.Vector2 {
	return math2d.Vec(clamp(p.X, b.Min.X, b.Max.X), clamp(p.Y, b.Min.Y, b.Max.Y))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
