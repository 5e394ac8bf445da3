// Package physics implements a 2D rigid-body simulation: semi-implicit Euler
// integration, spring constraints, spatial-hash broad phase, circle/box
// narrow phase, an iterative impulse solver with positional correction, and
// point/region/ray queries. A World owns its bodies and springs; callers
// drive it with Step once per fixed tick.
package physics

import (
	"github.com/zeusync/planar/internal/core/geometry"
	"github.com/zeusync/planar/internal/core/math2d"
)

// Collider is a closed union of the supported collider shapes. Shapes carry
// only their extents; the owning body supplies the position.
type Collider interface {
	collider()

	// BoundsAt returns the shape's axis-aligned bounds centered at pos.
	BoundsAt(pos math2d.Vector2) geometry.AABB
}

// CircleCollider is a circle of the given radius around the body position.
// A zero radius never collides.
type CircleCollider struct {
	Radius float64
}

// BoxCollider is an axis-aligned box with the given half extents around the
// body position. Zero extents never collide.
type BoxCollider struct {
	HalfExtent math2d.Vector2
}

func (CircleCollider) collider() {}
func (BoxCollider) collider()    {}

func (c CircleCollider) BoundsAt(pos math2d.Vector2) geometry.AABB {
	r := math2d.Vec(c.Radius, c.Radius)
	return geometry.AABB{Min: pos.Sub(r), Max: pos.Add(r)}
}

// ShapeAt returns the collider as a geometry.Circle at the given position.
func (c CircleCollider) ShapeAt(pos math2d.Vector2) geometry.Circle {
	return geometry.Circle{Center: pos, Radius: c.Radius}
}

func (b BoxCollider) BoundsAt(pos math2d.Vector2) geometry.AABB {
	return geometry.AABB{Min: pos.Sub(b.HalfExtent), Max: pos.Add(b.HalfExtent)}
}

// ShapeAt returns the collider as a geometry.AABB at the given position.
func (b BoxCollider) ShapeAt(pos math2d.Vector2) geometry.AABB {
	return b.BoundsAt(pos)
}
