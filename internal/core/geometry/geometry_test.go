package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeusync/planar/internal/core/math2d"
)

func TestAABBFromCenter(t *testing.T) {
	b := AABBFromCenter(math2d.Vec(1, 2), math2d.Vec(4, 6))
	assert.Equal(t, math2d.Vec(-1, -1), b.Min)
	assert.Equal(t, math2d.Vec(3, 5), b.Max)
	assert.Equal(t, math2d.Vec(1, 2), b.Center())
	assert.Equal(t, math2d.Vec(4, 6), b.Size())
}

func TestAABBContainsInclusive(t *testing.T) {
	b := AABB{Min: math2d.Vec(0, 0), Max: math2d.Vec(2, 2)}

	assert.True(t, b.Contains(math2d.Vec(1, 1)))
	assert.True(t, b.Contains(math2d.Vec(0, 0)), "min corner is inside")
	assert.True(t, b.Contains(math2d.Vec(2, 2)), "max corner is inside")
	assert.False(t, b.Contains(math2d.Vec(2.001, 1)))
	assert.False(t, b.Contains(math2d.Vec(-0.001, 1)))
}

func TestAABBDegenerate(t *testing.T) {
	// zero-area box contains only its own point
	b := AABB{Min: math2d.Vec(1, 1), Max: math2d.Vec(1, 1)}
	assert.True(t, b.Contains(math2d.Vec(1, 1)))
	assert.False(t, b.Contains(math2d.Vec(1.0001, 1)))
}

func TestAABBIntersects(t *testing.T) {
	a := AABB{Min: math2d.Vec(0, 0), Max: math2d.Vec(2, 2)}

	assert.True(t, a.Intersects(AABB{Min: math2d.Vec(1, 1), Max: math2d.Vec(3, 3)}))
	assert.True(t, a.Intersects(AABB{Min: math2d.Vec(2, 0), Max: math2d.Vec(4, 2)}), "touching edge")
	assert.False(t, a.Intersects(AABB{Min: math2d.Vec(3, 3), Max: math2d.Vec(4, 4)}))
	assert.False(t, a.Intersects(AABB{Min: math2d.Vec(0, 2.1), Max: math2d.Vec(2, 4)}))
}

func TestAABBClosestPoint(t *testing.T) {
	b := AABB{Min: math2d.Vec(0, 0), Max: math2d.Vec(2, 2)}

	assert.Equal(t, math2d.Vec(2, 1), b.ClosestPoint(math2d.Vec(5, 1)))
	assert.Equal(t, math2d.Vec(0, 0), b.ClosestPoint(math2d.Vec(-3, -3)))
	// interior point clamps to itself
	assert.Equal(t, math2d.Vec(1, 1), b.ClosestPoint(math2d.Vec(1, 1)))
}

func TestCircleContains(t *testing.T) {
	c := Circle{Center: math2d.Vec(0, 0), Radius: 2}

	assert.True(t, c.Contains(math2d.Vec(1, 1)))
	assert.True(t, c.Contains(math2d.Vec(2, 0)), "boundary is inside")
	assert.False(t, c.Contains(math2d.Vec(2.001, 0)))
}

func TestCircleIntersects(t *testing.T) {
	a := Circle{Center: math2d.Vec(0, 0), Radius: 1}

	assert.True(t, a.Intersects(Circle{Center: math2d.Vec(1.5, 0), Radius: 1}))
	assert.True(t, a.Intersects(Circle{Center: math2d.Vec(2, 0), Radius: 1}), "touching")
	assert.False(t, a.Intersects(Circle{Center: math2d.Vec(2.5, 0), Radius: 1}))
}

func TestCircleIntersectsAABB(t *testing.T) {
	b := AABB{Min: math2d.Vec(0, 0), Max: math2d.Vec(2, 2)}

	assert.True(t, Circle{Center: math2d.Vec(3, 1), Radius: 1.5}.IntersectsAABB(b))
	assert.True(t, Circle{Center: math2d.Vec(1, 1), Radius: 0.1}.IntersectsAABB(b), "center inside box")
	assert.False(t, Circle{Center: math2d.Vec(4, 4), Radius: 1}.IntersectsAABB(b))
	// corner case: closest point is the box corner
	assert.True(t, Circle{Center: math2d.Vec(3, 3), Radius: 1.5}.IntersectsAABB(b))
}

func TestRayAABB(t *testing.T) {
	b := AABB{Min: math2d.Vec(2, -1), Max: math2d.Vec(4, 1)}

	tHit, ok := RayAABB(math2d.Vec(0, 0), math2d.Vec(10, 0), b)
	assert.True(t, ok)
	assert.InDelta(t, 0.2, tHit, 1e-12)

	// pointing away
	_, ok = RayAABB(math2d.Vec(0, 0), math2d.Vec(-10, 0), b)
	assert.False(t, ok)

	// axis-parallel ray outside the slab
	_, ok = RayAABB(math2d.Vec(0, 5), math2d.Vec(10, 0), b)
	assert.False(t, ok)

	// segment too short to reach
	_, ok = RayAABB(math2d.Vec(0, 0), math2d.Vec(1, 0), b)
	assert.False(t, ok)

	// zero-length segment
	_, ok = RayAABB(math2d.Vec(0, 0), math2d.Vec(0, 0), b)
	assert.False(t, ok)
}

func TestRayCircle(t *testing.T) {
	c := Circle{Center: math2d.Vec(5, 0), Radius: 1}

	tHit, ok := RayCircle(math2d.Vec(0, 0), math2d.Vec(10, 0), c)
	assert.True(t, ok)
	assert.InDelta(t, 0.4, tHit, 1e-12)

	// miss above
	_, ok = RayCircle(math2d.Vec(0, 2), math2d.Vec(10, 0), c)
	assert.False(t, ok)

	// start inside the circle: exit root is taken
	tHit, ok = RayCircle(math2d.Vec(5, 0), math2d.Vec(10, 0), c)
	assert.True(t, ok)
	assert.InDelta(t, 0.1, tHit, 1e-12)

	// zero-length segment
	_, ok = RayCircle(math2d.Vec(0, 0), math2d.Vec(0, 0), c)
	assert.False(t, ok)
}
