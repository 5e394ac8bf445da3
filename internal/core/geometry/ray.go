package geometry

import (
	"math"

	"github.com/zeusync/planar/internal/core/math2d"
)

// Ray casts are parameterized on t in [0, 1] along start + t*dir, where dir
// is the full segment end-start. A hit at t=0 means the start point is on
// the shape boundary.

// RayAABB performs a slab test against the box, accumulating entry and exit
// t per axis. It returns the entry t of the earliest hit within the segment.
func RayAABB(start, dir math2d.Vector2, b AABB) (float64, bool) {
	if dir.X == 0 && dir.Y == 0 {
		return 0, false
	}

	tMin, tMax := 0.0, 1.0

	if dir.X != 0 {
		tx1 := (b.Min.X - start.X) / dir.X
		tx2 := (b.Max.X - start.X) / dir.X
		tMin = math.Max(tMin, math.Min(tx1, tx2))
		tMax = math.Min(tMax, math.Max(tx1, tx2))
	} else if start.X < b.Min.X || start.X > b.Max.X {
		return 0, false
	}

	if dir.Y != 0 {
		ty1 := (b.Min.Y - start.Y) / dir.Y
		ty2 := (b.Max.Y - start.Y) / dir.Y
		tMin = math.Max(tMin, math.Min(ty1, ty2))
		tMax = math.Min(tMax, math.Max(ty1, ty2))
	} else if start.Y < b.Min.Y || start.Y > b.Max.Y {
		return 0, false
	}

	if tMin > tMax {
		return 0, false
	}
	return tMin, true
}

// RayCircle solves the quadratic |start + t*dir - center|^2 = r^2 and
// returns the smallest root in [0, 1].
func RayCircle(start, dir math2d.Vector2, c Circle) (float64, bool) {
	oc := start.Sub(c.Center)
	a := dir.Dot(dir)
	if a == 0 {
		return 0, false
	}
	b := 2.0 * oc.Dot(dir)
	cc := oc.Dot(oc) - c.Radius*c.Radius

	disc := b*b - 4*a*cc
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := math.Sqrt(disc)
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	if t1 >= 0 && t1 <= 1 {
		return t1, true
	}
	if t2 >= 0 && t2 <= 1 {
		return t2, true
	}
	return 0, false
}
