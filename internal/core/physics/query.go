package physics

import (
	"github.com/zeusync/planar/internal/core/geometry"
	"github.com/zeusync/planar/internal/core/math2d"
)

// RaycastHit is the closest intersection found by Raycast. T is the
// parameter along the segment in [0, 1]; Point is start + T*(end-start).
type RaycastHit struct {
	Body  Handle
	Point math2d.Vector2
	T     float64
}

// QueryPoint returns the handles of all bodies whose collider contains p.
func (w *World) QueryPoint(p math2d.Vector2) []Handle {
	var result []Handle
	w.ForEach(func(h Handle, body *Body) {
		switch c := body.Collider.(type) {
		case CircleCollider:
			if c.ShapeAt(body.Position).Contains(p) {
				result = append(result, h)
			}
		case BoxCollider:
			if c.ShapeAt(body.Position).Contains(p) {
				result = append(result, h)
			}
		}
	})
	return result
}

// QueryAABB returns the handles of all bodies whose collider intersects the
// box.
func (w *World) QueryAABB(box geometry.AABB) []Handle {
	var result []Handle
	w.ForEach(func(h Handle, body *Body) {
		switch c := body.Collider.(type) {
		case CircleCollider:
			if c.ShapeAt(body.Position).IntersectsAABB(box) {
				result = append(result, h)
			}
		case BoxCollider:
			if c.ShapeAt(body.Position).Intersects(box) {
				result = append(result, h)
			}
		}
	})
	return result
}

// Raycast casts the segment from start to end against every body and
// returns the globally closest hit. A zero-length segment hits nothing.
func (w *World) Raycast(start, end math2d.Vector2) (RaycastHit, bool) {
	dir := end.Sub(start)
	if dir.X == 0 && dir.Y == 0 {
		return RaycastHit{}, false
	}

	best := RaycastHit{T: 2} // beyond any valid t
	found := false

	w.ForEach(func(h Handle, body *Body) {
		var t float64
		var ok bool
		switch c := body.Collider.(type) {
		case CircleCollider:
			t, ok = geometry.RayCircle(start, dir, c.ShapeAt(body.Position))
		case BoxCollider:
			t, ok = geometry.RayAABB(start, dir, c.ShapeAt(body.Position))
		default:
			return
		}
		if ok && t < best.T {
			best = RaycastHit{Body: h, Point: start.Add(dir.Scale(t)), T: t}
			found = true
		}
	})

	if !found {
		return RaycastHit{}, false
	}
	return best, true
}
