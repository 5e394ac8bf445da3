package physics

import (
	"math"

	"github.com/zeusync/planar/internal/core/math2d"
)

// Collision is a contact produced by one step. Normal is a unit vector
// pointing from body A toward body B; Depth is the penetration along it.
// Collisions are transient: the backing slice is reused on the next Step.
type Collision struct {
	A Handle
	B Handle

	BodyA *Body
	BodyB *Body

	Normal  math2d.Vector2
	Depth   float64
	Contact math2d.Vector2
}

// collide dispatches on the collider pair and returns the contact, if any.
// Bodies without a collider never collide.
func collide(ha, hb Handle, a, b *Body) (Collision, bool) {
	switch ca := a.Collider.(type) {
	case CircleCollider:
		switch cb := b.Collider.(type) {
		case CircleCollider:
			return collideCircles(ha, hb, a, b, ca, cb)
		case BoxCollider:
			return collideCircleBox(ha, hb, a, b, ca, cb, false)
		}
	case BoxCollider:
		switch cb := b.Collider.(type) {
		case CircleCollider:
			// canonical test runs circle-first; flip the normal back
			// so it still points from A toward B
			return collideCircleBox(hb, ha, b, a, cb, ca, true)
		case BoxCollider:
			return collideBoxes(ha, hb, a, b, ca, cb)
		}
	}
	return Collision{}, false
}

func collideCircles(ha, hb Handle, a, b *Body, ca, cb CircleCollider) (Collision, bool) {
	delta := b.Position.Sub(a.Position)
	distance := delta.Length()
	radiusSum := ca.Radius + cb.Radius

	// co-located centers have no separation direction and are skipped
	if distance <= 0 || distance >= radiusSum {
		return Collision{}, false
	}

	normal := delta.Div(distance)
	return Collision{
		A: ha, B: hb, BodyA: a, BodyB: b,
		Normal:  normal,
		Depth:   radiusSum - distance,
		Contact: a.Position.Add(normal.Scale(ca.Radius)),
	}, true
}

func collideBoxes(ha, hb Handle, a, b *Body, ca, cb BoxCollider) (Collision, bool) {
	delta := b.Position.Sub(a.Position)
	overlapX := ca.HalfExtent.X + cb.HalfExtent.X - math.Abs(delta.X)
	overlapY := ca.HalfExtent.Y + cb.HalfExtent.Y - math.Abs(delta.Y)

	if overlapX <= 0 || overlapY <= 0 {
		return Collision{}, false
	}

	// minimum-translation-vector heuristic: separate along the axis of
	// least overlap, signed toward B
	var normal math2d.Vector2
	var depth float64
	if overlapX < overlapY {
		depth = overlapX
		if delta.X > 0 {
			normal = math2d.Vec(1, 0)
		} else {
			normal = math2d.Vec(-1, 0)
		}
	} else {
		depth = overlapY
		if delta.Y > 0 {
			normal = math2d.Vec(0, 1)
		} else {
			normal = math2d.Vec(0, -1)
		}
	}

	return Collision{
		A: ha, B: hb, BodyA: a, BodyB: b,
		Normal:  normal,
		Depth:   depth,
		Contact: cb.ShapeAt(b.Position).ClosestPoint(a.Position),
	}, true
}

// collideCircleBox tests a circle body against a box body. The returned
// normal points from the circle toward the box; flip reverses it for the
// box-first dispatch order.
func collideCircleBox(hCircle, hBox Handle, circle, box *Body, cc CircleCollider, bc BoxCollider, flip bool) (Collision, bool) {
	bounds := bc.ShapeAt(box.Position)
	closest := bounds.ClosestPoint(circle.Position)

	delta := closest.Sub(circle.Position)
	distance := delta.Length()
	if distance >= cc.Radius {
		return Collision{}, false
	}

	var normal math2d.Vector2
	if distance > 0 {
		normal = delta.Div(distance)
	} else {
		// circle center is exactly inside the box; any axis works
		normal = math2d.Vec(0, 1)
	}

	c := Collision{
		A: hCircle, B: hBox, BodyA: circle, BodyB: box,
		Normal:  normal,
		Depth:   cc.Radius - distance,
		Contact: closest,
	}
	if flip {
		c.A, c.B = c.B, c.A
		c.BodyA, c.BodyB = c.BodyB, c.BodyA
		c.Normal = c.Normal.Neg()
	}
	return c, true
}
