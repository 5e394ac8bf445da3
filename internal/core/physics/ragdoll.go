package physics

import "github.com/zeusync/planar/internal/core/math2d"

// Ragdoll is a two-segment soft figure: a circular head spring-joined to a
// box torso, with reduced gravity for a floaty feel. It is the canonical
// consumer of bodies plus springs and doubles as a demo scene.
type Ragdoll struct {
	Head  Handle
	Torso Handle
}

// NewRagdoll builds the ragdoll bodies around origin and adds them, plus
// the neck spring, to the world.
func NewRagdoll(w *World, origin math2d.Vector2) Ragdoll {
	headDef := MakeBodyDef()
	headDef.Position = origin.Add(math2d.Vec(0, 1.0))
	headDef.Mass = 2.0
	headDef.GravityScale = 0.1
	headDef.Collider = CircleCollider{Radius: 0.4}

	torsoDef := MakeBodyDef()
	torsoDef.Position = origin.Add(math2d.Vec(0, 0.2))
	torsoDef.Mass = 5.0
	torsoDef.GravityScale = 0.1
	torsoDef.Collider = BoxCollider{HalfExtent: math2d.Vec(0.3, 0.4)}

	r := Ragdoll{
		Head:  w.AddBody(NewBody(headDef)),
		Torso: w.AddBody(NewBody(torsoDef)),
	}

	// endpoints were just added, AddSpring cannot fail
	_ = w.AddSpring(Spring{
		A:          r.Head,
		B:          r.Torso,
		RestLength: 0.4,
		Stiffness:  200,
		Damping:    10,
	})
	return r
}
