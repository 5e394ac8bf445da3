package physics

import (
	"github.com/zeusync/planar/internal/core/geometry"
	"github.com/zeusync/planar/internal/core/math2d"
)

// BodyDef describes the initial state of a body. Use MakeBodyDef for sane
// defaults, then override fields before passing it to NewBody.
type BodyDef struct {
	Position math2d.Vector2
	Velocity math2d.Vector2

	// Mass in arbitrary units. Zero or negative mass is treated as
	// infinite: the body never reacts to forces or impulses.
	Mass float64

	// Restitution is bounciness in [0, 1].
	Restitution float64
	// Friction is the Coulomb friction coefficient, >= 0.
	Friction float64
	// Drag is a per-step velocity damping factor in [0, 1).
	Drag float64

	// Static bodies never move and never integrate.
	Static bool
	// Kinematic bodies integrate velocity from forces but never move from
	// it; the owner sets their position directly (e.g. a bone-driven
	// collider).
	Kinematic bool

	GravityScale float64

	Collider Collider
	UserData any
}

// MakeBodyDef returns a definition with default dynamics: unit mass, medium
// bounciness, light drag, full gravity.
func MakeBodyDef() BodyDef {
	return BodyDef{
		Mass:         1.0,
		Restitution:  0.5,
		Friction:     0.3,
		Drag:         0.01,
		GravityScale: 1.0,
	}
}

// Body is a rigid body owned by a World. Position and Velocity may be read
// at any time between steps; writes from outside the engine go through
// ApplyForce/ApplyImpulse, except for kinematic bodies whose Position is set
// directly by their owner.
type Body struct {
	Position math2d.Vector2
	Velocity math2d.Vector2

	Restitution  float64
	Friction     float64
	Drag         float64
	GravityScale float64

	Static    bool
	Kinematic bool

	Collider Collider
	UserData any

	mass         float64
	invMass      float64
	acceleration math2d.Vector2
}

// NewBody builds a body from its definition, deriving the inverse mass.
// Static bodies get inverse mass zero regardless of the configured mass, so
// the solver can never move them.
func NewBody(def BodyDef) *Body {
	b := &Body{
		Position:     def.Position,
		Velocity:     def.Velocity,
		Restitution:  def.Restitution,
		Friction:     def.Friction,
		Drag:         def.Drag,
		GravityScale: def.GravityScale,
		Static:       def.Static,
		Kinematic:    def.Kinematic,
		Collider:     def.Collider,
		UserData:     def.UserData,
	}
	b.setMass(def.Mass)
	return b
}

func (b *Body) setMass(mass float64) {
	b.mass = mass
	if mass > 0 && !b.Static {
		b.invMass = 1.0 / mass
	} else {
		b.invMass = 0
	}
}

// Mass returns the configured mass. Zero means infinite.
func (b *Body) Mass() float64 { return b.mass }

// InvMass returns the inverse mass, zero for static or infinite-mass bodies.
func (b *Body) InvMass() float64 { return b.invMass }

// SetMass changes the mass and recomputes the inverse mass.
func (b *Body) SetMass(mass float64) { b.setMass(mass) }

// ApplyForce accumulates a force for the next integration. No-op on static
// bodies.
func (b *Body) ApplyForce(force math2d.Vector2) {
	if b.Static {
		return
	}
	b.acceleration = b.acceleration.Add(force.Scale(b.invMass))
}

// ApplyImpulse changes velocity immediately. No-op on static and kinematic
// bodies.
func (b *Body) ApplyImpulse(impulse math2d.Vector2) {
	if b.Static || b.Kinematic {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Scale(b.invMass))
}

// Integrate advances the body by dt using semi-implicit Euler: velocity is
// updated from acceleration first, then position from the new velocity.
// Static bodies skip entirely; kinematic bodies integrate velocity but keep
// their position.
func (b *Body) Integrate(dt float64, gravity math2d.Vector2) {
	if b.Static {
		return
	}

	if b.GravityScale > 0 {
		b.ApplyForce(gravity.Scale(b.mass * b.GravityScale))
	}

	b.Velocity = b.Velocity.Scale(1.0 - b.Drag)
	b.Velocity = b.Velocity.Add(b.acceleration.Scale(dt))

	if !b.Kinematic {
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}

	b.acceleration = math2d.Vector2{}
}

// Bounds returns the collider's axis-aligned bounds at the current position,
// or a degenerate point box when the body has no collider.
func (b *Body) Bounds() geometry.AABB {
	if b.Collider == nil {
		return geometry.AABB{Min: b.Position, Max: b.Position}
	}
	return b.Collider.BoundsAt(b.Position)
}
