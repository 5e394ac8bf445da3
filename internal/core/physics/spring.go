package physics

// Spring is a Hookean constraint between two bodies identified by handle.
// It lives in the world that owns both bodies and is dropped automatically
// once either body is removed.
type Spring struct {
	A Handle
	B Handle

	// RestLength is the distance at which the spring applies no force.
	RestLength float64
	// Stiffness is the Hooke constant, force per unit of stretch.
	Stiffness float64
	// Damping scales the force opposing relative motion along the spring.
	Damping float64
}

// apply computes the spring and damping forces and applies the pair to both
// bodies. Co-located endpoints produce no force: with zero distance there is
// no direction to push along.
func (s Spring) apply(a, b *Body) {
	delta := b.Position.Sub(a.Position)
	distance := delta.Length()
	if distance == 0 {
		return
	}

	direction := delta.Div(distance)
	stretch := distance - s.RestLength
	force := direction.Scale(s.Stiffness * stretch)

	relVelocity := b.Velocity.Sub(a.Velocity)
	damping := direction.Scale(relVelocity.Dot(direction) * s.Damping)

	total := force.Add(damping)
	a.ApplyForce(total)
	b.ApplyForce(total.Neg())
}
