package physics

import (
	"fmt"
	"math"

	"github.com/zeusync/planar/internal/core/math2d"
	"github.com/zeusync/planar/internal/core/observability/log"
)

// Handle identifies a body in a world. Handles stay valid until the body is
// removed; a handle to a removed body resolves to nothing even if its slot
// has been reused. The zero Handle is never valid.
type Handle uint64

func makeHandle(slot, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(slot))
}

func (h Handle) slot() uint32       { return uint32(h) }
func (h Handle) generation() uint32 { return uint32(h >> 32) }

// IsValid reports whether the handle could ever name a body. It does not
// check liveness; use World.Body for that.
func (h Handle) IsValid() bool { return h.generation() != 0 }

// positional correction tuning (Baumgarte stabilization)
const (
	correctionSlop    = 0.01
	correctionPercent = 0.8
)

// WorldDef configures a new world. Use MakeWorldDef for defaults.
type WorldDef struct {
	Gravity  math2d.Vector2
	CellSize float64

	VelocityIterations int
	PositionIterations int

	// FixedDT is the fallback step size used when Step is called with a
	// non-positive dt.
	FixedDT float64

	Logger log.Log
}

// MakeWorldDef returns the default world configuration: earth-like gravity
// and the reference solver iteration counts.
func MakeWorldDef() WorldDef {
	return WorldDef{
		Gravity:            math2d.Vec(0, -9.81),
		CellSize:           DefaultCellSize,
		VelocityIterations: 8,
		PositionIterations: 3,
		FixedDT:            1.0 / 60.0,
	}
}

type bodySlot struct {
	body       *Body
	generation uint32
}

// World owns a set of bodies and springs and advances them with Step. It is
// not safe for concurrent use: Step is the sole mutator and must not be
// re-entered; readers may inspect body state between steps.
type World struct {
	gravity math2d.Vector2

	slots []bodySlot
	free  []uint32
	count int

	springs []Spring

	hash       *spatialHash
	visited    map[uint64]struct{}
	collisions []Collision

	velocityIterations int
	positionIterations int
	fixedDT            float64

	onCollision func(Collision)

	logger log.Log
}

// NewWorld creates an empty world from the definition. Zero or negative
// iteration counts and dt fall back to the defaults.
func NewWorld(def WorldDef) *World {
	if def.VelocityIterations < 1 {
		def.VelocityIterations = 8
	}
	if def.PositionIterations < 1 {
		def.PositionIterations = 3
	}
	if def.FixedDT <= 0 {
		def.FixedDT = 1.0 / 60.0
	}
	if def.Logger == nil {
		def.Logger = log.NewNop()
	}
	return &World{
		gravity:            def.Gravity,
		hash:               newSpatialHash(def.CellSize),
		visited:            make(map[uint64]struct{}),
		velocityIterations: def.VelocityIterations,
		positionIterations: def.PositionIterations,
		fixedDT:            def.FixedDT,
		logger:             def.Logger,
	}
}

// Gravity returns the world gravity vector.
func (w *World) Gravity() math2d.Vector2 { return w.gravity }

// SetGravity changes the world gravity vector.
func (w *World) SetGravity(g math2d.Vector2) { w.gravity = g }

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int { return w.count }

// SpringCount returns the number of live springs.
func (w *World) SpringCount() int { return len(w.springs) }

// SetCollisionHandler registers a callback invoked once per contact at the
// end of Step, after the solver has run. The handler may add or remove
// bodies; the step pipeline is already complete when it fires.
func (w *World) SetCollisionHandler(fn func(Collision)) {
	w.onCollision = fn
}

// AddBody takes ownership of the body and returns its handle. Slots of
// removed bodies are reused; the generation in the handle tells them apart.
func (w *World) AddBody(body *Body) Handle {
	var slot uint32
	if n := len(w.free); n > 0 {
		slot = w.free[n-1]
		w.free = w.free[:n-1]
		w.slots[slot].body = body
	} else {
		slot = uint32(len(w.slots))
		w.slots = append(w.slots, bodySlot{body: body, generation: 1})
	}
	w.count++
	h := makeHandle(slot, w.slots[slot].generation)
	w.logger.Debug("body added",
		log.Uint64("handle", uint64(h)),
		log.Bool("static", body.Static),
		log.Int("bodies", w.count),
	)
	return h
}

// RemoveBody tombstones the body's slot and frees it for reuse. Springs
// attached to the body are pruned on the next Step. Stale handles are
// ignored.
func (w *World) RemoveBody(h Handle) bool {
	body := w.resolve(h)
	if body == nil {
		return false
	}
	slot := h.slot()
	w.slots[slot].body = nil
	w.slots[slot].generation++
	w.free = append(w.free, slot)
	w.count--
	w.logger.Debug("body removed",
		log.Uint64("handle", uint64(h)),
		log.Int("bodies", w.count),
	)
	return true
}

// Body resolves a handle to its body, or reports false if the body has been
// removed.
func (w *World) Body(h Handle) (*Body, bool) {
	body := w.resolve(h)
	return body, body != nil
}

// ForEach calls fn for every live body in slot order.
func (w *World) ForEach(fn func(Handle, *Body)) {
	for i := range w.slots {
		if s := &w.slots[i]; s.body != nil {
			fn(makeHandle(uint32(i), s.generation), s.body)
		}
	}
}

func (w *World) resolve(h Handle) *Body {
	slot := h.slot()
	if int(slot) >= len(w.slots) {
		return nil
	}
	s := &w.slots[slot]
	if s.generation != h.generation() {
		return nil
	}
	return s.body
}

// AddSpring attaches a spring between two live bodies.
func (w *World) AddSpring(s Spring) error {
	if w.resolve(s.A) == nil {
		return fmt.Errorf("spring endpoint A %d: no such body", s.A)
	}
	if w.resolve(s.B) == nil {
		return fmt.Errorf("spring endpoint B %d: no such body", s.B)
	}
	w.springs = append(w.springs, s)
	return nil
}

// Step advances the simulation by dt (or the fixed dt when dt <= 0):
// integration, springs, broad phase, narrow phase, velocity solve, position
// solve. It returns the contacts found this step; the slice is reused by
// the next call. Step never fails: degenerate geometry and infinite masses
// are contained silently.
func (w *World) Step(dt float64) []Collision {
	if dt <= 0 {
		dt = w.fixedDT
	}

	for i := range w.slots {
		if body := w.slots[i].body; body != nil {
			body.Integrate(dt, w.gravity)
		}
	}

	w.applySprings()
	w.broadPhase()
	w.narrowPhase()

	for i := 0; i < w.velocityIterations; i++ {
		w.resolveVelocities()
	}
	for i := 0; i < w.positionIterations; i++ {
		w.resolvePositions()
	}

	if w.onCollision != nil {
		for _, c := range w.collisions {
			w.onCollision(c)
		}
	}
	return w.collisions
}

// applySprings applies every live spring and drops springs whose endpoints
// have been removed.
func (w *World) applySprings() {
	kept := w.springs[:0]
	for _, s := range w.springs {
		a := w.resolve(s.A)
		b := w.resolve(s.B)
		if a == nil || b == nil {
			w.logger.Debug("spring dropped, endpoint removed",
				log.Uint64("a", uint64(s.A)),
				log.Uint64("b", uint64(s.B)),
			)
			continue
		}
		s.apply(a, b)
		kept = append(kept, s)
	}
	w.springs = kept
}

// broadPhase rebuilds the spatial hash. Static bodies are inserted too;
// without them the ground under a falling body would never reach the narrow
// phase.
func (w *World) broadPhase() {
	w.hash.reset()
	for i := range w.slots {
		body := w.slots[i].body
		if body == nil || body.Collider == nil {
			continue
		}
		w.hash.insert(uint32(i), body.Position)
	}
}

// narrowPhase tests every unordered pair sharing a bucket. A pair can share
// several buckets (each body occupies 9 cells), so tested pairs are
// deduplicated.
func (w *World) narrowPhase() {
	w.collisions = w.collisions[:0]
	clear(w.visited)

	for bi := range w.hash.buckets {
		bucket := w.hash.buckets[bi]
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				sa, sb := bucket[i], bucket[j]
				if sa == sb {
					continue
				}
				if sa > sb {
					sa, sb = sb, sa
				}
				pair := uint64(sa)<<32 | uint64(sb)
				if _, seen := w.visited[pair]; seen {
					continue
				}
				w.visited[pair] = struct{}{}

				a := w.slots[sa].body
				b := w.slots[sb].body
				if a.Static && b.Static {
					continue
				}

				ha := makeHandle(sa, w.slots[sa].generation)
				hb := makeHandle(sb, w.slots[sb].generation)
				if c, ok := collide(ha, hb, a, b); ok {
					w.collisions = append(w.collisions, c)
				}
			}
		}
	}
}

// resolveVelocities applies one impulse pass over all contacts.
func (w *World) resolveVelocities() {
	for i := range w.collisions {
		c := &w.collisions[i]
		a, b := c.BodyA, c.BodyB

		invMassSum := a.invMass + b.invMass
		if invMassSum == 0 {
			// both effectively static, nothing to push
			continue
		}

		relVelocity := b.Velocity.Sub(a.Velocity)
		alongNormal := relVelocity.Dot(c.Normal)
		if alongNormal > 0 {
			// already separating
			continue
		}

		e := math.Min(a.Restitution, b.Restitution)
		j := -(1 + e) * alongNormal / invMassSum

		impulse := c.Normal.Scale(j)
		a.Velocity = a.Velocity.Sub(impulse.Scale(a.invMass))
		b.Velocity = b.Velocity.Add(impulse.Scale(b.invMass))

		// Coulomb friction along the tangent, clamped by the normal
		// impulse
		tangent := relVelocity.Sub(c.Normal.Scale(alongNormal))
		if tangent.LengthSquared() > 0 {
			tangent = tangent.Normalize()
			friction := (a.Friction + b.Friction) * 0.5
			jt := -relVelocity.Dot(tangent) / invMassSum
			maxJt := j * friction
			jt = math.Max(-maxJt, math.Min(maxJt, jt))

			frictionImpulse := tangent.Scale(jt)
			a.Velocity = a.Velocity.Sub(frictionImpulse.Scale(a.invMass))
			b.Velocity = b.Velocity.Add(frictionImpulse.Scale(b.invMass))
		}
	}
}

// resolvePositions applies one pass of Baumgarte-style penetration
// correction, proportioned by inverse mass and tolerating a small slop so
// resting contacts do not jitter.
func (w *World) resolvePositions() {
	for i := range w.collisions {
		c := &w.collisions[i]
		a, b := c.BodyA, c.BodyB

		invMassSum := a.invMass + b.invMass
		if invMassSum == 0 {
			continue
		}

		magnitude := math.Max(c.Depth-correctionSlop, 0) / invMassSum * correctionPercent
		correction := c.Normal.Scale(magnitude)

		a.Position = a.Position.Sub(correction.Scale(a.invMass))
		b.Position = b.Position.Add(correction.Scale(b.invMass))
	}
}
