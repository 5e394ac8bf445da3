package server

import (
	"github.com/zeusync/planar/internal/core/events/bus"
	"github.com/zeusync/planar/internal/core/math2d"
	"github.com/zeusync/planar/internal/core/observability/log"
	"github.com/zeusync/planar/internal/core/physics"
)

// Command ops accepted from clients.
const (
	OpSpawnCircle = "spawn_circle"
	OpSpawnBox    = "spawn_box"
	OpImpulse     = "impulse"
	OpRemove      = "remove"
)

// Vec2 is the wire form of a vector.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Command is a structural mutation requested by a client. Commands are
// queued and applied at the next tick boundary, never mid-step.
type Command struct {
	Op string `json:"op"`

	// Body targets an existing body for impulse/remove.
	Body uint64 `json:"body,omitempty"`

	Pos     Vec2    `json:"pos,omitempty"`
	Impulse Vec2    `json:"impulse,omitempty"`
	Mass    float64 `json:"mass,omitempty"`

	// Radius for spawn_circle, HalfExtent for spawn_box.
	Radius     float64 `json:"radius,omitempty"`
	HalfExtent Vec2    `json:"half_extent,omitempty"`
}

// apply executes one command against the world. Runs on the tick goroutine
// only. Bad commands are logged and dropped; they never fail the tick.
func (s *Server) apply(cmd Command) {
	switch cmd.Op {
	case OpSpawnCircle, OpSpawnBox:
		def := physics.MakeBodyDef()
		def.Position = math2d.Vec(cmd.Pos.X, cmd.Pos.Y)
		if cmd.Mass > 0 {
			def.Mass = cmd.Mass
		}
		if cmd.Op == OpSpawnCircle {
			def.Collider = physics.CircleCollider{Radius: cmd.Radius}
		} else {
			def.Collider = physics.BoxCollider{HalfExtent: math2d.Vec(cmd.HalfExtent.X, cmd.HalfExtent.Y)}
		}
		h := s.world.AddBody(physics.NewBody(def))
		s.publish(EventBodyAdded, uint64(h))

	case OpImpulse:
		if body, ok := s.world.Body(physics.Handle(cmd.Body)); ok {
			body.ApplyImpulse(math2d.Vec(cmd.Impulse.X, cmd.Impulse.Y))
		}

	case OpRemove:
		if s.world.RemoveBody(physics.Handle(cmd.Body)) {
			s.publish(EventBodyRemoved, cmd.Body)
		}

	default:
		s.logger.Warn("unknown command", log.String("op", cmd.Op))
	}
}

func (s *Server) publish(eventType string, handle uint64) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(bus.NewEvent(eventType, "server", handle)); err != nil {
		s.logger.Warn("event delivery failed", log.Error(err))
	}
}
