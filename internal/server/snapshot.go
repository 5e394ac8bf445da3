package server

import (
	"bytes"
	"encoding/json"

	"github.com/zeusync/planar/internal/core/observability/log"
	"github.com/zeusync/planar/internal/core/physics"
	"github.com/zeusync/planar/pkg/generic"
)

// Snapshot is the per-tick world state sent to every client.
type Snapshot struct {
	Tick       uint64         `json:"tick"`
	Bodies     []BodySnapshot `json:"bodies"`
	Collisions int            `json:"collisions"`
}

// BodySnapshot carries the render-relevant state of one body.
type BodySnapshot struct {
	Handle   uint64 `json:"handle"`
	Pos      Vec2   `json:"pos"`
	Vel      Vec2   `json:"vel"`
	Static   bool   `json:"static,omitempty"`
	Collider string `json:"collider,omitempty"`

	Radius     float64 `json:"radius,omitempty"`
	HalfExtent *Vec2   `json:"half_extent,omitempty"`
}

var bufferPool = generic.NewPool(func() *bytes.Buffer { return &bytes.Buffer{} })

// snapshot captures the world state after a step. Runs on the tick
// goroutine, so reading body state is safe.
func (s *Server) snapshot(collisions []physics.Collision) Snapshot {
	snap := Snapshot{
		Tick:       s.tick,
		Bodies:     make([]BodySnapshot, 0, s.world.BodyCount()),
		Collisions: len(collisions),
	}
	s.world.ForEach(func(h physics.Handle, body *physics.Body) {
		bs := BodySnapshot{
			Handle: uint64(h),
			Pos:    Vec2{X: body.Position.X, Y: body.Position.Y},
			Vel:    Vec2{X: body.Velocity.X, Y: body.Velocity.Y},
			Static: body.Static,
		}
		switch c := body.Collider.(type) {
		case physics.CircleCollider:
			bs.Collider = "circle"
			bs.Radius = c.Radius
		case physics.BoxCollider:
			bs.Collider = "box"
			bs.HalfExtent = &Vec2{X: c.HalfExtent.X, Y: c.HalfExtent.Y}
		}
		snap.Bodies = append(snap.Bodies, bs)
	})
	return snap
}

// broadcast encodes the snapshot once and fans it out to all clients.
func (s *Server) broadcast(snap Snapshot) {
	s.mu.Lock()
	if len(s.clients) == 0 {
		s.mu.Unlock()
		return
	}
	targets := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	buf := bufferPool.Get()
	buf.Reset()
	defer bufferPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(snap); err != nil {
		s.logger.Error("encode snapshot", log.Error(err))
		return
	}

	payload := buf.Bytes()
	for _, c := range targets {
		c.send(payload)
	}
}
