// Package server exposes a running physics world over websockets: it steps
// the simulation on a fixed tick, broadcasts body snapshots to connected
// clients, and queues inbound commands so structural mutations only happen
// between steps, never while the solver is running.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/planar/internal/core/events/bus"
	"github.com/zeusync/planar/internal/core/observability/log"
	"github.com/zeusync/planar/internal/core/physics"
)

// Event types published on the bus.
const (
	EventCollision   = "physics.collision"
	EventBodyAdded   = "physics.body.added"
	EventBodyRemoved = "physics.body.removed"
)

// Config holds the simulation server settings.
type Config struct {
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
	// TickRate is the number of simulation steps per second.
	TickRate int `json:"tick_rate" yaml:"tick_rate"`
	// MaxClients bounds concurrent websocket connections; 0 means
	// unlimited.
	MaxClients int `json:"max_clients" yaml:"max_clients"`
}

// DefaultConfig returns a localhost server at 60 ticks per second.
func DefaultConfig() Config {
	return Config{
		ListenAddr: "localhost:8080",
		TickRate:   60,
	}
}

// Server owns the world it simulates. All world access goes through the
// tick loop; clients only ever see snapshots and enqueue commands.
type Server struct {
	world  *physics.World
	events bus.EventBus
	config Config
	logger log.Log

	mu       sync.Mutex
	clients  map[string]*client
	reserved int
	commands []Command
	tick     uint64

	httpServer *http.Server
	cancel     context.CancelFunc
	group      *errgroup.Group
}

// NewServer wraps a world. The bus receives collision and body-lifecycle
// events each tick; pass nil to disable eventing.
func NewServer(world *physics.World, events bus.EventBus, config Config, logger log.Log) *Server {
	if config.TickRate <= 0 {
		config.TickRate = 60
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Server{
		world:   world,
		events:  events,
		config:  config,
		logger:  logger,
		clients: make(map[string]*client),
	}
}

// Start launches the HTTP listener and the tick loop. It returns
// immediately; use Stop to shut down.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.httpServer = &http.Server{Addr: s.config.ListenAddr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	s.group = g

	g.Go(func() error {
		err := s.httpServer.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return s.runTicks(ctx)
	})

	s.logger.Info("simulation server started",
		log.String("addr", s.config.ListenAddr),
		log.Int("tick_rate", s.config.TickRate),
	)
	return nil
}

// Stop shuts the listener down and waits for the tick loop to exit.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
	}
	if s.group != nil {
		return s.group.Wait()
	}
	return nil
}

// Enqueue schedules a command for the next tick boundary.
func (s *Server) Enqueue(cmd Command) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
}

func (s *Server) runTicks(ctx context.Context) error {
	dt := 1.0 / float64(s.config.TickRate)
	ticker := time.NewTicker(time.Second / time.Duration(s.config.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.stepOnce(dt)
		}
	}
}

// stepOnce runs a single tick: queued commands first, then the physics
// step, then events and the snapshot broadcast.
func (s *Server) stepOnce(dt float64) {
	s.mu.Lock()
	pending := s.commands
	s.commands = nil
	s.mu.Unlock()

	for _, cmd := range pending {
		s.apply(cmd)
	}

	collisions := s.world.Step(dt)
	s.tick++

	if s.events != nil && len(collisions) > 0 {
		for _, c := range collisions {
			if err := s.events.Publish(bus.NewEvent(EventCollision, "server", c)); err != nil {
				s.logger.Warn("collision event delivery failed", log.Error(err))
			}
		}
	}

	s.broadcast(s.snapshot(collisions))
}
