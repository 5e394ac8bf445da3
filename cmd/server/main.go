package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/planar/internal/core/events/bus"
	"github.com/zeusync/planar/internal/core/math2d"
	"github.com/zeusync/planar/internal/core/observability/log"
	"github.com/zeusync/planar/internal/core/physics"
	"github.com/zeusync/planar/internal/server"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "listen address")
	configPath := flag.String("config", "", "optional physics config (YAML)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := log.LevelInfo
	if *debug {
		level = log.LevelDebug
	}
	logger := log.New(level)

	world, err := buildWorld(*configPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error building world:", err)
		os.Exit(1)
	}

	seedDemoScene(world)

	cfg := server.DefaultConfig()
	cfg.ListenAddr = *addr

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := server.NewServer(world, bus.New(), cfg, logger)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	if err = srv.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error starting server:", err)
		os.Exit(1)
	}

	<-stopCh
	cancel()
	if err = srv.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, "error stopping server:", err)
	}
}

func buildWorld(configPath string, logger log.Log) (*physics.World, error) {
	def := physics.MakeWorldDef()
	if configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		cfg, err := physics.LoadConfigYAML(f)
		if err != nil {
			return nil, err
		}
		if err = cfg.Validate(); err != nil {
			return nil, err
		}
		def = cfg.WorldDef()
	}
	def.Logger = logger
	return physics.NewWorld(def), nil
}

// seedDemoScene adds a floor, a ragdoll, and a few bouncing balls so a
// fresh server has something to stream.
func seedDemoScene(world *physics.World) {
	ground := physics.MakeBodyDef()
	ground.Position = math2d.Vec(0, -10)
	ground.Static = true
	ground.Mass = 0
	ground.Collider = physics.BoxCollider{HalfExtent: math2d.Vec(50, 1)}
	world.AddBody(physics.NewBody(ground))

	physics.NewRagdoll(world, math2d.Vec(0, 2))

	for i := 0; i < 5; i++ {
		ball := physics.MakeBodyDef()
		ball.Position = math2d.Vec(float64(i-2)*3, 8)
		ball.Restitution = 0.7
		ball.Collider = physics.CircleCollider{Radius: 0.5}
		world.AddBody(physics.NewBody(ball))
	}
}
