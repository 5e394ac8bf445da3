package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/planar/internal/core/events/bus"
	"github.com/zeusync/planar/internal/core/math2d"
	"github.com/zeusync/planar/internal/core/physics"
)

func testServer() *Server {
	def := physics.MakeWorldDef()
	def.Gravity = math2d.Zero
	return NewServer(physics.NewWorld(def), bus.New(), DefaultConfig(), nil)
}

func TestApplySpawnCircle(t *testing.T) {
	s := testServer()
	s.apply(Command{Op: OpSpawnCircle, Pos: Vec2{X: 1, Y: 2}, Radius: 0.5, Mass: 2})

	assert.Equal(t, 1, s.world.BodyCount())
	handles := s.world.QueryPoint(math2d.Vec(1, 2))
	require.Len(t, handles, 1)
	body, ok := s.world.Body(handles[0])
	require.True(t, ok)
	assert.Equal(t, 2.0, body.Mass())
}

func TestApplySpawnBox(t *testing.T) {
	s := testServer()
	s.apply(Command{Op: OpSpawnBox, Pos: Vec2{X: 0, Y: 0}, HalfExtent: Vec2{X: 1, Y: 1}})
	assert.Len(t, s.world.QueryPoint(math2d.Vec(0.5, 0.5)), 1)
}

func TestApplyImpulseAndRemove(t *testing.T) {
	s := testServer()
	s.apply(Command{Op: OpSpawnCircle, Radius: 1, Mass: 1})
	h := s.world.QueryPoint(math2d.Zero)[0]

	s.apply(Command{Op: OpImpulse, Body: uint64(h), Impulse: Vec2{X: 3}})
	body, _ := s.world.Body(h)
	assert.InDelta(t, 3.0, body.Velocity.X, 1e-12)

	s.apply(Command{Op: OpRemove, Body: uint64(h)})
	assert.Zero(t, s.world.BodyCount())
}

func TestApplyUnknownOpIgnored(t *testing.T) {
	s := testServer()
	assert.NotPanics(t, func() { s.apply(Command{Op: "warp"}) })
	assert.Zero(t, s.world.BodyCount())
}

func TestCommandsAppliedAtTickBoundary(t *testing.T) {
	s := testServer()
	s.Enqueue(Command{Op: OpSpawnCircle, Radius: 1})
	assert.Zero(t, s.world.BodyCount(), "queued, not applied")

	s.stepOnce(1.0 / 60.0)
	assert.Equal(t, 1, s.world.BodyCount())
}

func TestCollisionEventsPublished(t *testing.T) {
	s := testServer()
	var got []bus.Event
	_, err := s.events.Subscribe(EventCollision, func(e bus.Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)

	s.apply(Command{Op: OpSpawnCircle, Pos: Vec2{X: 0, Y: 0}, Radius: 1})
	s.apply(Command{Op: OpSpawnCircle, Pos: Vec2{X: 1.5, Y: 0}, Radius: 1})
	s.stepOnce(1.0 / 60.0)

	require.NotEmpty(t, got)
	_, ok := got[0].Data().(physics.Collision)
	assert.True(t, ok, "event payload is the collision")
}

func TestSnapshotContents(t *testing.T) {
	s := testServer()
	s.apply(Command{Op: OpSpawnCircle, Pos: Vec2{X: 1, Y: 2}, Radius: 0.5})
	s.apply(Command{Op: OpSpawnBox, Pos: Vec2{X: 5, Y: 5}, HalfExtent: Vec2{X: 1, Y: 2}})

	snap := s.snapshot(nil)
	require.Len(t, snap.Bodies, 2)

	byCollider := map[string]BodySnapshot{}
	for _, b := range snap.Bodies {
		byCollider[b.Collider] = b
	}
	circle := byCollider["circle"]
	assert.Equal(t, 0.5, circle.Radius)
	assert.Equal(t, Vec2{X: 1, Y: 2}, circle.Pos)

	box := byCollider["box"]
	require.NotNil(t, box.HalfExtent)
	assert.Equal(t, Vec2{X: 1, Y: 2}, *box.HalfExtent)
}

func TestWebSocketSnapshotRoundTrip(t *testing.T) {
	s := testServer()
	s.apply(Command{Op: OpSpawnCircle, Radius: 1})

	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.clients) == 1
	}, time.Second, 10*time.Millisecond, "client registration")

	s.stepOnce(1.0 / 60.0)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(payload, &snap))
	assert.Equal(t, uint64(1), snap.Tick)
	require.Len(t, snap.Bodies, 1)
	assert.Equal(t, "circle", snap.Bodies[0].Collider)
}

func TestWebSocketCommandIngestion(t *testing.T) {
	s := testServer()
	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	cmd := Command{Op: OpSpawnCircle, Pos: Vec2{X: 3, Y: 4}, Radius: 1}
	require.NoError(t, conn.WriteJSON(cmd))

	require.Eventually(t, func() bool {
		s.stepOnce(1.0 / 60.0)
		return s.world.BodyCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestMaxClients(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxClients = 1
	def := physics.MakeWorldDef()
	s := NewServer(physics.NewWorld(def), nil, cfg, nil)

	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer first.Close()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.clients) == 1
	}, time.Second, 10*time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestMaxClientsCountsPendingUpgrades(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxClients = 1
	s := NewServer(physics.NewWorld(physics.MakeWorldDef()), nil, cfg, nil)

	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	// a connection mid-upgrade holds the only slot
	s.mu.Lock()
	s.reserved = 1
	s.mu.Unlock()

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestFailedUpgradeReleasesReservation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxClients = 1
	s := NewServer(physics.NewWorld(physics.MakeWorldDef()), nil, cfg, nil)

	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer ts.Close()

	// a plain GET passes the capacity check but fails the upgrade
	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	s.mu.Lock()
	reserved := s.reserved
	s.mu.Unlock()
	assert.Zero(t, reserved)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err, "slot is free again")
	defer conn.Close()
}
