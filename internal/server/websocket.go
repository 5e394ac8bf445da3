package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/planar/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// client is one websocket connection. Writes are serialized by writeMu;
// the tick loop and the control path may both send.
type client struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
	logger  log.Log
}

func (c *client) send(payload []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Debug("client write failed", log.String("client", c.id), log.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// reserve the slot before upgrading so concurrent upgrades cannot
	// both pass the capacity check
	s.mu.Lock()
	full := s.config.MaxClients > 0 && len(s.clients)+s.reserved >= s.config.MaxClients
	if !full {
		s.reserved++
	}
	s.mu.Unlock()
	if full {
		http.Error(w, "server full", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.mu.Lock()
		s.reserved--
		s.mu.Unlock()
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{
		id:     uuid.NewString(),
		conn:   conn,
		logger: s.logger,
	}

	s.mu.Lock()
	s.reserved--
	s.clients[c.id] = c
	count := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("client connected",
		log.String("client", c.id),
		log.String("remote", conn.RemoteAddr().String()),
		log.Int("clients", count),
	)

	go s.readCommands(c)
}

// readCommands pumps inbound command messages into the tick queue until
// the connection drops.
func (s *Server) readCommands(c *client) {
	defer s.dropClient(c)

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err = json.Unmarshal(payload, &cmd); err != nil {
			s.logger.Debug("bad command payload",
				log.String("client", c.id),
				log.Error(err),
			)
			continue
		}
		s.Enqueue(cmd)
	}
}

func (s *Server) dropClient(c *client) {
	_ = c.conn.Close()
	s.mu.Lock()
	delete(s.clients, c.id)
	count := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("client disconnected",
		log.String("client", c.id),
		log.Int("clients", count),
	)
}
