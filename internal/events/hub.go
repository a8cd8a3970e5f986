package events

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	transportTCP = "tcp"
	transportWS  = "websocket"

	writeTimeout = 2 * time.Second
)

// subscriber is one connected feed client. Writes happen with the hub lock
// held, so a subscriber never sees concurrent sends.
type subscriber interface {
	transport() string
	send(line []byte) error
	close() error
}

type tcpSubscriber struct{ conn net.Conn }

func (s tcpSubscriber) transport() string { return transportTCP }

func (s tcpSubscriber) send(line []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := s.conn.Write(line)
	return err
}

func (s tcpSubscriber) close() error { return s.conn.Close() }

type wsSubscriber struct{ ws *websocket.Conn }

func (s wsSubscriber) transport() string { return transportWS }

func (s wsSubscriber) send(line []byte) error {
	_ = s.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.ws.WriteMessage(websocket.TextMessage, line)
}

func (s wsSubscriber) close() error { return s.ws.Close() }

type welcome struct {
	Type      string `json:"type"`
	Transport string `json:"transport"`
	Clients   int    `json:"clients"`
}

// Hub keeps the connected subscribers of both transports, keyed by their
// underlying connection.
type Hub struct {
	mu   sync.Mutex
	subs map[any]subscriber
	log  *zap.Logger
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{subs: make(map[any]subscriber), log: log}
}

// AddTCP greets conn and registers it. A failed greeting closes conn.
func (h *Hub) AddTCP(conn net.Conn) error {
	return h.subscribe(conn, tcpSubscriber{conn: conn})
}

func (h *Hub) AddWS(ws *websocket.Conn) error {
	return h.subscribe(ws, wsSubscriber{ws: ws})
}

func (h *Hub) RemoveTCP(conn net.Conn)     { h.unsubscribe(conn) }
func (h *Hub) RemoveWS(ws *websocket.Conn) { h.unsubscribe(ws) }

func (h *Hub) subscribe(key any, s subscriber) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 1
	for _, other := range h.subs {
		if other.transport() == s.transport() {
			n++
		}
	}
	line, _ := json.Marshal(welcome{Type: "welcome", Transport: s.transport(), Clients: n})
	if err := s.send(append(line, '\n')); err != nil {
		_ = s.close()
		return err
	}
	h.subs[key] = s
	return nil
}

func (h *Hub) unsubscribe(key any) {
	h.mu.Lock()
	s, ok := h.subs[key]
	delete(h.subs, key)
	h.mu.Unlock()
	if ok {
		_ = s.close()
	}
}

// Publish stamps ev and sends it as one JSON line to every subscriber.
// Subscribers whose write fails are dropped.
func (h *Hub) Publish(_ context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	line, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("encode event", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	for key, s := range h.subs {
		if err := s.send(line); err != nil {
			h.log.Debug("dropping subscriber",
				zap.String("transport", s.transport()),
				zap.Error(err),
			)
			_ = s.close()
			delete(h.subs, key)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	var st Stats
	for _, s := range h.subs {
		switch s.transport() {
		case transportTCP:
			st.TCPClients++
		case transportWS:
			st.WSClients++
		}
	}
	return st
}
