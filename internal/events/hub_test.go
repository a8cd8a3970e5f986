package events

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_WebSocketReceivesEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)

	r := gin.New()
	r.GET("/ws", WSHandler(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "welcome")

	require.Eventually(t, func() bool { return hub.Stats().WSClients == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(context.Background(), Event{Type: MarketsPromoted, City: "Bangkok", Names: []string{"Big C"}})

	_, msg, err = ws.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, MarketsPromoted, ev.Type)
	assert.Equal(t, []string{"Big C"}, ev.Names)
	assert.False(t, ev.At.IsZero())
}

func TestServer_TCPSubscriber(t *testing.T) {
	hub := NewHub(nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(ln.Addr().String(), hub)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	rd := bufio.NewReader(conn)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := rd.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"transport":"tcp"`)
	assert.Contains(t, line, `"clients":1`)

	hub.Publish(context.Background(), Event{Type: RecipeDeleted, ID: 7})
	line, err = rd.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"type":"recipe.deleted"`)
	assert.Contains(t, line, `"id":7`)

	require.NoError(t, srv.Close())
	require.NoError(t, <-done)
}

func TestHub_DropsBrokenSubscriber(t *testing.T) {
	hub := NewHub(nil)
	server, client := net.Pipe()
	go func() {
		_, _ = bufio.NewReader(client).ReadString('\n')
		_ = client.Close()
	}()

	require.NoError(t, hub.AddTCP(server))
	assert.Equal(t, Stats{TCPClients: 1}, hub.Stats())

	hub.Publish(context.Background(), Event{Type: FoodDeleted, ID: 3})
	assert.Equal(t, Stats{}, hub.Stats())

	hub.RemoveTCP(server)
}
