package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhaven/internal/domain"
)

// dialTestConn returns both halves of a live websocket connection.
func dialTestConn(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	accepted := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		accepted <- c
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	select {
	case server = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("server side never accepted")
	}
	t.Cleanup(func() { _ = server.Close() })

	return server, client
}

func TestHub_PushDeliversEvent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server, client := dialTestConn(t)
	hub.Attach(100, server)

	ok := hub.Push(100, newMessageEvent(&domain.ChatMessage{
		ID:       321,
		ChatID:   7,
		SenderID: 200,
		Body:     "hello",
	}))
	require.True(t, ok)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	var ev Event
	require.NoError(t, client.ReadJSON(&ev))
	assert.Equal(t, "new_message", ev.Type)
	require.NotNil(t, ev.Message)
	assert.Equal(t, int64(321), ev.Message.ID)
	assert.Equal(t, "hello", ev.Message.Body)
}

func TestHub_PushToOfflineUser(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	assert.False(t, hub.Push(999, newMessageEvent(&domain.ChatMessage{ID: 1})))
}

func TestHub_DetachRemovesConnection(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server, _ := dialTestConn(t)
	hub.Attach(100, server)
	hub.Detach(100, server)

	assert.False(t, hub.Push(100, newMessageEvent(&domain.ChatMessage{ID: 1})))
}

func TestHub_StaleDetachKeepsNewSession(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	oldServer, _ := dialTestConn(t)
	newServer, newClient := dialTestConn(t)

	hub.Attach(100, oldServer)
	hub.Attach(100, newServer)

	// The replaced session's read loop exits and detaches its own socket.
	// The fresh session must survive that cleanup.
	hub.Detach(100, oldServer)

	require.True(t, hub.Push(100, newMessageEvent(&domain.ChatMessage{ID: 2, Body: "still here"})))

	require.NoError(t, newClient.SetReadDeadline(time.Now().Add(time.Second)))
	var ev Event
	require.NoError(t, newClient.ReadJSON(&ev))
	assert.Equal(t, "still here", ev.Message.Body)
}
