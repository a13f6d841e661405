package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, userID int64) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(userID, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNotify_DeliversToConnectedUser(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, 7)

	assert.True(t, hub.IsOnline(7))
	hub.Notify(7, "listing_saved", map[string]interface{}{"listing_id": float64(42)})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Event
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "listing_saved", msg.Event)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), payload["listing_id"])
}

func TestNotify_OfflineUserIsNoop(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.IsOnline(99))
	hub.Notify(99, "listing_saved", nil) // не должен паниковать
	assert.Equal(t, 0, hub.OnlineCount())
}

func TestUnregister_ClosesConnection(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, 7)

	hub.Unregister(7)
	assert.False(t, hub.IsOnline(7))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "соединение закрыто хабом")
}
