package fanout_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ijlaln/footycount-app/internal/fanout"
	"github.com/ijlaln/footycount-app/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg wireMessage
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestBroadcast_ReachesAllClients(t *testing.T) {
	hub := fanout.NewHub(metrics.NewMock())
	go hub.Run()

	server := httptest.NewServer(hub.ServeWS())
	defer server.Close()

	first := dial(t, server)
	second := dial(t, server)

	// Give the hub a moment to register both clients.
	time.Sleep(50 * time.Millisecond)
	hub.Broadcast(fanout.EventNewMatch, map[string]any{"id": 1})

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, fanout.EventNewMatch, msg.Event)
	}
}

func TestBroadcastRoom_ScopedToJoinedClients(t *testing.T) {
	hub := fanout.NewHub(metrics.NewMock())
	go hub.Run()

	server := httptest.NewServer(hub.ServeWS())
	defer server.Close()

	member := dial(t, server)
	outsider := dial(t, server)

	require.NoError(t, member.WriteJSON(map[string]string{"type": "join-room", "room": fanout.RoomAdmin}))

	// The join ack confirms the hub has processed the room change.
	ack := readMessage(t, member)
	require.Equal(t, fanout.EventJoined, ack.Event)

	hub.BroadcastRoom(fanout.EventMatchNotification, fanout.RoomAdmin, map[string]any{"matchId": 7})

	msg := readMessage(t, member)
	assert.Equal(t, fanout.EventMatchNotification, msg.Event)

	// The outsider never joined the room and must not receive the event.
	require.NoError(t, outsider.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := outsider.ReadMessage()
	assert.Error(t, err, "expected a read timeout for the unsubscribed client")
}

func TestConnectedClientsGauge(t *testing.T) {
	mockMetrics := metrics.NewMock()
	hub := fanout.NewHub(mockMetrics)
	go hub.Run()

	server := httptest.NewServer(hub.ServeWS())
	defer server.Close()

	conn := dial(t, server)
	require.Eventually(t, func() bool {
		return mockMetrics.ConnectedClients() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool {
		return mockMetrics.ConnectedClients() == 0
	}, time.Second, 10*time.Millisecond)
}
