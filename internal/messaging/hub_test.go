package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx) //nolint:errcheck

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, window string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?window=" + window
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func waitForClients(t *testing.T, hub *Hub, window string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount(window) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHubRouting(t *testing.T) {
	hub, srv := startHub(t)

	review := dial(t, srv, WindowReview)
	record := dial(t, srv, WindowRecord)
	waitForClients(t, hub, "", 2)

	require.NoError(t, hub.Publish(WindowReview, TypeModeSwitch, ModeSwitch{Mode: ModeReview}))
	require.NoError(t, hub.Publish("", TypeMatchID, MatchIDPayload{MatchID: "m1"}))

	msg := readMessage(t, review)
	assert.Equal(t, TypeModeSwitch, msg.Type)
	var mode ModeSwitch
	require.NoError(t, json.Unmarshal(msg.Payload, &mode))
	assert.Equal(t, ModeReview, mode.Mode)

	msg = readMessage(t, review)
	assert.Equal(t, TypeMatchID, msg.Type)

	// the record window only sees the broadcast
	msg = readMessage(t, record)
	assert.Equal(t, TypeMatchID, msg.Type)
	var payload MatchIDPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "m1", payload.MatchID)
}

func TestHubRetainsLastMessage(t *testing.T) {
	hub, srv := startHub(t)

	require.NoError(t, hub.Publish(WindowReview, TypeMatchID, MatchIDPayload{MatchID: "old"}))
	require.NoError(t, hub.Publish(WindowReview, TypeMatchID, MatchIDPayload{MatchID: "new"}))
	require.Eventually(t, func() bool { return len(hub.publish) == 0 }, 2*time.Second, 10*time.Millisecond)

	// give the run loop time to store the second message
	time.Sleep(50 * time.Millisecond)

	review := dial(t, srv, WindowReview)
	msg := readMessage(t, review)

	var payload MatchIDPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "new", payload.MatchID)
}

func TestHubRelaysBetweenWindows(t *testing.T) {
	hub, srv := startHub(t)

	dashboard := dial(t, srv, WindowDashboard)
	review := dial(t, srv, WindowReview)
	waitForClients(t, hub, "", 2)

	require.NoError(t, dashboard.WriteJSON(Message{
		Type:    TypeMatchID,
		Window:  WindowReview,
		Payload: json.RawMessage(`{"match_id":"m7"}`),
	}))

	msg := readMessage(t, review)
	assert.Equal(t, TypeMatchID, msg.Type)
	assert.Equal(t, WindowDashboard, msg.From)
	assert.JSONEq(t, `{"match_id":"m7"}`, string(msg.Payload))
}

func TestHubRelayScope(t *testing.T) {
	hub, srv := startHub(t)

	dashboard := dial(t, srv, WindowDashboard)
	review := dial(t, srv, WindowReview)
	waitForClients(t, hub, "", 2)

	require.NoError(t, dashboard.WriteJSON(Message{
		Type:    TypeMatchID,
		Window:  "scratch-pad",
		Payload: json.RawMessage(`{"match_id":"x"}`),
	}))
	require.NoError(t, dashboard.WriteJSON(Message{
		Type:    TypeRosterData,
		Payload: json.RawMessage(`{"roster":[]}`),
	}))

	// relayed messages are handled in order, so the first one is done
	msg := readMessage(t, review)
	assert.Equal(t, TypeRosterData, msg.Type)
	assert.Equal(t, WindowDashboard, msg.From)

	hub.mu.RLock()
	for key := range hub.retained {
		assert.True(t, knownWindow(key.window), "retained message for %q", key.window)
	}
	hub.mu.RUnlock()

	// the sender does not get its own broadcast back
	require.NoError(t, hub.Publish(WindowDashboard, TypeMatchID, MatchIDPayload{MatchID: "m2"}))
	msg = readMessage(t, dashboard)
	assert.Equal(t, TypeMatchID, msg.Type)
	assert.Empty(t, msg.From)
}

func TestHubRequiresWindow(t *testing.T) {
	_, srv := startHub(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHubDisconnect(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv, WindowRecord)
	waitForClients(t, hub, WindowRecord, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, WindowRecord, 0)
}
