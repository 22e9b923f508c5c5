package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startGateway(t *testing.T) (*Hub, *ConnectionManager, string) {
	t.Helper()
	hub := NewHub()
	cm := NewConnectionManager(hub, DefaultConnectionConfig())

	ctx, cancel := context.WithCancel(context.Background())
	go cm.Start(ctx)

	mux := http.NewServeMux()
	NewWebSocketHandler(cm).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, cm, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestSocketJoinReceivesRoomEvents(t *testing.T) {
	hub, cm, url := startGateway(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(clientMessage{Action: ActionJoinDraft, DraftID: "42"}))
	joined := readJSON(t, conn)
	assert.Equal(t, ackJoined, joined["event"])
	assert.Equal(t, "draft-42", joined["topic"])

	require.Eventually(t, func() bool { return hub.SubscriberCount("draft-42") == 1 }, time.Second, 10*time.Millisecond)

	other, err := NewEvent("draft-7", "draft-update", map[string]string{"type": "other"})
	require.NoError(t, err)
	require.NoError(t, hub.Publish(context.Background(), "draft-7", other))

	ev, err := NewEvent("draft-42", "draft-update", map[string]string{"type": "new-picks"})
	require.NoError(t, err)
	require.NoError(t, hub.Publish(context.Background(), "draft-42", ev))

	msg := readJSON(t, conn)
	assert.Equal(t, "draft-update", msg["event"])
	assert.Equal(t, map[string]any{"type": "new-picks"}, msg["data"])

	stats := cm.GetConnectionStats()
	assert.Equal(t, 1, stats.TotalConnections)
	assert.Equal(t, 1, stats.DraftConnections["draft-42"])
}

func TestSocketLeaveDropsSubscription(t *testing.T) {
	hub, _, url := startGateway(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?draft_id=5", nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, ackJoined, readJSON(t, conn)["event"])
	require.NoError(t, conn.WriteJSON(clientMessage{Action: ActionLeaveDraft, DraftID: "5"}))
	assert.Equal(t, ackLeft, readJSON(t, conn)["event"])

	assert.Equal(t, 0, hub.SubscriberCount("draft-5"))
}

func TestSocketCloseUnregisters(t *testing.T) {
	hub, cm, url := startGateway(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?draft_id=5", nil)
	require.NoError(t, err)
	readJSON(t, conn)
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return cm.GetConnectionStats().TotalConnections == 0 && hub.SubscriberCount("draft-5") == 0
	}, 2*time.Second, 10*time.Millisecond)
}
