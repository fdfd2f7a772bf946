package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Snomn123/Whatsapp-layout/internal/config"
)

type wsFixture struct {
	*apiFixture
	server *httptest.Server
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := newAPIFixture(t)

	// The API fixture wires its own chat service; rebuild the ws route on
	// top of the same engine and token manager.
	wsCfg := config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 65536,
	}
	NewWSHandler(api.chat, api.tokens, wsCfg).RegisterRoutes(api.engine)

	srv := httptest.NewServer(api.engine)
	t.Cleanup(srv.Close)
	return &wsFixture{apiFixture: api, server: srv}
}

func (f *wsFixture) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until one with the wanted type arrives. Presence
// frames from concurrent connects are skipped.
func readUntil(t *testing.T, conn *websocket.Conn, eventType string) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var frame map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &frame))
		if frame["type"] == eventType {
			return frame
		}
	}
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	f := newWSFixture(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?token=garbage"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	closeErr, ok := err.(*websocket.CloseError)
	require.True(t, ok, "expected close frame, got %v", err)
	assert.Equal(t, CloseUnauthorized, closeErr.Code)

	// No session was registered for the rejected connection.
	assert.Equal(t, 0, f.registry.Count())
}

func TestWebSocketMessageRoundTrip(t *testing.T) {
	f := newWSFixture(t)
	aliceToken := f.register(t, "alice")
	bobToken := f.register(t, "bob")

	alice := f.dial(t, aliceToken)
	bob := f.dial(t, bobToken)

	require.Eventually(t, func() bool {
		return f.registry.Count() == 2
	}, 2*time.Second, 10*time.Millisecond)

	payload := `{"type":"message","senderId":1,"receiverId":2,"content":"over the wire","tempId":1718000000123}`
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte(payload)))

	for _, conn := range []*websocket.Conn{alice, bob} {
		frame := readUntil(t, conn, "message")
		assert.Equal(t, "over the wire", frame["content"])
		assert.Equal(t, "text", frame["message_type"])
		assert.Equal(t, "sent", frame["status"])
		assert.EqualValues(t, 1, frame["sender_id"])
		assert.EqualValues(t, 2, frame["receiver_id"])
		assert.EqualValues(t, 1718000000123, frame["tempId"])
		assert.NotZero(t, frame["id"])
	}
}

func TestWebSocketTypingIndicator(t *testing.T) {
	f := newWSFixture(t)
	aliceToken := f.register(t, "alice")
	bobToken := f.register(t, "bob")

	alice := f.dial(t, aliceToken)
	bob := f.dial(t, bobToken)

	require.Eventually(t, func() bool {
		return f.registry.Count() == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, alice.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"typing","senderId":1,"receiverId":2,"isTyping":true}`)))

	frame := readUntil(t, bob, "typing")
	assert.EqualValues(t, 1, frame["senderId"])
	assert.Equal(t, true, frame["isTyping"])
}
