package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Snomn123/Whatsapp-layout/internal/auth"
	"github.com/Snomn123/Whatsapp-layout/internal/config"
	"github.com/Snomn123/Whatsapp-layout/internal/hub"
	"github.com/Snomn123/Whatsapp-layout/internal/service"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
)

// CloseUnauthorized is the close code sent when the upgrade carries a
// missing, malformed or expired token. Application close codes live in the
// 4000-4999 range.
const CloseUnauthorized = 4401

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades connections and runs the per-connection lifecycle.
type WSHandler struct {
	service service.ChatService
	tokens  *auth.Manager
	wsCfg   config.WebSocketConfig
}

// NewWSHandler creates the websocket handler.
func NewWSHandler(svc service.ChatService, tokens *auth.Manager, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{service: svc, tokens: tokens, wsCfg: wsCfg}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket authenticates the upgrade request and hands the socket to
// the chat service. The credential arrives as a query parameter because
// browsers cannot set headers on websocket handshakes.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.L().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	claims, err := h.tokens.Validate(c.Query("token"))
	if err != nil {
		// Reject before any state is touched: no session is registered
		// for an unauthenticated connection.
		log.L().Warn().Err(err).Str(log.FieldClientIP, c.ClientIP()).Msg("websocket auth rejected")
		msg := websocket.FormatCloseMessage(CloseUnauthorized, "invalid credentials")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.wsCfg.WriteWait))
		conn.Close()
		return
	}

	client := hub.NewClient(uuid.New().String(), claims.UserID, conn, h.wsCfg)

	ctx := context.Background()
	if err := h.service.Connect(ctx, client); err != nil {
		log.L().Error().Err(err).Uint(log.FieldUserID, claims.UserID).Msg("failed to register session")
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(
		func(cl *hub.Client, frame []byte) {
			h.service.HandleFrame(ctx, cl, frame)
		},
		func(cl *hub.Client) {
			h.service.Disconnect(ctx, cl)
		},
	)
}
