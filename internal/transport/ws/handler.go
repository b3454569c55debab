package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // players connect from the hosted frontend origin
	},
}

// Handler terminates player WebSocket connections and routes their events
// into the game service.
type Handler struct {
	hub   *Hub
	games *service.GameService
	log   *zap.SugaredLogger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, games *service.GameService, log *zap.SugaredLogger) *Handler {
	return &Handler{hub: hub, games: games, log: log}
}

// ServeWS handles GET /ws.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		ID:   uuid.New().String(),
		Send: make(chan []byte, sendQueueSize),
	}
	h.hub.Register(conn)
	h.log.Infof("client connected: %s", conn.ID)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// readPump decodes inbound events and dispatches them in arrival order.
// When the read loop ends for any reason the connection is removed from
// every session it joined.
func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.games.Disconnect(conn.ID)
		h.hub.Unregister(conn)
		wsConn.Close()
		h.log.Infof("client disconnected: %s", conn.ID)
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warnf("WebSocket error on %s: %v", conn.ID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.hub.Send(conn.ID, service.EventError, map[string]string{"message": "Invalid message"})
			continue
		}
		h.dispatch(&msg, conn.ID)
	}
}

func (h *Handler) dispatch(msg *ClientMessage, connID string) {
	if msg.GameCode == "" {
		h.hub.Send(connID, service.EventError, map[string]string{"message": "Missing game code"})
		return
	}

	// Not tied to the request context: the pump outlives the HTTP handler.
	ctx := context.Background()

	switch msg.Type {
	case MsgCreateGame:
		h.games.CreateGame(ctx, msg.GameCode, connID)
	case MsgJoinGame:
		h.games.JoinGame(ctx, msg.GameCode, connID)
	case MsgUpdateGameState:
		h.games.UpdateState(msg.GameCode, connID, msg.GameState)
	case MsgMovePaddle:
		h.games.MovePaddle(msg.GameCode, connID, msg.Direction)
	default:
		h.hub.Send(connID, service.EventError, map[string]string{"message": "Unknown event type"})
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
