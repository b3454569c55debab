package ws

import (
	"encoding/json"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
)

// Inbound event types (client to server).
const (
	MsgCreateGame      = "createGame"
	MsgJoinGame        = "joinGame"
	MsgUpdateGameState = "updateGameState"
	MsgMovePaddle      = "movePaddle"
)

// Message is the WebSocket envelope format.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ClientMessage is a decoded inbound event. GameState is only set for
// updateGameState, Direction only for movePaddle.
type ClientMessage struct {
	Type      string            `json:"type"`
	GameCode  string            `json:"gameCode"`
	GameState *model.StatePatch `json:"gameState,omitempty"`
	Direction string            `json:"direction,omitempty"`
}
