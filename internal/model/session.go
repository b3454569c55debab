package model

import "github.com/xXK1NGSLAY3RXx/Online-Pong/internal/game"

// Phase is the lifecycle phase of an in-memory session. There is no
// terminal phase: matches run until the last player disconnects.
type Phase string

const (
	PhaseAwaiting  Phase = "awaiting"  // fewer than two players connected
	PhaseCountdown Phase = "countdown" // both players in, counting down
	PhaseActive    Phase = "active"    // simulation running
)

// Snapshot is the full session state pushed to clients in gameUpdate
// events. Field names match what the canvas client reads.
type Snapshot struct {
	LeftPaddleY  float64     `json:"leftPaddleY"`
	RightPaddleY float64     `json:"rightPaddleY"`
	BallX        float64     `json:"ballX"`
	BallY        float64     `json:"ballY"`
	BallSpeedX   float64     `json:"ballSpeedX"`
	BallSpeedY   float64     `json:"ballSpeedY"`
	Scores       game.Scores `json:"scores"`
	Players      []string    `json:"players"`
	Waiting      bool        `json:"waitingForPlayer"`
	Countdown    int         `json:"countdown"`
}

// StatePatch is the client-supplied partial state for updateGameState.
// Only fields present in the payload overwrite session state. Paddle
// positions are clamped server-side on merge; the remaining fields are
// applied as sent, a trust hole inherited from the first protocol version
// (see DESIGN.md). movePaddle is the preferred input path.
type StatePatch struct {
	LeftPaddleY  *float64     `json:"leftPaddleY,omitempty"`
	RightPaddleY *float64     `json:"rightPaddleY,omitempty"`
	BallX        *float64     `json:"ballX,omitempty"`
	BallY        *float64     `json:"ballY,omitempty"`
	BallSpeedX   *float64     `json:"ballSpeedX,omitempty"`
	BallSpeedY   *float64     `json:"ballSpeedY,omitempty"`
	Scores       *game.Scores `json:"scores,omitempty"`
}
