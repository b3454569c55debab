package game

// Scores holds the accumulated score per side. Player1 defends the left
// paddle, Player2 the right.
type Scores struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// State is the simulation state advanced by Tick. It carries no phase or
// player bookkeeping; that lives in the session layer.
type State struct {
	LeftPaddleY  float64
	RightPaddleY float64
	BallX        float64
	BallY        float64
	BallSpeedX   float64
	BallSpeedY   float64
	Scores       Scores
}

// NewState returns the state of a freshly created match: ball centered and
// motionless, paddles centered, no score.
func NewState() State {
	return State{
		LeftPaddleY:  PaddleStartY,
		RightPaddleY: PaddleStartY,
		BallX:        CenterX,
		BallY:        CenterY,
	}
}

// ClampPaddle constrains a paddle position to the playable range.
func ClampPaddle(y float64) float64 {
	if y < PaddleMinY {
		return PaddleMinY
	}
	if y > PaddleMaxY {
		return PaddleMaxY
	}
	return y
}
