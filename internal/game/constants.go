package game

// Field and object dimensions shared with the canvas client.
const (
	FieldWidth   = 800.0
	FieldHeight  = 400.0
	PaddleHeight = 100.0
	PaddleWidth  = 10.0
	BallRadius   = 10.0

	// Walls the ball reflects off or scores behind.
	LeftWallX   = 10.0
	RightWallX  = 790.0
	TopWallY    = 0.0
	BottomWallY = 390.0

	// Serve speed; magnitude is constant between resets.
	BallSpeed = 4.0

	// Paddle travel range: [0, FieldHeight - PaddleHeight].
	PaddleMinY = 0.0
	PaddleMaxY = FieldHeight - PaddleHeight

	// Ball spawn point, also the initial position of a new session.
	CenterX = FieldWidth / 2
	CenterY = FieldHeight / 2

	// Starting paddle position (vertically centered).
	PaddleStartY = (FieldHeight - PaddleHeight) / 2

	// How far one movePaddle intent moves a paddle.
	PaddleStep = 10.0
)
