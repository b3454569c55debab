package game

import (
	"math"
	"math/rand"
)

// Tick advances the simulation by one fixed step and returns the new state.
// The input state is not modified. rng drives the serve direction after a
// point is scored.
//
// The wall and paddle checks are independent: a ball in a corner can bounce
// vertically and horizontally in the same tick.
func Tick(s State, rng *rand.Rand) State {
	s.BallX += s.BallSpeedX
	s.BallY += s.BallSpeedY

	if s.BallY <= TopWallY || s.BallY >= BottomWallY {
		s.BallSpeedY = -s.BallSpeedY
	}

	if s.BallX <= LeftWallX {
		if s.BallY >= s.LeftPaddleY && s.BallY <= s.LeftPaddleY+PaddleHeight {
			s.BallSpeedX = -s.BallSpeedX
		} else {
			s.Scores.Player2++
			resetBall(&s, rng)
		}
	}

	if s.BallX >= RightWallX {
		if s.BallY >= s.RightPaddleY && s.BallY <= s.RightPaddleY+PaddleHeight {
			s.BallSpeedX = -s.BallSpeedX
		} else {
			s.Scores.Player1++
			resetBall(&s, rng)
		}
	}

	return s
}

// RandomVelocity returns a serve velocity of magnitude BallSpeed. The angle
// is drawn uniformly from [-45°, +45°] off the horizontal, and the sign of
// each component is flipped independently, so serves are not mirrored pairs.
func RandomVelocity(rng *rand.Rand) (vx, vy float64) {
	angle := rng.Float64()*math.Pi/2 - math.Pi/4
	vx = BallSpeed * math.Cos(angle)
	vy = BallSpeed * math.Sin(angle)
	if rng.Float64() > 0.5 {
		vx = -vx
	}
	if rng.Float64() > 0.5 {
		vy = -vy
	}
	return vx, vy
}

func resetBall(s *State, rng *rand.Rand) {
	s.BallX = CenterX
	s.BallY = CenterY
	s.BallSpeedX, s.BallSpeedY = RandomVelocity(rng)
}
