package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
)

// TokenService issues per-session player tokens. A token binds a player
// slot to a game code independently of the connection that registered it;
// the server never requires one today, but clients hold it so reconnection
// can be layered on without a session-model change.
type TokenService struct {
	jwtSecret []byte
}

// NewTokenService creates a new token service.
func NewTokenService(secret string) *TokenService {
	return &TokenService{jwtSecret: []byte(secret)}
}

// IssuePlayerToken creates a signed token for a registered player slot.
func (s *TokenService) IssuePlayerToken(gameCode, playerID, side string) (string, error) {
	claims := &model.PlayerClaims{
		GameCode: gameCode,
		PlayerID: playerID,
		Side:     side,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
