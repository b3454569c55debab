package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are the JWT claims embedded in a player token. The token is
// issued when a player registers with a session and identifies the player
// slot independently of the underlying connection, so a reconnect story can
// be added later without touching the session model.
type PlayerClaims struct {
	GameCode string `json:"gameCode"`
	PlayerID string `json:"playerId"`
	Side     string `json:"side"` // "left" or "right"
	jwt.RegisteredClaims
}
