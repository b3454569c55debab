package service

import "errors"

var (
	// ErrMatchNotFound means the external store has no record for the code.
	ErrMatchNotFound = errors.New("game not found")

	// ErrSessionNotFound means no in-memory session exists for the code.
	ErrSessionNotFound = errors.New("invalid game code")

	// ErrAlreadyJoined means the connection is already a registered player.
	// Treated as an idempotent no-op by the gateway, logged only.
	ErrAlreadyJoined = errors.New("player already joined")

	// ErrSessionFull means the session already has two players.
	ErrSessionFull = errors.New("game already has two players")

	// ErrNotAPlayer means the connection is not registered in the session.
	ErrNotAPlayer = errors.New("connection is not a player in this game")
)
