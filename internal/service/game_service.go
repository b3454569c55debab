package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
)

// GameService orchestrates the gateway flows: it consults the match store,
// mutates sessions through the registry, and acknowledges callers through
// the broadcaster.
//
// Flows that call the store for the same game code are serialized by a
// per-code mutex, so a store result is always incorporated before the next
// event for that code is processed. The store is the source of truth for
// the ready/started status; the registry's player set is the source of
// truth for who is connected.
type GameService struct {
	store    *MatchStore
	registry *SessionRegistry
	tokens   *TokenService
	log      *zap.SugaredLogger

	broadcaster Broadcaster

	flowMu sync.Mutex
	flows  map[string]*sync.Mutex
}

// NewGameService creates a new game service.
func NewGameService(store *MatchStore, registry *SessionRegistry, tokens *TokenService, log *zap.SugaredLogger) *GameService {
	return &GameService{
		store:    store,
		registry: registry,
		tokens:   tokens,
		log:      log,
		flows:    make(map[string]*sync.Mutex),
	}
}

// SetBroadcaster wires the outbound delivery path (the WebSocket hub).
func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

type gameAckPayload struct {
	GameCode    string `json:"gameCode"`
	PlayerToken string `json:"playerToken,omitempty"`
	Side        string `json:"side,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// CreateGame handles the createGame event: verify the match exists in the
// store, create the session, and register the caller as its first player.
func (s *GameService) CreateGame(ctx context.Context, code, connID string) {
	defer s.lockFlow(code)()

	match, err := s.store.Get(ctx, code)
	if err != nil {
		s.sendError(connID, "Could not retrieve game data")
		return
	}
	if match == nil {
		s.log.Warnf("createGame for unknown game %s", code)
		s.sendError(connID, "Game not found")
		return
	}

	s.registry.GetOrCreate(code)
	playerID, side, err := s.registry.RegisterPlayer(code, connID)
	if err != nil {
		s.handleRegisterErr(code, connID, err)
		return
	}

	s.send(connID, EventGameCreated, gameAckPayload{
		GameCode:    code,
		PlayerToken: s.issueToken(code, playerID, side),
		Side:        side,
	})
	s.log.Infof("game %s created by connection %s", code, connID)
}

// JoinGame handles the joinGame event. After a successful registration it
// re-queries the store for readiness (bypassing the cache) and, when both
// players are connected and the store says ready, marks the match started
// and begins the countdown.
func (s *GameService) JoinGame(ctx context.Context, code, connID string) {
	defer s.lockFlow(code)()

	match, err := s.store.Get(ctx, code)
	if err != nil {
		s.sendError(connID, "Could not retrieve game data")
		return
	}
	if match == nil {
		s.log.Warnf("joinGame for unknown game %s", code)
		s.sendError(connID, "Game not found")
		return
	}

	// The store may know the match before any session exists locally.
	s.registry.GetOrCreate(code)

	playerID, side, err := s.registry.RegisterPlayer(code, connID)
	if err != nil {
		s.handleRegisterErr(code, connID, err)
		return
	}

	s.send(connID, EventGameJoined, gameAckPayload{
		GameCode:    code,
		PlayerToken: s.issueToken(code, playerID, side),
		Side:        side,
	})

	s.checkReady(ctx, code)
	s.registry.Broadcast(code)
}

// UpdateState handles the updateGameState event: shallow merge of the
// supplied fields into session state.
func (s *GameService) UpdateState(code, connID string, patch *model.StatePatch) {
	if patch == nil {
		s.sendError(connID, "Invalid game state")
		return
	}
	if err := s.registry.ApplyPatch(code, patch); err != nil {
		s.log.Warnf("updateGameState for unknown game %s", code)
		s.sendError(connID, "Invalid game code")
		return
	}
	s.log.Debugf("game state updated for %s by %s", code, connID)
}

// MovePaddle handles the movePaddle intent: the caller's own paddle moves
// one step, clamped server-side.
func (s *GameService) MovePaddle(code, connID, direction string) {
	if direction != "up" && direction != "down" {
		s.sendError(connID, "Invalid direction")
		return
	}
	switch err := s.registry.MovePaddle(code, connID, direction == "up"); err {
	case nil:
	case ErrNotAPlayer:
		s.sendError(connID, "Not a player in this game")
	default:
		s.sendError(connID, "Invalid game code")
	}
}

// Disconnect removes the connection from every session it belongs to.
// Sessions left empty are torn down by the registry.
func (s *GameService) Disconnect(connID string) {
	s.registry.RemovePlayer(connID)
}

// NotifyCreated handles the matchmaking collaborator's "match created"
// notification: confirm the store record and make sure a session exists.
func (s *GameService) NotifyCreated(ctx context.Context, code, player1 string) error {
	defer s.lockFlow(code)()

	match, err := s.store.Get(ctx, code)
	if err != nil {
		return err
	}
	if match == nil {
		return ErrMatchNotFound
	}

	s.registry.GetOrCreate(code)
	s.log.Infof("notified: game %s created for %s", code, player1)
	return nil
}

// NotifyJoined handles the "second player registered" notification. The
// store identity is not added to the connection player set; the
// notification only drives the readiness check for already-connected
// players.
func (s *GameService) NotifyJoined(ctx context.Context, code, player2 string) error {
	defer s.lockFlow(code)()

	match, err := s.store.Get(ctx, code)
	if err != nil {
		return err
	}
	if match == nil {
		return ErrMatchNotFound
	}

	s.registry.GetOrCreate(code)
	s.log.Infof("notified: %s joined game %s", player2, code)
	s.checkReady(ctx, code)
	s.registry.Broadcast(code)
	return nil
}

// checkReady re-queries the store for the current status and starts the
// countdown when the match is ready and both players are connected. Store
// failures here are logged only: the session stays awaiting and a later
// event retries the check.
func (s *GameService) checkReady(ctx context.Context, code string) {
	if s.registry.PlayerCount(code) != maxPlayers {
		return
	}
	match, err := s.store.GetFresh(ctx, code)
	if err != nil || match == nil {
		return
	}
	if match.Status != model.MatchReady {
		return
	}
	if err := s.store.SetStatus(ctx, code, model.MatchStarted); err != nil {
		s.log.Errorf("failed to mark game %s started: %v", code, err)
	}
	s.registry.StartCountdown(code)
}

// handleRegisterErr deals with a failed registration: duplicate joins are
// an idempotent no-op (logged, no ack, no error), a full session is an
// error event.
func (s *GameService) handleRegisterErr(code, connID string, err error) {
	switch err {
	case ErrAlreadyJoined:
		s.log.Infof("connection %s attempted to join game %s again", connID, code)
	case ErrSessionFull:
		s.log.Warnf("connection %s rejected, game %s is full", connID, code)
		s.sendError(connID, "Game already has two players")
	default:
		s.sendError(connID, "Game not found")
	}
}

func (s *GameService) issueToken(code, playerID, side string) string {
	token, err := s.tokens.IssuePlayerToken(code, playerID, side)
	if err != nil {
		s.log.Errorf("failed to issue player token for game %s: %v", code, err)
		return ""
	}
	return token
}

func (s *GameService) send(connID, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Send(connID, event, payload)
	}
}

func (s *GameService) sendError(connID, message string) {
	s.send(connID, EventError, errorPayload{Message: message})
}

// lockFlow serializes store-call-bearing flows per game code. Returns the
// unlock function.
func (s *GameService) lockFlow(code string) func() {
	s.flowMu.Lock()
	mu, ok := s.flows[code]
	if !ok {
		mu = &sync.Mutex{}
		s.flows[code] = mu
	}
	s.flowMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
