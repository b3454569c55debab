package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/game"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
)

const (
	maxPlayers       = 2
	countdownSeconds = 3

	// Defaults; tests shrink these through the registry fields.
	defaultTickInterval      = time.Second / 60
	defaultBroadcastInterval = time.Second
	defaultCountdownInterval = time.Second
	defaultMonitorInterval   = 5 * time.Second
)

const (
	SideLeft  = "left"
	SideRight = "right"
)

// playerSlot binds a registered connection to its issued player identity.
// Slot order decides paddle assignment: index 0 is left, index 1 is right.
type playerSlot struct {
	ConnID   string
	PlayerID string
}

// session is the authoritative in-memory state of one match. All fields
// are guarded by mu; every mutation for a given code is serialized through
// it, so a tick and an inbound event never interleave mid-transition.
type session struct {
	code string

	mu        sync.Mutex
	phase     model.Phase
	players   []playerSlot
	countdown int
	state     game.State
	closed    bool

	simTicker       *ticker
	broadcastTicker *ticker
	countdownTicker *ticker

	rng *rand.Rand
}

// snapshotLocked builds the wire snapshot. Callers hold s.mu.
func (s *session) snapshotLocked() model.Snapshot {
	players := make([]string, len(s.players))
	for i, p := range s.players {
		players[i] = p.ConnID
	}
	return model.Snapshot{
		LeftPaddleY:  s.state.LeftPaddleY,
		RightPaddleY: s.state.RightPaddleY,
		BallX:        s.state.BallX,
		BallY:        s.state.BallY,
		BallSpeedX:   s.state.BallSpeedX,
		BallSpeedY:   s.state.BallSpeedY,
		Scores:       s.state.Scores,
		Players:      players,
		Waiting:      s.phase == model.PhaseAwaiting,
		Countdown:    s.countdown,
	}
}

// connsLocked returns the connection IDs to deliver to. Callers hold s.mu.
func (s *session) connsLocked() []string {
	conns := make([]string, len(s.players))
	for i, p := range s.players {
		conns[i] = p.ConnID
	}
	return conns
}

// cancelTimersLocked stops every live timer for the session. Callers hold
// s.mu; the closed flag makes any already-running callback a no-op.
func (s *session) cancelTimersLocked() {
	for _, t := range []*ticker{s.simTicker, s.broadcastTicker, s.countdownTicker} {
		if t != nil {
			t.Cancel()
		}
	}
	s.simTicker, s.broadcastTicker, s.countdownTicker = nil, nil, nil
}

// SessionRegistry owns the session table and the per-session timers. It is
// the only component that creates or deletes sessions; everything that
// mutates a session goes through it.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session

	broadcaster Broadcaster
	notifier    StatusNotifier
	log         *zap.SugaredLogger

	TickInterval      time.Duration
	BroadcastInterval time.Duration
	CountdownInterval time.Duration

	monitor *ticker
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(log *zap.SugaredLogger) *SessionRegistry {
	return &SessionRegistry{
		sessions:          make(map[string]*session),
		log:               log,
		TickInterval:      defaultTickInterval,
		BroadcastInterval: defaultBroadcastInterval,
		CountdownInterval: defaultCountdownInterval,
	}
}

// SetBroadcaster wires the outbound delivery path (the WebSocket hub).
func (r *SessionRegistry) SetBroadcaster(b Broadcaster) {
	r.broadcaster = b
}

// SetStatusNotifier wires the collaborator told when a match goes live.
func (r *SessionRegistry) SetStatusNotifier(n StatusNotifier) {
	r.notifier = n
}

// GetOrCreate returns the snapshot of the session for code, creating it in
// the awaiting phase if it does not exist. Idempotent.
func (r *SessionRegistry) GetOrCreate(code string) model.Snapshot {
	r.mu.Lock()
	s, ok := r.sessions[code]
	if !ok {
		s = &session{
			code:  code,
			phase: model.PhaseAwaiting,
			state: game.NewState(),
			rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		}
		r.sessions[code] = s
		r.log.Infof("session created for game %s", code)
	}
	r.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// RegisterPlayer appends the connection to the session's player set and
// returns the issued player identity and paddle side. A connection already
// present yields ErrAlreadyJoined; a full session yields ErrSessionFull.
func (r *SessionRegistry) RegisterPlayer(code, connID string) (playerID, side string, err error) {
	s := r.lookup(code)
	if s == nil {
		return "", "", ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", "", ErrSessionNotFound
	}
	for _, p := range s.players {
		if p.ConnID == connID {
			return "", "", ErrAlreadyJoined
		}
	}
	if len(s.players) >= maxPlayers {
		return "", "", ErrSessionFull
	}

	playerID = "p_" + uuid.New().String()[:8]
	s.players = append(s.players, playerSlot{ConnID: connID, PlayerID: playerID})
	side = SideLeft
	if len(s.players) == 2 {
		side = SideRight
	}
	r.log.Infof("player %s (%s) joined game %s as %s", playerID, connID, code, side)
	return playerID, side, nil
}

// RemovePlayer removes the connection from every session it belongs to. A
// session whose player set becomes empty has its timers cancelled and is
// deleted; no callback for it fires afterwards.
func (r *SessionRegistry) RemovePlayer(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, s := range r.sessions {
		s.mu.Lock()
		for i, p := range s.players {
			if p.ConnID == connID {
				s.players = append(s.players[:i], s.players[i+1:]...)
				r.log.Infof("player %s left game %s", connID, code)
				break
			}
		}
		if len(s.players) == 0 {
			s.closed = true
			s.cancelTimersLocked()
			delete(r.sessions, code)
			r.log.Infof("game %s deleted, no players left", code)
		}
		s.mu.Unlock()
	}
}

// PlayerCount reports how many players are registered for code.
func (r *SessionRegistry) PlayerCount(code string) int {
	s := r.lookup(code)
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// Snapshot returns the current snapshot for code.
func (r *SessionRegistry) Snapshot(code string) (model.Snapshot, bool) {
	s := r.lookup(code)
	if s == nil {
		return model.Snapshot{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Snapshot{}, false
	}
	return s.snapshotLocked(), true
}

// ApplyPatch merges the supplied fields into session state, overwriting
// field by field. Paddle positions are clamped to the playable range; the
// remaining fields are trusted as sent (see DESIGN.md).
func (r *SessionRegistry) ApplyPatch(code string, patch *model.StatePatch) error {
	s := r.lookup(code)
	if s == nil {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionNotFound
	}
	if patch.LeftPaddleY != nil {
		s.state.LeftPaddleY = game.ClampPaddle(*patch.LeftPaddleY)
	}
	if patch.RightPaddleY != nil {
		s.state.RightPaddleY = game.ClampPaddle(*patch.RightPaddleY)
	}
	if patch.BallX != nil {
		s.state.BallX = *patch.BallX
	}
	if patch.BallY != nil {
		s.state.BallY = *patch.BallY
	}
	if patch.BallSpeedX != nil {
		s.state.BallSpeedX = *patch.BallSpeedX
	}
	if patch.BallSpeedY != nil {
		s.state.BallSpeedY = *patch.BallSpeedY
	}
	if patch.Scores != nil {
		s.state.Scores = *patch.Scores
	}
	r.log.Debugf("game state updated for %s", code)
	return nil
}

// MovePaddle applies a movement intent from connID to its own paddle,
// clamped server-side.
func (r *SessionRegistry) MovePaddle(code, connID string, up bool) error {
	s := r.lookup(code)
	if s == nil {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionNotFound
	}

	idx := -1
	for i, p := range s.players {
		if p.ConnID == connID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotAPlayer
	}

	delta := game.PaddleStep
	if up {
		delta = -delta
	}
	if idx == 0 {
		s.state.LeftPaddleY = game.ClampPaddle(s.state.LeftPaddleY + delta)
	} else {
		s.state.RightPaddleY = game.ClampPaddle(s.state.RightPaddleY + delta)
	}
	return nil
}

// StartCountdown moves an awaiting session into the countdown phase and
// starts its one-second countdown timer. Returns false if the session is
// missing or already past awaiting, so the transition happens exactly once.
func (r *SessionRegistry) StartCountdown(code string) bool {
	s := r.lookup(code)
	if s == nil {
		return false
	}

	s.mu.Lock()
	if s.closed || s.phase != model.PhaseAwaiting {
		s.mu.Unlock()
		return false
	}
	s.phase = model.PhaseCountdown
	s.countdown = countdownSeconds
	s.countdownTicker = newTicker(r.CountdownInterval, func() { r.onCountdownTick(s) })
	snap, conns := s.snapshotLocked(), s.connsLocked()
	s.mu.Unlock()

	r.log.Infof("countdown started for game %s", code)
	r.deliver(conns, snap)
	return true
}

// Broadcast pushes the current snapshot to every registered connection.
func (r *SessionRegistry) Broadcast(code string) {
	s := r.lookup(code)
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snap, conns := s.snapshotLocked(), s.connsLocked()
	s.mu.Unlock()
	r.deliver(conns, snap)
}

// StartMonitor begins periodic one-line status logging of every live
// session.
func (r *SessionRegistry) StartMonitor() {
	if r.monitor != nil {
		return
	}
	r.monitor = newTicker(defaultMonitorInterval, r.logStatus)
}

// Shutdown tears down every session and stops the monitor.
func (r *SessionRegistry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.monitor != nil {
		r.monitor.Cancel()
		r.monitor = nil
	}
	for code, s := range r.sessions {
		s.mu.Lock()
		s.closed = true
		s.cancelTimersLocked()
		s.mu.Unlock()
		delete(r.sessions, code)
	}
}

func (r *SessionRegistry) lookup(code string) *session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[code]
}

// onCountdownTick decrements the countdown and broadcasts. On reaching
// zero it flips the session to active, randomizes the serve, starts the
// simulation and redundant broadcast timers, and tells the status notifier.
func (r *SessionRegistry) onCountdownTick(s *session) {
	s.mu.Lock()
	if s.closed || s.phase != model.PhaseCountdown {
		s.mu.Unlock()
		return
	}
	s.countdown--
	if s.countdown > 0 {
		snap, conns := s.snapshotLocked(), s.connsLocked()
		s.mu.Unlock()
		r.deliver(conns, snap)
		return
	}

	s.countdown = 0
	s.phase = model.PhaseActive
	s.state.BallSpeedX, s.state.BallSpeedY = game.RandomVelocity(s.rng)
	if s.countdownTicker != nil {
		s.countdownTicker.Cancel()
		s.countdownTicker = nil
	}
	s.simTicker = newTicker(r.TickInterval, func() { r.onSimTick(s) })
	s.broadcastTicker = newTicker(r.BroadcastInterval, func() { r.onBroadcastTick(s) })
	snap, conns := s.snapshotLocked(), s.connsLocked()
	code := s.code
	s.mu.Unlock()

	r.log.Infof("game %s started", code)
	r.deliver(conns, snap)
	if r.notifier != nil {
		go r.notifier.MatchStarted(code)
	}
}

func (r *SessionRegistry) onSimTick(s *session) {
	s.mu.Lock()
	if s.closed || s.phase != model.PhaseActive {
		s.mu.Unlock()
		return
	}
	s.state = game.Tick(s.state, s.rng)
	snap, conns := s.snapshotLocked(), s.connsLocked()
	s.mu.Unlock()
	r.deliver(conns, snap)
}

func (r *SessionRegistry) onBroadcastTick(s *session) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snap, conns := s.snapshotLocked(), s.connsLocked()
	s.mu.Unlock()
	r.deliver(conns, snap)
}

type gameUpdatePayload struct {
	GameState model.Snapshot `json:"gameState"`
}

func (r *SessionRegistry) deliver(conns []string, snap model.Snapshot) {
	if r.broadcaster == nil {
		return
	}
	for _, connID := range conns {
		r.broadcaster.Send(connID, EventGameUpdate, gameUpdatePayload{GameState: snap})
	}
}

func (r *SessionRegistry) logStatus() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for code, s := range r.sessions {
		s.mu.Lock()
		r.log.Infof("game %s: phase=%s players=%d countdown=%d scores=%d-%d ball=(%.0f,%.0f)",
			code, s.phase, len(s.players), s.countdown,
			s.state.Scores.Player1, s.state.Scores.Player2, s.state.BallX, s.state.BallY)
		s.mu.Unlock()
	}
}
