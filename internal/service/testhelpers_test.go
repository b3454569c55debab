package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/logging"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
)

// fakeRepo is an in-memory MatchRepo with a failure switch.
type fakeRepo struct {
	mu      sync.Mutex
	matches map[string]model.Match
	fail    bool
	gets    int
	updates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{matches: make(map[string]model.Match)}
}

func (r *fakeRepo) put(m model.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[m.GameCode] = m
}

func (r *fakeRepo) setFail(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = fail
}

func (r *fakeRepo) Create(ctx context.Context, match *model.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("store unavailable")
	}
	r.matches[match.GameCode] = *match
	return nil
}

func (r *fakeRepo) GetByCode(ctx context.Context, code string) (*model.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.fail {
		return nil, errors.New("store unavailable")
	}
	m, ok := r.matches[code]
	if !ok {
		return nil, nil
	}
	copied := m
	return &copied, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, code string, status model.MatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.fail {
		return errors.New("store unavailable")
	}
	m, ok := r.matches[code]
	if !ok {
		return nil
	}
	m.Status = status
	r.matches[code] = m
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, code)
	return nil
}

func (r *fakeRepo) status(code string) model.MatchStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matches[code].Status
}

// fakeCache is an in-memory MatchCache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]model.Match
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]model.Match)}
}

func (c *fakeCache) Set(ctx context.Context, match *model.Match) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[match.GameCode] = *match
	return nil
}

func (c *fakeCache) Get(ctx context.Context, code string) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[code]
	if !ok {
		return nil, nil
	}
	copied := m
	return &copied, nil
}

func (c *fakeCache) Delete(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, code)
	return nil
}

// sentEvent is one delivery captured by fakeBroadcaster.
type sentEvent struct {
	ConnID  string
	Event   string
	Payload interface{}
}

// snapshot decodes the payload as a gameUpdate snapshot.
func (e sentEvent) snapshot(t *testing.T) model.Snapshot {
	t.Helper()
	data, err := json.Marshal(e.Payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var p struct {
		GameState model.Snapshot `json:"gameState"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	return p.GameState
}

// fakeBroadcaster records every delivery and exposes them on a channel so
// tests can wait for asynchronous timer-driven sends without sleeping.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
	ch     chan sentEvent
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{ch: make(chan sentEvent, 1024)}
}

func (b *fakeBroadcaster) Send(connID string, event string, payload interface{}) {
	e := sentEvent{ConnID: connID, Event: event, Payload: payload}
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
	select {
	case b.ch <- e:
	default:
	}
}

func (b *fakeBroadcaster) all() []sentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]sentEvent, len(b.events))
	copy(out, b.events)
	return out
}

// wait blocks until an event matching pred is delivered or the timeout
// elapses.
func (b *fakeBroadcaster) wait(t *testing.T, within time.Duration, pred func(sentEvent) bool) sentEvent {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case e := <-b.ch:
			if pred(e) {
				return e
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event")
			return sentEvent{}
		}
	}
}

// fakeNotifier records MatchStarted calls.
type fakeNotifier struct {
	mu    sync.Mutex
	codes []string
}

func (n *fakeNotifier) MatchStarted(code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes = append(n.codes, code)
}

func (n *fakeNotifier) started() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.codes))
	copy(out, n.codes)
	return out
}

// newTestRegistry returns a registry with shrunk timer intervals and a
// capturing broadcaster.
func newTestRegistry() (*SessionRegistry, *fakeBroadcaster) {
	r := NewSessionRegistry(logging.NewNop())
	r.TickInterval = 2 * time.Millisecond
	r.BroadcastInterval = 5 * time.Millisecond
	r.CountdownInterval = 5 * time.Millisecond
	b := newFakeBroadcaster()
	r.SetBroadcaster(b)
	return r, b
}
