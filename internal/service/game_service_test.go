package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/logging"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
)

const testJWTSecret = "test-secret"

func newTestGameService() (*GameService, *fakeRepo, *fakeBroadcaster) {
	repo := newFakeRepo()
	store := NewMatchStore(repo, newFakeCache(), logging.NewNop())
	registry, b := newTestRegistry()
	registry.SetStatusNotifier(store)
	svc := NewGameService(store, registry, NewTokenService(testJWTSecret), logging.NewNop())
	svc.SetBroadcaster(b)
	return svc, repo, b
}

func decodeAck(t *testing.T, e sentEvent) gameAckPayload {
	t.Helper()
	data, err := json.Marshal(e.Payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var ack gameAckPayload
	if err := json.Unmarshal(data, &ack); err != nil {
		t.Fatalf("unmarshal ack: %v", err)
	}
	return ack
}

func errorMessage(t *testing.T, e sentEvent) string {
	t.Helper()
	data, err := json.Marshal(e.Payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var p errorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal error payload: %v", err)
	}
	return p.Message
}

func TestCreateGameAcksWithSignedToken(t *testing.T) {
	svc, repo, b := newTestGameService()
	repo.put(model.Match{GameCode: "AAAAAA", Player1: "alice", Status: model.MatchAwaiting})

	svc.CreateGame(context.Background(), "AAAAAA", "conn-1")

	e := b.wait(t, time.Second, func(e sentEvent) bool {
		return e.ConnID == "conn-1" && e.Event == EventGameCreated
	})
	ack := decodeAck(t, e)
	if ack.GameCode != "AAAAAA" || ack.Side != SideLeft {
		t.Fatalf("ack = %+v, want game AAAAAA side left", ack)
	}
	if ack.PlayerToken == "" {
		t.Fatalf("ack carries no player token")
	}

	var claims model.PlayerClaims
	_, err := jwt.ParseWithClaims(ack.PlayerToken, &claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.GameCode != "AAAAAA" || claims.Side != SideLeft || claims.PlayerID == "" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestCreateGameUnknownCode(t *testing.T) {
	svc, _, b := newTestGameService()

	svc.CreateGame(context.Background(), "NOPE", "conn-1")

	e := b.wait(t, time.Second, func(e sentEvent) bool {
		return e.ConnID == "conn-1" && e.Event == EventError
	})
	if msg := errorMessage(t, e); msg != "Game not found" {
		t.Fatalf("error message = %q", msg)
	}
	if _, ok := svc.registry.Snapshot("NOPE"); ok {
		t.Fatalf("session created for unknown game code")
	}
}

func TestCreateGameStoreFailure(t *testing.T) {
	svc, repo, b := newTestGameService()
	repo.setFail(true)

	svc.CreateGame(context.Background(), "AAAAAA", "conn-1")

	e := b.wait(t, time.Second, func(e sentEvent) bool {
		return e.ConnID == "conn-1" && e.Event == EventError
	})
	if msg := errorMessage(t, e); msg != "Could not retrieve game data" {
		t.Fatalf("error message = %q", msg)
	}
}

func TestJoinFlowStartsMatchWhenStoreReady(t *testing.T) {
	svc, repo, b := newTestGameService()
	repo.put(model.Match{GameCode: "AAAAAA", Player1: "alice", Player2: "bob", Status: model.MatchReady})

	ctx := context.Background()
	svc.CreateGame(ctx, "AAAAAA", "conn-1")
	svc.JoinGame(ctx, "AAAAAA", "conn-2")

	// Wait for the serve: countdown finished and the ball is moving.
	b.wait(t, 2*time.Second, func(e sentEvent) bool {
		if e.Event != EventGameUpdate {
			return false
		}
		snap := e.snapshot(t)
		return snap.Countdown == 0 && (snap.BallSpeedX != 0 || snap.BallSpeedY != 0)
	})

	if got := repo.status("AAAAAA"); got != model.MatchStarted {
		t.Fatalf("store status = %q, want started", got)
	}

	// A third connection is turned away.
	svc.JoinGame(ctx, "AAAAAA", "conn-3")
	e := b.wait(t, time.Second, func(e sentEvent) bool {
		return e.ConnID == "conn-3" && e.Event == EventError
	})
	if msg := errorMessage(t, e); msg != "Game already has two players" {
		t.Fatalf("error message = %q", msg)
	}
}

func TestJoinDoesNotStartWhenMatchAwaiting(t *testing.T) {
	svc, repo, b := newTestGameService()
	repo.put(model.Match{GameCode: "AAAAAA", Player1: "alice", Status: model.MatchAwaiting})

	ctx := context.Background()
	svc.CreateGame(ctx, "AAAAAA", "conn-1")
	svc.JoinGame(ctx, "AAAAAA", "conn-2")

	b.wait(t, time.Second, func(e sentEvent) bool {
		return e.ConnID == "conn-2" && e.Event == EventGameJoined
	})

	snap, ok := svc.registry.Snapshot("AAAAAA")
	if !ok {
		t.Fatalf("session missing")
	}
	if !snap.Waiting || snap.Countdown != 0 {
		t.Fatalf("snapshot = %+v, want waiting with no countdown", snap)
	}
	if got := repo.status("AAAAAA"); got != model.MatchAwaiting {
		t.Fatalf("store status = %q, want awaiting", got)
	}
}

func TestDuplicateJoinIsSilent(t *testing.T) {
	svc, repo, b := newTestGameService()
	repo.put(model.Match{GameCode: "AAAAAA", Player1: "alice", Status: model.MatchAwaiting})

	ctx := context.Background()
	svc.CreateGame(ctx, "AAAAAA", "conn-1")
	svc.JoinGame(ctx, "AAAAAA", "conn-1")

	// The rejoin produces neither a second ack nor an error event.
	time.Sleep(20 * time.Millisecond)
	var acks, errs int
	for _, e := range b.all() {
		if e.ConnID != "conn-1" {
			continue
		}
		switch e.Event {
		case EventGameCreated, EventGameJoined:
			acks++
		case EventError:
			errs++
		}
	}
	if acks != 1 || errs != 0 {
		t.Fatalf("acks=%d errs=%d, want one ack and no errors", acks, errs)
	}
	if got := svc.registry.PlayerCount("AAAAAA"); got != 1 {
		t.Fatalf("player count = %d, want 1", got)
	}
}

func TestUpdateStateUnknownCode(t *testing.T) {
	svc, _, b := newTestGameService()

	y := 120.0
	svc.UpdateState("NOPE", "conn-1", &model.StatePatch{LeftPaddleY: &y})

	e := b.wait(t, time.Second, func(e sentEvent) bool {
		return e.ConnID == "conn-1" && e.Event == EventError
	})
	if msg := errorMessage(t, e); msg != "Invalid game code" {
		t.Fatalf("error message = %q", msg)
	}
	if _, ok := svc.registry.Snapshot("NOPE"); ok {
		t.Fatalf("session created by stray state update")
	}
}

func TestMovePaddleRejectsBadDirection(t *testing.T) {
	svc, repo, b := newTestGameService()
	repo.put(model.Match{GameCode: "AAAAAA", Player1: "alice", Status: model.MatchAwaiting})

	ctx := context.Background()
	svc.CreateGame(ctx, "AAAAAA", "conn-1")
	svc.MovePaddle("AAAAAA", "conn-1", "sideways")

	e := b.wait(t, time.Second, func(e sentEvent) bool {
		return e.ConnID == "conn-1" && e.Event == EventError
	})
	if msg := errorMessage(t, e); msg != "Invalid direction" {
		t.Fatalf("error message = %q", msg)
	}
}

func TestDisconnectFreesSlot(t *testing.T) {
	svc, repo, _ := newTestGameService()
	repo.put(model.Match{GameCode: "AAAAAA", Player1: "alice", Status: model.MatchAwaiting})

	ctx := context.Background()
	svc.CreateGame(ctx, "AAAAAA", "conn-1")
	svc.JoinGame(ctx, "AAAAAA", "conn-2")
	if got := svc.registry.PlayerCount("AAAAAA"); got != 2 {
		t.Fatalf("player count = %d, want 2", got)
	}

	svc.Disconnect("conn-1")
	if got := svc.registry.PlayerCount("AAAAAA"); got != 1 {
		t.Fatalf("player count after disconnect = %d, want 1", got)
	}

	svc.Disconnect("conn-2")
	if _, ok := svc.registry.Snapshot("AAAAAA"); ok {
		t.Fatalf("session survives with no players")
	}
}

func TestNotifyCreated(t *testing.T) {
	svc, repo, _ := newTestGameService()
	repo.put(model.Match{GameCode: "AAAAAA", Player1: "alice", Status: model.MatchAwaiting})

	ctx := context.Background()
	if err := svc.NotifyCreated(ctx, "AAAAAA", "alice"); err != nil {
		t.Fatalf("notify created: %v", err)
	}
	if _, ok := svc.registry.Snapshot("AAAAAA"); !ok {
		t.Fatalf("notify did not create the session")
	}

	if err := svc.NotifyCreated(ctx, "NOPE", "alice"); err != ErrMatchNotFound {
		t.Fatalf("unknown code error = %v, want ErrMatchNotFound", err)
	}
}

func TestNotifyJoinedWaitsForBothConnections(t *testing.T) {
	svc, repo, _ := newTestGameService()
	repo.put(model.Match{GameCode: "AAAAAA", Player1: "alice", Player2: "bob", Status: model.MatchReady})

	ctx := context.Background()
	svc.CreateGame(ctx, "AAAAAA", "conn-1")

	// The store is ready but only one connection is present, so the
	// countdown must not start.
	if err := svc.NotifyJoined(ctx, "AAAAAA", "bob"); err != nil {
		t.Fatalf("notify joined: %v", err)
	}
	snap, _ := svc.registry.Snapshot("AAAAAA")
	if !snap.Waiting {
		t.Fatalf("snapshot = %+v, want still waiting", snap)
	}
	if got := repo.status("AAAAAA"); got != model.MatchReady {
		t.Fatalf("store status = %q, want ready", got)
	}
}
