package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/cache"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/repository"
)

const (
	storeAttempts     = 3
	storeRetryBackoff = 100 * time.Millisecond
)

// MatchStore is the adapter over the external match store: MongoDB as the
// system of record with a Redis read-through cache in front. Store calls
// can fail; failures are retried a bounded number of times, then logged and
// returned to the caller without touching in-memory session state.
type MatchStore struct {
	repo  repository.MatchRepo
	cache cache.MatchCache
	log   *zap.SugaredLogger
}

// NewMatchStore creates a new match store adapter.
func NewMatchStore(repo repository.MatchRepo, c cache.MatchCache, log *zap.SugaredLogger) *MatchStore {
	return &MatchStore{repo: repo, cache: c, log: log}
}

// Get looks up a match record, serving from cache when possible. Returns
// (nil, nil) when no record exists.
func (s *MatchStore) Get(ctx context.Context, code string) (*model.Match, error) {
	if cached, err := s.cache.Get(ctx, code); err != nil {
		s.log.Warnf("match cache read failed for %s: %v", code, err)
	} else if cached != nil {
		return cached, nil
	}

	return s.fetch(ctx, code)
}

// GetFresh looks up a match record directly from the store, bypassing the
// cache. The ready/started status is written by the matchmaking
// collaborator behind our back, so readiness checks must not trust a
// cached copy.
func (s *MatchStore) GetFresh(ctx context.Context, code string) (*model.Match, error) {
	return s.fetch(ctx, code)
}

func (s *MatchStore) fetch(ctx context.Context, code string) (*model.Match, error) {
	var match *model.Match
	err := s.withRetry(ctx, func() error {
		var err error
		match, err = s.repo.GetByCode(ctx, code)
		return err
	})
	if err != nil {
		s.log.Errorf("match store lookup failed for %s: %v", code, err)
		return nil, fmt.Errorf("match store lookup: %w", err)
	}
	if match != nil {
		if err := s.cache.Set(ctx, match); err != nil {
			s.log.Warnf("match cache write failed for %s: %v", code, err)
		}
	}
	return match, nil
}

// SetStatus updates the status of a match record and keeps the cache in
// step.
func (s *MatchStore) SetStatus(ctx context.Context, code string, status model.MatchStatus) error {
	err := s.withRetry(ctx, func() error {
		return s.repo.UpdateStatus(ctx, code, status)
	})
	if err != nil {
		s.log.Errorf("match status update failed for %s: %v", code, err)
		return fmt.Errorf("match status update: %w", err)
	}

	if cached, err := s.cache.Get(ctx, code); err == nil && cached != nil {
		cached.Status = status
		if err := s.cache.Set(ctx, cached); err != nil {
			s.log.Warnf("match cache write failed for %s: %v", code, err)
		}
	}
	return nil
}

// MatchStarted implements StatusNotifier: a countdown hit zero and the
// simulation is live. Runs with its own deadline since it is called off a
// timer, and only logs on failure; timers never surface errors to players.
func (s *MatchStore) MatchStarted(code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.SetStatus(ctx, code, model.MatchStarted); err != nil {
		s.log.Errorf("failed to mark match %s started: %v", code, err)
	}
}

func (s *MatchStore) withRetry(ctx context.Context, fn func() error) error {
	var err error
	backoff := storeRetryBackoff
	for attempt := 0; attempt < storeAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == storeAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
