package service

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"hangman/events"
)

// statsService implements the StatsService interface. The cached value is
// process-wide derived state: initialized unset, refreshed on demand, read
// without side effects. It is best effort and never authoritative.
type statsService struct {
	uowFactory UnitOfWorkFactory

	mu    sync.RWMutex
	value string
	set   bool
}

// NewStatsService creates a new stats service with an empty cache
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// SubscribeStats wires the stats cache refresh to game creation events.
// Recompute failures are logged and dropped; the cache is not on any
// request's critical path.
func SubscribeStats(bus *events.Bus, stats StatsService) {
	bus.Subscribe(events.EventTypeGameCreated, func(ctx context.Context, event events.Event) {
		if err := stats.RecomputeAverageMissesRemaining(ctx); err != nil {
			log.WithError(err).Warn("Failed to recompute average misses remaining")
		}
	})
}

// RecomputeAverageMissesRemaining refreshes the cached mean of misses_left
// across active games. With no active games the cache is left unset rather
// than holding a zero.
func (s *statsService) RecomputeAverageMissesRemaining(ctx context.Context) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	games, err := uow.GameRepository().GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active games: %w", err)
	}

	if len(games) == 0 {
		s.mu.Lock()
		s.value = ""
		s.set = false
		s.mu.Unlock()
		return nil
	}

	total := 0
	for _, game := range games {
		total += game.MissesLeft
	}
	average := float64(total) / float64(len(games))

	s.mu.Lock()
	s.value = fmt.Sprintf("The average misses remaining is %.2f", average)
	s.set = true
	s.mu.Unlock()

	return nil
}

// AverageMissesRemaining returns the cached formatted aggregate and whether
// it holds a value
func (s *statsService) AverageMissesRemaining() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.set
}

// ResetCache clears the cached value. Tests use this between runs.
func (s *statsService) ResetCache() {
	s.mu.Lock()
	s.value = ""
	s.set = false
	s.mu.Unlock()
}
