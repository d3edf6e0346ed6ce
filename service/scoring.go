package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hangman/events"
	"hangman/models"
)

// recordResult is the single entry point for scoring a finished game. It
// runs inside the same unit of work as the terminating guess: it writes the
// game's immutable score and folds the outcome into the owning user's
// aggregates with the user row locked. The scores table's uniqueness on the
// game key guarantees at most one score even if two terminations race.
func recordResult(ctx context.Context, uow UnitOfWork, game *models.Game, won bool) error {
	score := &models.Score{
		ID:         uuid.New().String(),
		UserID:     game.UserID,
		GameID:     game.ID,
		Won:        won,
		Misses:     game.MissesTaken(),
		Difficulty: game.Difficulty,
		Date:       time.Now(),
	}

	if err := uow.ScoreRepository().Create(ctx, score); err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}

	user, err := uow.UserRepository().GetByIDForUpdate(ctx, game.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("owner of game %s missing", game.ID)
	}

	user.ApplyResult(won, game.MissesTaken(), game.Difficulty)
	if err := uow.UserRepository().UpdateAggregates(ctx, user); err != nil {
		return fmt.Errorf("failed to update user aggregates: %w", err)
	}

	// Flushed after the surrounding transaction commits
	uow.EventBus().Publish(events.GameFinishedEvent{
		GameID:   game.ID,
		UserName: game.UserName,
		Won:      won,
		Misses:   game.MissesTaken(),
	})

	return nil
}
