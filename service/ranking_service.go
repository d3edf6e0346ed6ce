package service

import (
	"context"
	"fmt"
	"sort"

	"hangman/models"
)

// rankingService implements the RankingService interface
type rankingService struct {
	uowFactory UnitOfWorkFactory
}

// NewRankingService creates a new ranking service
func NewRankingService(uowFactory UnitOfWorkFactory) RankingService {
	return &rankingService{
		uowFactory: uowFactory,
	}
}

// TopScores returns the high-score list over won games. Fewer misses ranks
// higher; equal misses are broken by the harder word. A non-positive limit
// returns the full list.
func (s *rankingService) TopScores(ctx context.Context, limit int) ([]*models.ScoreView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	scores, err := uow.ScoreRepository().GetWon(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get won scores: %w", err)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Misses != scores[j].Misses {
			return scores[i].Misses < scores[j].Misses
		}
		return scores[i].Difficulty > scores[j].Difficulty
	})

	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}

	views := make([]*models.ScoreView, 0, len(scores))
	for _, score := range scores {
		views = append(views, score.ToView())
	}
	return views, nil
}

// UserRankings returns the player leaderboard over users with at least one
// completed game: best win ratio first, then fewest average misses, then
// hardest average won difficulty. Users without a win have no average won
// difficulty and sort lowest on that tie-break.
func (s *rankingService) UserRankings(ctx context.Context, limit int) ([]*models.RankingView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetRanked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranked users: %w", err)
	}

	ranked := make([]*models.User, 0, len(users))
	for _, user := range users {
		if user.Ranked() {
			ranked = append(ranked, user)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if *ranked[i].WinRatio != *ranked[j].WinRatio {
			return *ranked[i].WinRatio > *ranked[j].WinRatio
		}
		if *ranked[i].AvgMisses != *ranked[j].AvgMisses {
			return *ranked[i].AvgMisses < *ranked[j].AvgMisses
		}
		return wonDifficulty(ranked[i]) > wonDifficulty(ranked[j])
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	views := make([]*models.RankingView, 0, len(ranked))
	for _, user := range ranked {
		views = append(views, user.ToRankingView())
	}
	return views, nil
}

// UserScores returns all of one user's scores
func (s *rankingService) UserScores(ctx context.Context, userName string) ([]*models.ScoreView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", userName, ErrNotFound)
	}

	scores, err := uow.ScoreRepository().GetByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user scores: %w", err)
	}

	views := make([]*models.ScoreView, 0, len(scores))
	for _, score := range scores {
		views = append(views, score.ToView())
	}
	return views, nil
}

// wonDifficulty orders users without a defined average won difficulty below
// every user that has one
func wonDifficulty(u *models.User) float64 {
	if u.AvgWonDifficulty == nil {
		return -1
	}
	return *u.AvgWonDifficulty
}
