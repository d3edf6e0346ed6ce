package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hangman/database"
	"hangman/models"
)

const scoreColumns = `
	s.id, s.user_id, u.name, s.game_id, s.won, s.misses, s.difficulty, s.date`

// ScoreRepository implements the service.ScoreRepository interface
type ScoreRepository struct {
	q queryable
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{q: db.Pool}
}

// newScoreRepositoryWithTx creates a new score repository with a transaction
func newScoreRepositoryWithTx(tx queryable) *ScoreRepository {
	return &ScoreRepository{q: tx}
}

// Create persists a score record. The unique constraint on game_id makes
// a second record for the same game fail loudly instead of double counting.
func (r *ScoreRepository) Create(ctx context.Context, score *models.Score) error {
	query := `
		INSERT INTO scores (id, user_id, game_id, won, misses, difficulty)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING date
	`

	err := r.q.QueryRow(ctx, query,
		score.ID,
		score.UserID,
		score.GameID,
		score.Won,
		score.Misses,
		score.Difficulty,
	).Scan(&score.Date)
	if err != nil {
		return fmt.Errorf("failed to create score for game %s: %w", score.GameID, err)
	}
	return nil
}

// GetByUser returns a user's scores, most recent first
func (r *ScoreRepository) GetByUser(ctx context.Context, userID int64) ([]*models.Score, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM scores s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1
		ORDER BY s.date DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectScores(rows)
}

// GetWon returns all winning scores
func (r *ScoreRepository) GetWon(ctx context.Context) ([]*models.Score, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM scores s
		JOIN users u ON u.id = s.user_id
		WHERE s.won = TRUE
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get winning scores: %w", err)
	}
	defer rows.Close()

	return collectScores(rows)
}

func collectScores(rows pgx.Rows) ([]*models.Score, error) {
	var scores []*models.Score
	for rows.Next() {
		var score models.Score
		err := rows.Scan(
			&score.ID,
			&score.UserID,
			&score.UserName,
			&score.GameID,
			&score.Won,
			&score.Misses,
			&score.Difficulty,
			&score.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, &score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}
	return scores, nil
}
