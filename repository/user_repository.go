package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hangman/database"
	"hangman/models"
)

const userColumns = `
	id, name, email, wins, total_games, misses, won_games_difficulty,
	win_ratio, avg_misses, avg_won_difficulty, created_at, updated_at`

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByName retrieves a user by name
func (r *UserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE name = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by name %q: %w", name, err)
	}
	return user, nil
}

// GetByIDForUpdate retrieves a user by ID and locks the row until the
// surrounding transaction finishes
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d for update: %w", id, err)
	}
	return user, nil
}

// Create creates a new user with zeroed counters
func (r *UserRepository) Create(ctx context.Context, name, email string) (*models.User, error) {
	query := `
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, name, email))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", name, err)
	}
	return user, nil
}

// UpdateAggregates persists the user's counters and derived aggregates
func (r *UserRepository) UpdateAggregates(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET wins = $1,
		    total_games = $2,
		    misses = $3,
		    won_games_difficulty = $4,
		    win_ratio = $5,
		    avg_misses = $6,
		    avg_won_difficulty = $7,
		    updated_at = NOW()
		WHERE id = $8
	`

	result, err := r.q.Exec(ctx, query,
		user.Wins,
		user.TotalGames,
		user.Misses,
		user.WonGamesDifficulty,
		user.WinRatio,
		user.AvgMisses,
		user.AvgWonDifficulty,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update aggregates for user %d: %w", user.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", user.ID)
	}
	return nil
}

// GetRanked returns all users with at least one completed game
func (r *UserRepository) GetRanked(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE total_games >= 1`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranked users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// scanUser reads one user row in userColumns order
func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Wins,
		&user.TotalGames,
		&user.Misses,
		&user.WonGamesDifficulty,
		&user.WinRatio,
		&user.AvgMisses,
		&user.AvgWonDifficulty,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
