package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hangman/database"
	"hangman/models"
)

const gameColumns = `
	g.id, g.user_id, u.name, g.secret_word, g.revealed_word,
	g.allowed_misses, g.misses_left, g.missed_letters, g.difficulty,
	g.game_over, g.created_at, g.updated_at`

// GameRepository implements the service.GameRepository interface
type GameRepository struct {
	q queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

// newGameRepositoryWithTx creates a new game repository with a transaction
func newGameRepositoryWithTx(tx queryable) *GameRepository {
	return &GameRepository{q: tx}
}

// Create persists a new game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, user_id, secret_word, revealed_word,
			allowed_misses, misses_left, missed_letters, difficulty, game_over)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		game.ID,
		game.UserID,
		game.SecretWord,
		game.RevealedWord,
		game.AllowedMisses,
		game.MissesLeft,
		game.MissedLetters,
		game.Difficulty,
		game.GameOver,
	).Scan(&game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game %s: %w", game.ID, err)
	}
	return nil
}

// GetByID retrieves a game by key
func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		JOIN users u ON u.id = g.user_id
		WHERE g.id = $1
	`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return game, nil
}

// GetByIDForUpdate retrieves a game by key and locks its row until the
// surrounding transaction finishes, serializing concurrent guesses
func (r *GameRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		JOIN users u ON u.id = g.user_id
		WHERE g.id = $1
		FOR UPDATE OF g
	`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s for update: %w", id, err)
	}
	return game, nil
}

// Update persists the game's mutable letter state and game_over flag.
// The secret word and difficulty never change after creation.
func (r *GameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games
		SET revealed_word = $1,
		    misses_left = $2,
		    missed_letters = $3,
		    game_over = $4,
		    updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.q.Exec(ctx, query,
		game.RevealedWord,
		game.MissesLeft,
		game.MissedLetters,
		game.GameOver,
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game %s: %w", game.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("game %s not found", game.ID)
	}
	return nil
}

// Delete removes a game; its turn history goes with it
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("game %s not found", id)
	}
	return nil
}

// GetActiveByUser returns a user's games that are not over
func (r *GameRepository) GetActiveByUser(ctx context.Context, userID int64) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		JOIN users u ON u.id = g.user_id
		WHERE g.user_id = $1 AND g.game_over = FALSE
		ORDER BY g.created_at
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active games for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectGames(rows)
}

// GetActive returns all games that are not over
func (r *GameRepository) GetActive(ctx context.Context) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games g
		JOIN users u ON u.id = g.user_id
		WHERE g.game_over = FALSE
		ORDER BY g.created_at
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active games: %w", err)
	}
	defer rows.Close()

	return collectGames(rows)
}

// AppendTurn appends one entry to a game's history. The turn number
// continues the existing sequence; callers hold the game row lock, so the
// subselect cannot race.
func (r *GameRepository) AppendTurn(ctx context.Context, turn *models.TurnRecord) error {
	query := `
		INSERT INTO game_turns (game_id, turn, guess, result, revealed_word)
		VALUES ($1,
			(SELECT COALESCE(MAX(turn), 0) + 1 FROM game_turns WHERE game_id = $1),
			$2, $3, $4)
		RETURNING turn, created_at
	`

	err := r.q.QueryRow(ctx, query,
		turn.GameID,
		turn.Guess,
		turn.Result,
		turn.RevealedWord,
	).Scan(&turn.Turn, &turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append turn for game %s: %w", turn.GameID, err)
	}
	return nil
}

// GetTurns returns a game's turn history in play order
func (r *GameRepository) GetTurns(ctx context.Context, gameID string) ([]*models.TurnRecord, error) {
	query := `
		SELECT game_id, turn, guess, result, revealed_word, created_at
		FROM game_turns
		WHERE game_id = $1
		ORDER BY turn
	`

	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get turns for game %s: %w", gameID, err)
	}
	defer rows.Close()

	var turns []*models.TurnRecord
	for rows.Next() {
		var turn models.TurnRecord
		err := rows.Scan(
			&turn.GameID,
			&turn.Turn,
			&turn.Guess,
			&turn.Result,
			&turn.RevealedWord,
			&turn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, &turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}
	return turns, nil
}

// scanGame reads one game row in gameColumns order
func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID,
		&game.UserID,
		&game.UserName,
		&game.SecretWord,
		&game.RevealedWord,
		&game.AllowedMisses,
		&game.MissesLeft,
		&game.MissedLetters,
		&game.Difficulty,
		&game.GameOver,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// collectGames drains rows into game models
func collectGames(rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return games, nil
}
