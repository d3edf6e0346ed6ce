package service

import (
	"context"

	"hangman/events"
	"hangman/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByName retrieves a user by name; nil without error when absent
	GetByName(ctx context.Context, name string) (*models.User, error)

	// GetByIDForUpdate retrieves a user by ID with the row locked
	// for the duration of the surrounding transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)

	// Create creates a new user with zeroed counters
	Create(ctx context.Context, name, email string) (*models.User, error)

	// UpdateAggregates persists the user's counters and derived aggregates
	UpdateAggregates(ctx context.Context, user *models.User) error

	// GetRanked returns all users with at least one completed game
	GetRanked(ctx context.Context) ([]*models.User, error)
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	// Create persists a new game
	Create(ctx context.Context, game *models.Game) error

	// GetByID retrieves a game by key; nil without error when absent
	GetByID(ctx context.Context, id string) (*models.Game, error)

	// GetByIDForUpdate retrieves a game by key with the row locked
	// for the duration of the surrounding transaction
	GetByIDForUpdate(ctx context.Context, id string) (*models.Game, error)

	// Update persists the game's mutable letter state and game_over flag
	Update(ctx context.Context, game *models.Game) error

	// Delete removes a game and its turn history
	Delete(ctx context.Context, id string) error

	// GetActiveByUser returns a user's games that are not over
	GetActiveByUser(ctx context.Context, userID int64) ([]*models.Game, error)

	// GetActive returns all games that are not over
	GetActive(ctx context.Context) ([]*models.Game, error)

	// AppendTurn appends one entry to a game's turn history
	AppendTurn(ctx context.Context, turn *models.TurnRecord) error

	// GetTurns returns a game's turn history in play order
	GetTurns(ctx context.Context, gameID string) ([]*models.TurnRecord, error)
}

// ScoreRepository defines the interface for score data access
type ScoreRepository interface {
	// Create persists the score of a finished game. The underlying store
	// rejects a second score for the same game.
	Create(ctx context.Context, score *models.Score) error

	// GetByUser returns all scores of one user
	GetByUser(ctx context.Context, userID int64) ([]*models.Score, error)

	// GetWon returns the scores of all won games
	GetWon(ctx context.Context) ([]*models.Score, error)
}

// EventPublisher publishes events buffered until the transaction commits
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork provides transactional access to all repositories
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction; no-op if already committed
	Rollback() error

	UserRepository() UserRepository
	GameRepository() GameRepository
	ScoreRepository() ScoreRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// WordCatalog supplies secret words for new games
type WordCatalog interface {
	PickSecretWord() string
}

// Mailer sends outbound notification mail
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// UserService defines the interface for player registration and lookup
type UserService interface {
	// CreateUser registers a new user. The name must be alphanumeric,
	// at least three characters, and unused.
	CreateUser(ctx context.Context, name, email string) (*models.User, error)

	// GetUser retrieves a user by name
	GetUser(ctx context.Context, name string) (*models.User, error)
}

// GameService owns the per-game state machine and the scoring handoff
type GameService interface {
	// NewGame creates a game for the user with the given allowed misses
	NewGame(ctx context.Context, userName string, allowedMisses int) (*models.GameView, error)

	// GetGame returns the current game state
	GetGame(ctx context.Context, key string) (*models.GameView, error)

	// ApplyGuess applies a single-letter guess and returns the resulting
	// state with a result message
	ApplyGuess(ctx context.Context, key, guess string) (*models.GameView, error)

	// CancelGame deletes an active game. A finished game is not deleted;
	// the returned message explains the refusal without an error.
	CancelGame(ctx context.Context, key string) (string, error)

	// GetUserGames returns the user's active games
	GetUserGames(ctx context.Context, userName string) ([]*models.GameView, error)

	// GetGameHistory returns a game's turn history in play order
	GetGameHistory(ctx context.Context, key string) ([]*models.TurnView, error)
}

// RankingService produces leaderboards from persisted scores and users
type RankingService interface {
	// TopScores returns won games ordered by fewest misses, harder
	// difficulty breaking ties
	TopScores(ctx context.Context, limit int) ([]*models.ScoreView, error)

	// UserRankings returns users with at least one completed game ordered
	// by win ratio, then average misses, then average won difficulty
	UserRankings(ctx context.Context, limit int) ([]*models.RankingView, error)

	// UserScores returns all scores of one user
	UserScores(ctx context.Context, userName string) ([]*models.ScoreView, error)
}

// StatsService maintains the cached average misses remaining across
// active games
type StatsService interface {
	// RecomputeAverageMissesRemaining refreshes the cached aggregate
	RecomputeAverageMissesRemaining(ctx context.Context) error

	// AverageMissesRemaining returns the cached formatted value and
	// whether it is set
	AverageMissesRemaining() (string, bool)

	// ResetCache clears the cached value
	ResetCache()
}

// ReminderService emails users that have at least one active game
type ReminderService interface {
	// SendReminders sends one reminder per user with an email address
	// and an active game; returns the number of users emailed
	SendReminders(ctx context.Context) (int, error)
}
