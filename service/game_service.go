package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hangman/database"
	"hangman/events"
	"hangman/models"
	"hangman/words"
)

// gameService implements the GameService interface
type gameService struct {
	uowFactory UnitOfWorkFactory
	catalog    WordCatalog
}

// NewGameService creates a new game service
func NewGameService(uowFactory UnitOfWorkFactory, catalog WordCatalog) GameService {
	return &gameService{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

func (s *gameService) NewGame(ctx context.Context, userName string, allowedMisses int) (*models.GameView, error) {
	if allowedMisses < models.MinAllowedMisses || allowedMisses > models.MaxAllowedMisses {
		return nil, NewValidationError("Allowed misses must be between %d and %d!",
			models.MinAllowedMisses, models.MaxAllowedMisses)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", userName, ErrNotFound)
	}

	secret := s.catalog.PickSecretWord()
	game := &models.Game{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		UserName:      user.Name,
		SecretWord:    secret,
		RevealedWord:  strings.Repeat("-", len(secret)),
		AllowedMisses: allowedMisses,
		MissesLeft:    allowedMisses,
		MissedLetters: []string{},
		Difficulty:    words.Difficulty(secret),
	}

	if err := uow.GameRepository().Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	// The stats cache refresh reacts to this after commit, off the
	// request path.
	uow.EventBus().Publish(events.GameCreatedEvent{
		GameID:        game.ID,
		UserName:      user.Name,
		AllowedMisses: allowedMisses,
		Difficulty:    game.Difficulty,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return game.ToView(models.MsgNewGame), nil
}

func (s *gameService) GetGame(ctx context.Context, key string) (*models.GameView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %q: %w", key, ErrNotFound)
	}

	if game.GameOver {
		return game.ToView(models.MsgGameOver), nil
	}
	return game.ToView(models.MsgTakeTurn), nil
}

func (s *gameService) ApplyGuess(ctx context.Context, key, guess string) (*models.GameView, error) {
	letter := strings.ToLower(strings.TrimSpace(guess))

	// Precondition order is part of the contract: length before alphabet,
	// both rejected without touching game state.
	if len(letter) != 1 {
		return nil, NewValidationError("Exactly 1 character must be entered!")
	}
	if letter[0] < 'a' || letter[0] > 'z' {
		return nil, NewValidationError("Non-alphabetic character entered!")
	}

	var view *models.GameView
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		v, err := s.applyGuessTx(ctx, key, letter)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// applyGuessTx runs the whole read-modify-write of one guess, including the
// scoring handoff on termination, as a single transaction with the game row
// locked. Concurrent guesses against the same game serialize on that lock.
func (s *gameService) applyGuessTx(ctx context.Context, key, letter string) (*models.GameView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByIDForUpdate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %q: %w", key, ErrNotFound)
	}
	if game.GameOver {
		return nil, ErrGameOver
	}

	result := game.ApplyGuess(letter)
	if result.AlreadyTried {
		// Nothing changed and no turn is recorded; the message alone
		// goes back to the caller.
		return game.ToView(result.Message), nil
	}

	if err := uow.GameRepository().Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	turn := &models.TurnRecord{
		GameID:       game.ID,
		Guess:        letter,
		Result:       result.Message,
		RevealedWord: game.RevealedWord,
	}
	if err := uow.GameRepository().AppendTurn(ctx, turn); err != nil {
		return nil, fmt.Errorf("failed to append turn: %w", err)
	}

	if result.Finished {
		if err := recordResult(ctx, uow, game, result.Won); err != nil {
			return nil, fmt.Errorf("failed to record result: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return game.ToView(result.Message), nil
}

func (s *gameService) CancelGame(ctx context.Context, key string) (string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByIDForUpdate(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return "", fmt.Errorf("game %q: %w", key, ErrNotFound)
	}

	// Product rule: cancelling a finished game is a refusal message, not
	// an error.
	if game.GameOver {
		return models.MsgCancelTooLate, nil
	}

	if err := uow.GameRepository().Delete(ctx, game.ID); err != nil {
		return "", fmt.Errorf("failed to delete game: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return models.MsgCancelled, nil
}

func (s *gameService) GetUserGames(ctx context.Context, userName string) ([]*models.GameView, error) {
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

	games, err := uow.GameRepository().GetActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active games: %w", err)
	}

	views := make([]*models.GameView, 0, len(games))
	for _, game := range games {
		views = append(views, game.ToView(models.MsgTakeTurn))
	}
	return views, nil
}

func (s *gameService) GetGameHistory(ctx context.Context, key string) ([]*models.TurnView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %q: %w", key, ErrNotFound)
	}

	turns, err := uow.GameRepository().GetTurns(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get turn history: %w", err)
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("no history for game %q: %w", key, ErrNotFound)
	}

	views := make([]*models.TurnView, 0, len(turns))
	for _, turn := range turns {
		views = append(views, turn.ToView())
	}
	return views, nil
}
