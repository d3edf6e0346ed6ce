package service

import (
	"context"
	"fmt"

	"hangman/events"
	"hangman/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// CreateUser registers a new player. Usernames are unique, alphanumeric and
// at least three characters; the email address is optional.
func (s *userService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	if name == "" {
		return nil, NewValidationError("Username is required!")
	}
	if !isAlphanumeric(name) {
		return nil, NewValidationError("Username must be alphanumeric!")
	}
	if len(name) < 3 {
		return nil, NewValidationError("Username must be at least 3 characters!")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	existing, err := uow.UserRepository().GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %q: %w", name, ErrDuplicateUser)
	}

	// The unique constraint on the name column backstops concurrent
	// registrations of the same name.
	user, err := uow.UserRepository().Create(ctx, name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{UserName: user.Name})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by name
func (s *userService) GetUser(ctx context.Context, name string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", name, ErrNotFound)
	}
	return user, nil
}

// isAlphanumeric reports whether s contains only ASCII letters and digits
func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
