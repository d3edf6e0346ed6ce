package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the transport layer. Transports map these to
// response codes; everything else is treated as an internal failure.
var (
	// ErrNotFound indicates an unknown user or game key
	ErrNotFound = errors.New("not found")

	// ErrGameOver indicates an action attempted on a finished game.
	// For guesses this is an error; cancellation of a finished game is a
	// non-error result with an explanatory message instead.
	ErrGameOver = errors.New("that game is already over")

	// ErrDuplicateUser indicates a registration with a taken username
	ErrDuplicateUser = errors.New("a user with that name already exists")
)

// ValidationError reports malformed caller input. It is always recoverable
// at the boundary and carries a player-facing explanation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError with a formatted reason
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
