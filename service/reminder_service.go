package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

const reminderSubject = "Reminder: Time to play Hangman!"

// reminderService implements the ReminderService interface
type reminderService struct {
	uowFactory UnitOfWorkFactory
	mailer     Mailer
}

// NewReminderService creates a new reminder service
func NewReminderService(uowFactory UnitOfWorkFactory, mailer Mailer) ReminderService {
	return &reminderService{
		uowFactory: uowFactory,
		mailer:     mailer,
	}
}

// SendReminders mails every user that has an email address and at least one
// active game, once per user. An external scheduler triggers this; a failed
// send is logged and skipped so one bad address never blocks the rest.
func (s *reminderService) SendReminders(ctx context.Context) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	games, err := uow.GameRepository().GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get active games: %w", err)
	}

	seen := make(map[int64]struct{})
	emailed := 0
	for _, game := range games {
		if _, done := seen[game.UserID]; done {
			continue
		}
		seen[game.UserID] = struct{}{}

		user, err := uow.UserRepository().GetByName(ctx, game.UserName)
		if err != nil {
			return emailed, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil || user.Email == "" {
			continue
		}

		body := fmt.Sprintf("Hello %s, you have at least one active game! "+
			"Time to take a turn!", user.Name)
		if err := s.mailer.Send(ctx, user.Email, reminderSubject, body); err != nil {
			log.WithFields(log.Fields{
				"user":  user.Name,
				"error": err,
			}).Warn("Failed to send reminder email")
			continue
		}
		emailed++
	}

	return emailed, nil
}
