package mail

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// DiscardMailer logs outbound mail instead of sending it. Used when no
// SMTP relay is configured, typically in development.
type DiscardMailer struct{}

// NewDiscardMailer creates a mailer that drops everything
func NewDiscardMailer() *DiscardMailer {
	return &DiscardMailer{}
}

// Send logs the message and succeeds
func (m *DiscardMailer) Send(ctx context.Context, to, subject, body string) error {
	log.WithFields(log.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Mail sending disabled, discarding message")
	return nil
}
