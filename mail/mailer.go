package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SMTPMailer sends plain-text mail through an SMTP relay
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer creates a mailer that relays through addr (host:port)
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: addr,
		from: from,
	}
}

// Send delivers one message. The context is consulted before dialing;
// net/smtp itself does not support cancellation mid-send.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, to, subject, body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	log.WithFields(log.Fields{
		"to":      to,
		"subject": subject,
	}).Debug("Sent mail")

	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
