// Package mailer delivers transactional email. Handlers depend only on
// the Mailer interface; the SMTP implementation is wired at startup.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/wildtrails/tours-api/internal/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer defines the interface for out-of-band message delivery.
type Mailer interface {
	// Send delivers the message. Callers treat a returned error as
	// delivery failure and must roll back any state that depended on it.
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer implements Mailer over plain SMTP.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates an SMTPMailer from mail configuration.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

// Send implements the Mailer interface.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
