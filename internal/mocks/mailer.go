package mocks

import (
	"context"

	"github.com/wildtrails/tours-api/internal/platform/mailer"
)

// MockMailer implements mailer.Mailer for testing
type MockMailer struct {
	// SendFn customizes delivery behavior; nil means success.
	SendFn func(ctx context.Context, msg mailer.Message) error

	// Sent records every message handed to Send.
	Sent []mailer.Message
}

// Ensure MockMailer implements mailer.Mailer
var _ mailer.Mailer = (*MockMailer)(nil)

// Send implements the Mailer interface
func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.SendFn != nil {
		if err := m.SendFn(ctx, msg); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, msg)
	return nil
}
