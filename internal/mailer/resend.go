package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ErrNotConfigured is returned when a driver is missing the credential or
// endpoint it needs. The request fails closed; the process keeps running.
var ErrNotConfigured = errors.New("mailer: delivery provider is not configured")

// Resend sends through the Resend transactional email API.
type Resend struct {
	apiKey string
	client *resend.Client
}

func NewResend(apiKey string) *Resend {
	return &Resend{
		apiKey: apiKey,
		client: resend.NewClient(apiKey),
	}
}

func (m *Resend) Send(ctx context.Context, msg Message) (string, error) {
	if m.apiKey == "" {
		return "", fmt.Errorf("%w: missing Resend API key", ErrNotConfigured)
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}
	return sent.Id, nil
}
