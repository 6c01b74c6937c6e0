// Package mailer delivers contact notifications through an external
// provider. Two drivers exist: the Resend HTTP API and plain SMTP.
package mailer

import "context"

// Message is a fully composed notification email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer hands a message to a delivery provider and returns the provider's
// message identifier.
type Mailer interface {
	Send(ctx context.Context, msg Message) (id string, err error)
}
