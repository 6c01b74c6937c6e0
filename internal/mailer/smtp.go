package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/google/uuid"
	"github.com/jordan-wright/email"
)

// SMTP sends through a plain SMTP relay. The provider assigns no message id,
// so Send returns a locally generated reference id instead.
type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	SSL  bool
}

func (m *SMTP) Send(ctx context.Context, msg Message) (string, error) {
	if m.Host == "" {
		return "", fmt.Errorf("%w: missing SMTP host", ErrNotConfigured)
	}

	e := email.NewEmail()
	e.From = msg.From
	e.To = []string{msg.To}
	e.ReplyTo = []string{msg.ReplyTo}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	e.HTML = []byte(msg.HTML)

	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)

	var err error
	if m.SSL {
		err = e.SendWithTLS(addr, auth, &tls.Config{ServerName: m.Host})
	} else {
		err = e.Send(addr, auth)
	}
	if err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return uuid.NewString(), nil
}
