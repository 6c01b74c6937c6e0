package contact

import (
	"fmt"
	"strings"

	"github.com/relaykit/contact-relay/internal/mailer"
)

// composeMessage renders the notification email. The plain-text body carries
// the fields verbatim; the HTML body escapes every user-supplied value and
// turns message newlines into <br>.
func composeMessage(s Submission, from, to string) mailer.Message {
	text := fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", s.Name, s.Email, s.Message)

	htmlEmail := EscapeHTML(s.Email)
	htmlMessage := strings.ReplaceAll(EscapeHTML(s.Message), "\n", "<br>")
	html := fmt.Sprintf(
		"<h2>New Contact Form Submission</h2>\n"+
			"<p><strong>Name:</strong> %s</p>\n"+
			"<p><strong>Email:</strong> <a href=\"mailto:%s\">%s</a></p>\n"+
			"<h3>Message:</h3>\n"+
			"<p>%s</p>",
		EscapeHTML(s.Name), htmlEmail, htmlEmail, htmlMessage,
	)

	return mailer.Message{
		From:    from,
		To:      to,
		ReplyTo: s.Email,
		Subject: "Portfolio Contact: " + s.Name,
		Text:    text,
		HTML:    html,
	}
}
