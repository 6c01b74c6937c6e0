package contact

import "strings"

// htmlEscaper covers the same character set the notification template is
// exposed to: & < > " ' and /. The stdlib html.EscapeString leaves / alone,
// which is not enough for attribute-context interpolation.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#x2F;",
)

// EscapeHTML neutralizes user-supplied text before it is interpolated into
// the HTML email body. Replacement happens in one pass, so ampersands
// introduced by earlier substitutions are never re-escaped.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
