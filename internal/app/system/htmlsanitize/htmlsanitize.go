// Package htmlsanitize cleans user-supplied HTML before it is stored.
//
// Organizers and venue hosts write rich-text descriptions in the SPA editor;
// everything they submit passes through Sanitize on create and update so the
// database only ever holds markup safe to render verbatim.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy allows the formatting the description editor produces (headings,
// emphasis, lists, tables, links, code) and nothing executable.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
	return p
}()

// Sanitize returns s with unsafe HTML removed. Plain text passes through
// unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// IsPlainText reports whether s contains no HTML tags at all.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
