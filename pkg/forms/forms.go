// Package forms holds the shared plumbing for translating submitted form
// values into typed inputs or a per-field error map.
package forms

import (
	"net/url"
	"regexp"
	"strings"
)

// Errors maps a field name to the human-readable messages reported for it.
// The pseudo-field "" carries form-wide errors (e.g. a failed login).
type Errors map[string][]string

// Add appends a message for the given field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// HasAny reports whether any field has an error.
func (e Errors) HasAny() bool { return len(e) > 0 }

// First returns the first message recorded for a field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Values wraps submitted form data with trimmed access.
type Values struct {
	url.Values
}

// NewValues wraps raw form data.
func NewValues(v url.Values) Values { return Values{Values: v} }

// Trimmed returns the field value with surrounding whitespace removed.
func (v Values) Trimmed(field string) string {
	return strings.TrimSpace(v.Get(field))
}

// emailPattern is deliberately loose: one @, something on both sides,
// a dot in the domain. Real validation happens when mail is sent.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// LooksLikeEmail reports whether s is plausibly an email address.
func LooksLikeEmail(s string) bool {
	return emailPattern.MatchString(s)
}
