// internal/app/system/search/search.go
package search

import "strings"

// Fields says which user fields a free-text search should match.
type Fields struct {
	Email bool
	Name  bool
}

// Plan picks the fields for query q. A query containing '@' can only be an
// email, so the display-name clause is skipped and the email index alone
// serves the search. Anything else is tried against both.
func Plan(q string) Fields {
	q = strings.TrimSpace(q)
	if q == "" {
		return Fields{}
	}
	if strings.Contains(q, "@") {
		return Fields{Email: true}
	}
	return Fields{Email: true, Name: true}
}

// Any reports whether the search constrains anything.
func (f Fields) Any() bool { return f.Email || f.Name }
