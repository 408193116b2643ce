package domain

import "strings"

// Query narrows a listing set the way the finder page does: a free-text
// match on name or location, and an optional exact level.
type Query struct {
	Text  string
	Level Level
}

// Matches reports whether l satisfies q. An empty query matches everything.
func (q Query) Matches(l Listing) bool {
	if q.Level != "" && l.Level != q.Level {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Name), text) ||
		strings.Contains(strings.ToLower(l.Location), text)
}

// Filter returns the listings matching q, keeping order.
func (q Query) Filter(listings []Listing) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if q.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
