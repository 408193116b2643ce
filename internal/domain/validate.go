package domain

import (
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"time"
)

// ValidationError maps submission field names to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid listing: " + strings.Join(parts, "; ")
}

// Normalize trims every text field of the submission.
func (n NewListing) Normalize() NewListing {
	n.Name = strings.TrimSpace(n.Name)
	n.Email = strings.TrimSpace(n.Email)
	n.Location = strings.TrimSpace(n.Location)
	n.Date = strings.TrimSpace(n.Date)
	n.Time = strings.TrimSpace(n.Time)
	n.Level = Level(strings.TrimSpace(string(n.Level)))
	n.Notes = strings.TrimSpace(n.Notes)
	n.EventLink = strings.TrimSpace(n.EventLink)
	return n
}

// Validate checks a normalized submission. It returns a *ValidationError
// listing every offending field, or nil.
func (n NewListing) Validate() error {
	fields := make(map[string]string)

	required := map[string]string{
		"name":     n.Name,
		"email":    n.Email,
		"location": n.Location,
		"date":     n.Date,
		"time":     n.Time,
		"level":    string(n.Level),
	}
	for field, v := range required {
		if v == "" {
			fields[field] = "is required"
		}
	}

	if _, ok := fields["email"]; !ok {
		if _, err := mail.ParseAddress(n.Email); err != nil {
			fields["email"] = "is not a valid address"
		}
	}
	if _, ok := fields["date"]; !ok {
		if _, err := time.Parse(dateLayout, n.Date); err != nil {
			fields["date"] = "must be formatted YYYY-MM-DD"
		}
	}
	if _, ok := fields["time"]; !ok && !IsTimeSlot(n.Time) {
		fields["time"] = "must be a 15 minute slot between 09:00 and 20:00"
	}
	if _, ok := fields["level"]; !ok && !n.Level.Valid() {
		fields["level"] = "is not a known level"
	}
	if n.EventLink != "" {
		u, err := url.Parse(n.EventLink)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields["event_link"] = "must be an absolute http(s) URL"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
