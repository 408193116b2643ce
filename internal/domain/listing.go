package domain

import "time"

// Listing represents a single availability post from a player looking
// for a bridge partner.
//
// A Listing is never mutated after creation. It disappears either through
// an explicit delete by ID or through the expiry collector once its start
// time plus the grace period has passed.
type Listing struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store at insert time and never reused.
	ID string `json:"id"`

	// ─────────────────────────────
	// Poster
	// ─────────────────────────────

	Name  string `json:"name"`
	Email string `json:"email"`

	// ─────────────────────────────
	// Proposed game
	// ─────────────────────────────

	// Location is a known venue name or free text.
	Location string `json:"location"`

	// Date is the calendar day of the game, formatted as YYYY-MM-DD.
	Date string `json:"date"`

	// Time is the start time of the game, formatted as HH:MM.
	Time string `json:"time"`

	Level Level `json:"level"`

	Notes     string `json:"notes,omitempty"`
	EventLink string `json:"event_link,omitempty"`

	// CreatedAt is assigned by the store and used for default ordering.
	CreatedAt time.Time `json:"created_at"`
}

// NewListing holds the user-submitted fields of a listing before the store
// assigns ID and CreatedAt.
type NewListing struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Level     Level  `json:"level"`
	Notes     string `json:"notes,omitempty"`
	EventLink string `json:"event_link,omitempty"`
}

// IDs returns the IDs of the given listings, in order.
func IDs(listings []Listing) []string {
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	return ids
}
