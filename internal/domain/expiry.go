package domain

import (
	"fmt"
	"time"
)

// DefaultGracePeriod is how long a listing survives past its start time
// before the expiry collector deletes it.
const DefaultGracePeriod = 24 * time.Hour

const (
	dateLayout        = "2006-01-02"
	clockLayout       = "15:04"
	clockSecondLayout = "15:04:05"
)

// StartsAt returns the wall-clock start of the listing in loc.
// Both HH:MM and HH:MM:SS time values are accepted.
func StartsAt(l Listing, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{clockLayout, clockSecondLayout} {
		t, err := time.ParseInLocation(dateLayout+"T"+layout, l.Date+"T"+l.Time, loc)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid schedule %q %q for listing %s", l.Date, l.Time, l.ID)
}

// ExpiresAt returns the instant after which the listing is no longer active
// for the given grace period.
func ExpiresAt(l Listing, loc *time.Location, grace time.Duration) (time.Time, error) {
	start, err := StartsAt(l, loc)
	if err != nil {
		return time.Time{}, err
	}
	if grace < 0 {
		grace = 0
	}
	return start.Add(grace), nil
}

// IsActive reports whether now is strictly before the listing's start plus
// grace. The listing's date and time are read in now's location.
//
// A listing whose date or time cannot be parsed is never active, so broken
// rows are hidden from readers and collected by the next cleanup.
func IsActive(l Listing, now time.Time, grace time.Duration) bool {
	expiry, err := ExpiresAt(l, now.Location(), grace)
	if err != nil {
		return false
	}
	return now.Before(expiry)
}

// Partition splits listings into active and expired sets, keeping input order.
func Partition(listings []Listing, now time.Time, grace time.Duration) (active, expired []Listing) {
	for _, l := range listings {
		if IsActive(l, now, grace) {
			active = append(active, l)
		} else {
			expired = append(expired, l)
		}
	}
	return active, expired
}

// ActiveOnly returns the listings whose start time has not passed yet.
func ActiveOnly(listings []Listing, now time.Time) []Listing {
	active, _ := Partition(listings, now, 0)
	return active
}
