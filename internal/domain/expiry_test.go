package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("time zone %s unavailable: %v", name, err)
	}
	return loc
}

func TestIsActive(t *testing.T) {
	// 2026-03-14 18:00 local start
	l := Listing{ID: "a", Date: "2026-03-14", Time: "18:00"}
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		now   time.Time
		grace time.Duration
		want  bool
	}{
		{"well before start", start.Add(-48 * time.Hour), 0, true},
		{"one second before start", start.Add(-time.Second), 0, true},
		{"exactly at start", start, 0, false},
		{"after start, no grace", start.Add(time.Minute), 0, false},
		{"after start, within grace", start.Add(23 * time.Hour), 24 * time.Hour, true},
		{"exactly at end of grace", start.Add(24 * time.Hour), 24 * time.Hour, false},
		{"past grace", start.Add(30 * time.Hour), 24 * time.Hour, false},
		{"negative grace treated as zero", start.Add(-time.Second), -time.Hour, true},
		{"negative grace at start", start, -time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActive(l, tt.now, tt.grace); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsActiveSecondsPrecisionTime(t *testing.T) {
	l := Listing{Date: "2026-03-14", Time: "18:00:00"}
	now := time.Date(2026, 3, 14, 17, 59, 0, 0, time.UTC)
	if !IsActive(l, now, 0) {
		t.Error("HH:MM:SS time should be understood")
	}
}

func TestIsActiveUsesNowLocation(t *testing.T) {
	ny := mustLocation(t, "America/New_York")
	l := Listing{Date: "2026-07-01", Time: "19:00"}

	// 19:00 in New York is 23:00 UTC during daylight saving time.
	utcNow := time.Date(2026, 7, 1, 22, 0, 0, 0, time.UTC)
	if !IsActive(l, utcNow.In(ny), 0) {
		t.Error("listing should still be active at 18:00 New York time")
	}
	if IsActive(l, utcNow, 0) {
		t.Error("listing should have started when read as UTC wall clock")
	}
}

func TestIsActiveMalformedFailsClosed(t *testing.T) {
	now := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		l    Listing
	}{
		{"empty", Listing{}},
		{"bad date", Listing{Date: "14/03/2026", Time: "18:00"}},
		{"bad time", Listing{Date: "2026-03-14", Time: "6pm"}},
		{"impossible date", Listing{Date: "2026-02-30", Time: "18:00"}},
		{"out of range time", Listing{Date: "2026-03-14", Time: "25:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsActive(tt.l, now, DefaultGracePeriod) {
				t.Error("malformed listing must not be active")
			}
			if _, err := StartsAt(tt.l, time.UTC); err == nil {
				t.Error("StartsAt() should return an error")
			}
		})
	}
}

// Increasing the grace period can only extend activity.
func TestIsActiveMonotonicInGrace(t *testing.T) {
	l := Listing{Date: "2026-03-14", Time: "12:15"}
	start := time.Date(2026, 3, 14, 12, 15, 0, 0, time.UTC)
	graces := []time.Duration{0, time.Minute, time.Hour, 24 * time.Hour, 72 * time.Hour}

	for offset := -2 * time.Hour; offset <= 80*time.Hour; offset += 30 * time.Minute {
		now := start.Add(offset)
		for i := 1; i < len(graces); i++ {
			if IsActive(l, now, graces[i-1]) && !IsActive(l, now, graces[i]) {
				t.Fatalf("offset %v: active with grace %v but not with %v", offset, graces[i-1], graces[i])
			}
		}
		// Zero grace is false exactly when now >= start.
		if got, want := IsActive(l, now, 0), now.Before(start); got != want {
			t.Fatalf("offset %v: IsActive(0) = %v, want %v", offset, got, want)
		}
	}
}

func TestPartition(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	listings := []Listing{
		{ID: "a", Date: "2026-05-10", Time: "13:00"}, // starts in 1h
		{ID: "b", Date: "2026-05-09", Time: "06:00"}, // started 30h ago
		{ID: "c", Date: "2026-05-10", Time: "11:00"}, // started 1h ago
		{ID: "d", Date: "garbage", Time: "11:00"},
	}

	active, expired := Partition(listings, now, DefaultGracePeriod)
	if diff := cmp.Diff([]string{"a", "c"}, IDs(active)); diff != "" {
		t.Errorf("active mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "d"}, IDs(expired)); diff != "" {
		t.Errorf("expired mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"a"}, IDs(ActiveOnly(listings, now))); diff != "" {
		t.Errorf("ActiveOnly mismatch (-want +got):\n%s", diff)
	}
}
