package domain

import (
	"fmt"
	"strings"
	"time"
)

// Level is a player's self-declared skill tier.
type Level string

const (
	LevelNovice       Level = "Novice"
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelExpert       Level = "Expert"
)

// Levels lists every tier, ordered by proficiency.
var Levels = []Level{
	LevelNovice,
	LevelBeginner,
	LevelIntermediate,
	LevelAdvanced,
	LevelExpert,
}

// Rank returns the position of the level in Levels, or -1 if unknown.
func (l Level) Rank() int {
	for i, v := range Levels {
		if v == l {
			return i
		}
	}
	return -1
}

// Valid reports whether l is one of the known tiers.
func (l Level) Valid() bool { return l.Rank() >= 0 }

// ParseLevel resolves a tier name case-insensitively.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	for _, v := range Levels {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown level: %q", s)
}

const (
	firstSlot    = 9 * time.Hour
	lastSlot     = 20 * time.Hour
	slotInterval = 15 * time.Minute
)

// TimeSlots returns the start times a listing may use, HH:MM from 09:00 to
// 20:00 inclusive in 15 minute increments.
func TimeSlots() []string {
	slots := make([]string, 0, int((lastSlot-firstSlot)/slotInterval)+1)
	for d := firstSlot; d <= lastSlot; d += slotInterval {
		slots = append(slots, fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60))
	}
	return slots
}

// IsTimeSlot reports whether s is one of TimeSlots.
func IsTimeSlot(s string) bool {
	t, err := time.Parse(clockLayout, s)
	if err != nil || t.Format(clockLayout) != s {
		return false
	}
	d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	return d >= firstSlot && d <= lastSlot && d%slotInterval == 0
}
