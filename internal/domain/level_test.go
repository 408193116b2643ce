package domain

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"Novice", LevelNovice, false},
		{"intermediate", LevelIntermediate, false},
		{" EXPERT ", LevelExpert, false},
		{"", "", true},
		{"pro", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelRankOrder(t *testing.T) {
	if LevelNovice.Rank() >= LevelExpert.Rank() {
		t.Error("Novice should rank below Expert")
	}
	if Level("Unknown").Rank() != -1 {
		t.Error("unknown level should rank -1")
	}
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	if len(slots) != 45 {
		t.Fatalf("len(TimeSlots()) = %d, want 45", len(slots))
	}
	if slots[0] != "09:00" || slots[1] != "09:15" || slots[len(slots)-1] != "20:00" {
		t.Errorf("unexpected slot bounds: %s, %s ... %s", slots[0], slots[1], slots[len(slots)-1])
	}
	for _, s := range slots {
		if !IsTimeSlot(s) {
			t.Errorf("IsTimeSlot(%q) = false", s)
		}
	}
	for _, s := range []string{"9:00", "20:15", "08:45", "12:05", "12:00:00", "noon"} {
		if IsTimeSlot(s) {
			t.Errorf("IsTimeSlot(%q) = true, want false", s)
		}
	}
}
