package venues

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCatalogNormalize(t *testing.T) {
	c := NewCatalog(nil)

	tests := []struct {
		in   string
		want string
	}{
		{"New York, NY", "New York, NY"},
		{"nyc", "New York, NY"},
		{"  san   FRANCISCO ", "San Francisco, CA"},
		{"Chicago", "Chicago, IL"},
		{"  Denver, CO ", "Denver, CO"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := c.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if !c.Known("sf") || c.Known("Denver") {
		t.Error("Known() disagrees with the catalog")
	}
}

func TestCatalogNames(t *testing.T) {
	c := NewCatalog([]Venue{{Name: " Online "}, {Name: ""}, {Name: "Club"}})
	if diff := cmp.Diff([]string{"Online", "Club"}, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if len(c.Names()) != len(Default) {
		t.Errorf("Names() = %v, want the default catalog", c.Names())
	}
}
