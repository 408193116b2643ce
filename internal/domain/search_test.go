package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQueryFilter(t *testing.T) {
	listings := []Listing{
		{ID: "1", Name: "Sarah Mitchell", Location: "Branford Bridge Club", Level: LevelAdvanced},
		{ID: "2", Name: "James Chen", Location: "Guilford Library", Level: LevelIntermediate},
		{ID: "3", Name: "Emily Rodriguez", Location: "Branford Community Center", Level: LevelExpert},
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty query", Query{}, []string{"1", "2", "3"}},
		{"name match is case insensitive", Query{Text: "JAMES"}, []string{"2"}},
		{"location match", Query{Text: "branford"}, []string{"1", "3"}},
		{"level only", Query{Level: LevelExpert}, []string{"3"}},
		{"text and level", Query{Text: "branford", Level: LevelAdvanced}, []string{"1"}},
		{"no match", Query{Text: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IDs(tt.q.Filter(listings))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
