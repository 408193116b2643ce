package venues

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "venues.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeFile(t, `---
venues:
  - name: Branford Bridge Club
    aliases: [Branford, BBC]
  - name: Online
`)

	f, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := File{Venues: []Venue{
		{Name: "Branford Bridge Club", Aliases: []string{"Branford", "BBC"}},
		{Name: "Online"},
	}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoaderLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "venues: []\n", "no venues defined"},
		{"missing name", "venues:\n  - aliases: [x]\n", "has no name"},
		{"shared alias", "venues:\n  - name: A\n    aliases: [club]\n  - name: B\n    aliases: [Club]\n", "used by both"},
		{"bad yaml", "venues: [\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(writeFile(t, tt.content)).Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewLoader("/nonexistent/path/venues.yaml").Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}
