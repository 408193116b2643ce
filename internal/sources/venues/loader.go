package venues

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of venues.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new venues loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads, parses and checks the venues file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read venues file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse venues yaml: %w", err)
	}

	if err := f.check(); err != nil {
		return File{}, fmt.Errorf("invalid venues file %s: %w", l.filePath, err)
	}

	return f, nil
}

// check rejects empty names and spellings claimed by two venues.
func (f File) check() error {
	if len(f.Venues) == 0 {
		return fmt.Errorf("no venues defined")
	}

	owner := make(map[string]string)
	claim := func(spelling, venue string) error {
		key := fold(spelling)
		if key == "" {
			return nil
		}
		if prev, ok := owner[key]; ok && prev != venue {
			return fmt.Errorf("%q is used by both %q and %q", spelling, prev, venue)
		}
		owner[key] = venue
		return nil
	}

	for i, v := range f.Venues {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return fmt.Errorf("venue #%d has no name", i+1)
		}
		if err := claim(name, name); err != nil {
			return err
		}
		for _, a := range v.Aliases {
			if err := claim(a, name); err != nil {
				return err
			}
		}
	}
	return nil
}
