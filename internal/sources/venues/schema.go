package venues

// File is the top-level structure of venues.yaml
type File struct {
	Venues []Venue `yaml:"venues"`
}

// Venue is a place where games are held. Aliases are alternative spellings
// players commonly type.
type Venue struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}
