package venues

import (
	"strings"
)

// Default is used when no venues file is configured.
var Default = []Venue{
	{Name: "New York, NY", Aliases: []string{"New York", "NYC", "NY"}},
	{Name: "San Francisco, CA", Aliases: []string{"San Francisco", "SF"}},
	{Name: "Chicago, IL", Aliases: []string{"Chicago"}},
	{Name: "Boston, MA", Aliases: []string{"Boston"}},
	{Name: "Seattle, WA", Aliases: []string{"Seattle"}},
	{Name: "Austin, TX", Aliases: []string{"Austin"}},
}

// Catalog maps free-text locations onto known venue names.
type Catalog struct {
	venues []Venue
	lookup map[string]string
}

// NewCatalog builds a catalog from vs, or from Default when vs is empty
func NewCatalog(vs []Venue) *Catalog {
	if len(vs) == 0 {
		vs = Default
	}

	c := &Catalog{
		venues: make([]Venue, 0, len(vs)),
		lookup: make(map[string]string, len(vs)*3),
	}
	for _, v := range vs {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			continue
		}
		c.venues = append(c.venues, Venue{Name: name, Aliases: v.Aliases})
		c.lookup[fold(name)] = name
		for _, a := range v.Aliases {
			if k := fold(a); k != "" {
				if _, taken := c.lookup[k]; !taken {
					c.lookup[k] = name
				}
			}
		}
	}
	return c
}

// Load builds a catalog from a venues file, or from Default when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(nil), nil
	}
	f, err := NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	return NewCatalog(f.Venues), nil
}

// Normalize returns the canonical venue name for location when it matches a
// name or alias, ignoring case and surrounding or repeated spaces. Unknown
// locations are returned trimmed.
func (c *Catalog) Normalize(location string) string {
	if name, ok := c.lookup[fold(location)]; ok {
		return name
	}
	return strings.TrimSpace(location)
}

// Known reports whether location matches a catalog venue.
func (c *Catalog) Known(location string) bool {
	_, ok := c.lookup[fold(location)]
	return ok
}

// Names returns the canonical venue names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.venues))
	for _, v := range c.venues {
		names = append(names, v.Name)
	}
	return names
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
