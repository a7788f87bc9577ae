package catalog

import (
	"strings"

	"github.com/agentstation/utc"
)

// Component is a CMake target exported by one part of a recipe.
type Component struct {
	TargetName string `json:"cmake_target_name"`
}

// Entry describes one recipe in the catalog. Versions are newest-first by
// convention of the upstream data file.
type Entry struct {
	Components  map[string]Component `json:"components"`
	Name        string               `json:"-"`
	FileName    string               `json:"cmake_file_name"`
	TargetName  string               `json:"cmake_target_name"`
	Description string               `json:"description"`
	Licenses    []string             `json:"license"`
	Versions    []string             `json:"versions"`
	V2          bool                 `json:"v2"`
}

// Catalog is an immutable snapshot of the recipe catalog. A refresh
// replaces the whole snapshot; it is never mutated in place.
type Catalog struct {
	FetchedAt utc.Time
	entries   map[string]*Entry
	order     []string
}

// Lookup returns the entry for name. Unknown names return false.
func (c *Catalog) Lookup(name string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	e, ok := c.entries[name]
	return e, ok
}

// Filter returns the names containing substr (case-sensitive), in the
// order they appear in the source document. An empty substr matches all.
func (c *Catalog) Filter(substr string) []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.order))
	for _, name := range c.order {
		if strings.Contains(name, substr) {
			out = append(out, name)
		}
	}
	return out
}

// Len returns the number of recipes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
