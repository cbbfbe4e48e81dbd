// Package layout describes the ship's compartments and the directed graph of
// passages between them.
package layout

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed ship.yaml
var defaultLayout []byte

// Compartment is one navigable location aboard the ship.
type Compartment struct {
	ID           string            `yaml:"-"`
	Name         string            `yaml:"name"`
	Shorthand    string            `yaml:"shorthand"`
	Aliases      []string          `yaml:"aliases,omitempty"`
	Description  string            `yaml:"description"`
	Lore         string            `yaml:"lore,omitempty"`
	Exits        []string          `yaml:"exits"`
	NPCs         []string          `yaml:"npcs,omitempty"`
	Inspectables map[string]string `yaml:"inspectables,omitempty"`
}

// HasNPC reports whether the named NPC is stationed here.
func (c *Compartment) HasNPC(name string) bool {
	for _, n := range c.NPCs {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Inspect looks up an inspectable by case-insensitive name.
func (c *Compartment) Inspect(target string) (string, bool) {
	text, ok := c.Inspectables[strings.ToLower(strings.TrimSpace(target))]
	return text, ok
}

// InspectableNames lists what can be inspected here, sorted.
func (c *Compartment) InspectableNames() []string {
	names := make([]string, 0, len(c.Inspectables))
	for name := range c.Inspectables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Title is the display name in title case.
func (c *Compartment) Title() string {
	return cases.Title(language.English).String(c.Name)
}

// Layout is the compartment graph. It is immutable after Parse.
type Layout struct {
	Start        string                  `yaml:"start"`
	Compartments map[string]*Compartment `yaml:"compartments"`

	index map[string]string
}

// Default returns the built-in ship layout.
func Default() *Layout {
	l, err := Parse(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("embedded ship layout is invalid: %v", err))
	}
	return l
}

// LoadFile reads and parses a layout file.
func LoadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML layout.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if len(l.Compartments) == 0 {
		return nil, fmt.Errorf("layout has no compartments")
	}
	if _, ok := l.Compartments[l.Start]; !ok {
		return nil, fmt.Errorf("start compartment %q is not defined", l.Start)
	}

	l.index = make(map[string]string)
	for _, id := range l.IDs() {
		c := l.Compartments[id]
		if c == nil {
			return nil, fmt.Errorf("compartment %q is empty", id)
		}
		c.ID = id
		for _, exit := range c.Exits {
			if _, ok := l.Compartments[exit]; !ok {
				return nil, fmt.Errorf("compartment %q has exit to unknown compartment %q", id, exit)
			}
		}
		keys := append([]string{id, c.Name, c.Shorthand}, c.Aliases...)
		for _, k := range keys {
			k = normalize(k)
			if k == "" {
				continue
			}
			if other, dup := l.index[k]; dup && other != id {
				return nil, fmt.Errorf("name %q is used by both %q and %q", k, other, id)
			}
			l.index[k] = id
		}
	}
	return &l, nil
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// IDs returns the compartment IDs, sorted.
func (l *Layout) IDs() []string {
	ids := make([]string, 0, len(l.Compartments))
	for id := range l.Compartments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Compartment returns a compartment by ID.
func (l *Layout) Compartment(id string) (*Compartment, bool) {
	c, ok := l.Compartments[id]
	return c, ok
}

// Resolve maps a player-typed destination (ID, name, shorthand or alias) to
// a compartment ID.
func (l *Layout) Resolve(input string) (string, bool) {
	id, ok := l.index[normalize(input)]
	return id, ok
}

// CanMove reports whether a passage leads from one compartment to another.
func (l *Layout) CanMove(from, to string) bool {
	c, ok := l.Compartments[from]
	if !ok {
		return false
	}
	for _, exit := range c.Exits {
		if exit == to {
			return true
		}
	}
	return false
}

// Exits returns the compartments reachable from id.
func (l *Layout) Exits(id string) []*Compartment {
	c, ok := l.Compartments[id]
	if !ok {
		return nil
	}
	exits := make([]*Compartment, 0, len(c.Exits))
	for _, e := range c.Exits {
		exits = append(exits, l.Compartments[e])
	}
	return exits
}
