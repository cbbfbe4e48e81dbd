package command

import (
	"sort"
	"strings"
)

// Registry maps every canonical name and alias to its command. It is built
// once and read-only afterwards.
type Registry struct {
	byName   map[string]*Command
	commands []*Command
}

// NewRegistry registers commands in order. When two commands claim the same
// name or alias the later one wins.
func NewRegistry(commands ...Command) *Registry {
	r := &Registry{byName: make(map[string]*Command)}
	for i := range commands {
		cmd := commands[i]
		c := &cmd
		r.commands = append(r.commands, c)
		r.byName[normalize(c.Name)] = c
		for _, a := range c.Aliases {
			if k := normalize(a); k != "" {
				r.byName[k] = c
			}
		}
	}
	return r
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Lookup resolves a verb to its command.
func (r *Registry) Lookup(verb string) (*Command, bool) {
	c, ok := r.byName[normalize(verb)]
	return c, ok
}

// Commands returns the commands in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Names returns every registered lookup key, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for k := range r.byName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Reachable reports whether c still answers to its canonical name or at
// least one alias after collisions were resolved.
func (r *Registry) Reachable(c *Command) bool {
	for _, k := range append([]string{c.Name}, c.Aliases...) {
		if r.byName[normalize(k)] == c {
			return true
		}
	}
	return false
}
