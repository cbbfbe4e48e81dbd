package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/great-transit/pkg/layout"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <layout.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &LayoutValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	for _, w := range validator.warnings {
		fmt.Println("warning:" + strings.TrimPrefix(w, "  -"))
	}

	fmt.Println("Layout file is valid!")
}

type LayoutValidator struct {
	errors   []string
	warnings []string
}

func (v *LayoutValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	ext := filepath.Ext(filename)
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("layout file must have .yaml extension: %s", filepath.Base(filename))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return v.validate(data, filename)
}

func (v *LayoutValidator) validate(data []byte, filename string) error {
	v.errors = nil
	v.warnings = nil

	// Strict decode first so misspelled keys are reported instead of
	// silently dropped.
	var raw layout.Layout
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("file %s failed strict YAML unmarshaling: %w", filename, err)
	}

	l, err := layout.Parse(data)
	if err != nil {
		return fmt.Errorf("file %s is not a valid layout: %w", filename, err)
	}
	v.validateLayout(l)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *LayoutValidator) validateLayout(l *layout.Layout) {
	shorthands := make(map[string]string)
	for _, id := range l.IDs() {
		c, _ := l.Compartment(id)
		v.validateIDFormat("compartment ID", id)

		if strings.TrimSpace(c.Name) == "" {
			v.addError(fmt.Sprintf("compartment %s has no name", id))
		}
		if strings.TrimSpace(c.Description) == "" {
			v.addError(fmt.Sprintf("compartment %s has no description", id))
		}
		switch {
		case c.Shorthand == "":
			v.addWarning(fmt.Sprintf("compartment %s has no shorthand", id))
		case len([]rune(c.Shorthand)) != 1:
			v.addError(fmt.Sprintf("compartment %s shorthand '%s' should be a single letter", id, c.Shorthand))
		default:
			shorthands[c.Shorthand] = id
		}

		if len(c.Exits) == 0 {
			v.addWarning(fmt.Sprintf("compartment %s has no exits", id))
		}
		seen := make(map[string]bool)
		for _, exit := range c.Exits {
			if exit == id {
				v.addError(fmt.Sprintf("compartment %s has an exit to itself", id))
			}
			if seen[exit] {
				v.addError(fmt.Sprintf("compartment %s lists exit %s twice", id, exit))
			}
			seen[exit] = true
		}

		for name := range c.Inspectables {
			if name != strings.ToLower(name) {
				v.addError(fmt.Sprintf("inspectable '%s' in %s should be lowercase", name, id))
			}
		}
		for _, npc := range c.NPCs {
			v.validateIDFormat("NPC ID", npc)
		}
	}

	for _, id := range unreachable(l) {
		v.addError(fmt.Sprintf("compartment %s cannot be reached from %s", id, l.Start))
	}
}

// unreachable lists compartments no path from the start leads to.
func unreachable(l *layout.Layout) []string {
	seen := map[string]bool{l.Start: true}
	queue := []string{l.Start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range l.Exits(id) {
			if !seen[c.ID] {
				seen[c.ID] = true
				queue = append(queue, c.ID)
			}
		}
	}

	var missing []string
	for _, id := range l.IDs() {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

func (v *LayoutValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !validIDRegex.MatchString(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowerCamelCase", fieldName, id))
	}
}

func (v *LayoutValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *LayoutValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
