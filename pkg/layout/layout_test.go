package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	l := Default()
	assert.Equal(t, "cryoBay", l.Start)
	assert.Equal(t, []string{"bridge", "cargoHold", "cryoBay", "engineering"}, l.IDs())

	c, ok := l.Compartment("cargoHold")
	require.True(t, ok)
	assert.True(t, c.HasNPC("Briggs"))
	assert.Equal(t, "Cargo Hold", c.Title())
	assert.Equal(t, []string{"crates", "locker"}, c.InspectableNames())
}

func TestLayout_Resolve(t *testing.T) {
	l := Default()
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"engineering", "engineering", true},
		{"E", "engineering", true},
		{"engine", "engineering", true},
		{"cryo", "cryoBay", true},
		{"Cryo-Bay", "cryoBay", true},
		{"c", "cryoBay", true},
		{"C", "cryoBay", true},
		{"k", "", false},
		{"command", "bridge", true},
		{"cargo hold", "cargoHold", true},
		{"hold", "cargoHold", true},
		{"g", "cargoHold", true},
		{"G", "cargoHold", true},
		{"airlock", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, ok := l.Resolve(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestLayout_CanMove(t *testing.T) {
	l := Default()
	edges := map[string][]string{
		"cryoBay":     {"engineering", "bridge", "cargoHold"},
		"engineering": {"cryoBay", "cargoHold"},
		"bridge":      {"cryoBay"},
		"cargoHold":   {"cryoBay", "engineering"},
	}
	for from, tos := range edges {
		for _, to := range l.IDs() {
			want := false
			for _, e := range tos {
				if e == to {
					want = true
				}
			}
			assert.Equal(t, want, l.CanMove(from, to), "%s -> %s", from, to)
		}
		assert.Len(t, l.Exits(from), len(tos))
	}
	assert.False(t, l.CanMove("airlock", "bridge"))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "start: [unclosed"},
		{"no compartments", "start: a\n"},
		{"unknown start", "start: z\ncompartments:\n  a:\n    name: A\n    exits: []\n"},
		{"dangling exit", "start: a\ncompartments:\n  a:\n    name: A\n    exits: [b]\n"},
		{"duplicate alias", "start: a\ncompartments:\n  a:\n    name: A\n    aliases: [x]\n  b:\n    name: B\n    aliases: [x]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	data := "start: a\ncompartments:\n  a:\n    name: Airlock\n    shorthand: a\n    exits: [b]\n  b:\n    name: Bay\n    exits: [a]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	l, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, l.IDs())
	assert.True(t, l.CanMove("a", "b"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
