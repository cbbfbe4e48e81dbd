package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_BuiltInLayout(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "pkg", "layout", "ship.yaml"))
	require.NoError(t, err)

	v := &LayoutValidator{}
	assert.NoError(t, v.validate(data, "ship.yaml"))
	assert.Empty(t, v.errors)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "unknown field",
			data: "start: a\ncompartments:\n  a:\n    name: A\n    description: d\n    exitz: []\n",
		},
		{
			name: "unreachable compartment",
			data: "start: a\ncompartments:\n  a:\n    name: A\n    description: d\n    exits: []\n  b:\n    name: B\n    description: d\n    exits: [a]\n",
		},
		{
			name: "long shorthand",
			data: "start: a\ncompartments:\n  a:\n    name: A\n    shorthand: aa\n    description: d\n    exits: []\n",
		},
		{
			name: "bad id",
			data: "start: cargo_hold\ncompartments:\n  cargo_hold:\n    name: A\n    description: d\n    exits: []\n",
		},
		{
			name: "missing description",
			data: "start: a\ncompartments:\n  a:\n    name: A\n    exits: []\n",
		},
		{
			name: "dangling exit",
			data: "start: a\ncompartments:\n  a:\n    name: A\n    description: d\n    exits: [z]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &LayoutValidator{}
			assert.Error(t, v.validate([]byte(tt.data), tt.name+".yaml"))
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	v := &LayoutValidator{}
	data := "start: a\ncompartments:\n  a:\n    name: A\n    description: d\n    exits: []\n"
	require.NoError(t, v.validate([]byte(data), "tiny.yaml"))
	assert.Len(t, v.warnings, 2)
}

func TestValidateFile_Extension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ship.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	v := &LayoutValidator{}
	assert.Error(t, v.validateFile(path))
}
