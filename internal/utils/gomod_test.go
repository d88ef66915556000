package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoModParser(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/tools/mytool/v2\n\ngo 1.25\n"), 0644))
	nested := filepath.Join(root, "internal", "cmd")
	require.NoError(t, os.MkdirAll(nested, 0755))

	p := NewGoModParser(NewFileReader())

	goMod, err := p.FindGoModFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "go.mod"), goMod)

	name, err := p.ParseModuleName(goMod)
	require.NoError(t, err)
	assert.Equal(t, "example.com/tools/mytool/v2", name)

	_, err = p.ParseModuleName(filepath.Join(root, "main.go"))
	assert.Error(t, err)
}

func TestCommandNameFromModule(t *testing.T) {
	tests := map[string]string{
		"github.com/toyz/dendrite":    "dendrite",
		"example.com/tools/MyTool/v2": "mytool",
		"myapp":                       "myapp",
		"gopkg.in/yaml.v3":            "yaml",
	}
	for in, want := range tests {
		assert.Equal(t, want, CommandNameFromModule(in), in)
	}
}
