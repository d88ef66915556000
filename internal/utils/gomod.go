package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a new go.mod parser with caching
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{fileReader: fileReader}
}

// ParseModuleName extracts the module path from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.ParseLax(cleanPath, []byte(content), nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}
	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in go.mod")
	}

	return modFile.Module.Mod.Path, nil
}

// FindGoModFile searches for go.mod starting from startDir and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if content, err := p.fileReader.ReadFile(goModPath); err == nil && content != "" {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found")
}

// CommandNameFromModule derives a command name from a module path: the
// last path element, without a major version suffix
func CommandNameFromModule(modulePath string) string {
	prefix, _, ok := module.SplitPathVersion(modulePath)
	if !ok {
		prefix = modulePath
	}
	return strings.ToLower(path.Base(strings.TrimSuffix(prefix, "/")))
}
