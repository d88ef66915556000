package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/utils"
)

// DirectoryScanner finds the package directories named by CLI arguments
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanDirectories returns the directories holding Go files. A pattern with
// a "/..." suffix is scanned recursively; any other pattern names a single
// directory.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pattern := range patterns {
		base, recursive := splitPattern(pattern)
		cleanPath, err := filepath.Abs(base)
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", base), err)
		}

		if recursive {
			found, err := s.fileProcessor.ScanDirectories([]string{cleanPath})
			if err != nil {
				return nil, errors.WrapFileSystemError("scan", cleanPath, err)
			}
			for _, dir := range found {
				add(dir)
			}
			continue
		}

		ok, err := s.fileProcessor.HasGoFiles(cleanPath)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", cleanPath, err)
		}
		if ok {
			add(cleanPath)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// splitPattern strips a Go-style "/..." suffix
func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if strings.HasSuffix(pattern, "/...") {
		base := strings.TrimSuffix(pattern, "/...")
		if base == "" {
			base = "."
		}
		return base, true
	}
	return pattern, false
}
