package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/generator"
	"github.com/toyz/dendrite/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	diagnostics *utils.DiagnosticSystem
}

// NewCleaner creates a new cleaner
func NewCleaner(diagnostics *utils.DiagnosticSystem) *Cleaner {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Cleaner{diagnostics: diagnostics}
}

// CleanGeneratedFiles removes every generated file under the given
// patterns and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(patterns []string, dryRun bool) ([]string, error) {
	var removed []string

	for _, pattern := range patterns {
		base, recursive := splitPattern(pattern)
		var err error
		if recursive {
			err = c.cleanRecursively(base, dryRun, &removed)
		} else {
			err = c.cleanSingleDirectory(base, dryRun, &removed)
		}
		if err != nil {
			return removed, fmt.Errorf("failed to clean directory %s: %w", base, err)
		}
	}

	return removed, nil
}

func (c *Cleaner) cleanRecursively(baseDir string, dryRun bool, removed *[]string) error {
	return filepath.WalkDir(baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != baseDir && utils.SkipDirectory(d.Name()) {
			return filepath.SkipDir
		}
		return c.cleanSingleDirectory(path, dryRun, removed)
	})
}

func (c *Cleaner) cleanSingleDirectory(dir string, dryRun bool, removed *[]string) error {
	target := filepath.Join(dir, generator.GeneratedFileName)

	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapFileSystemError("check", target, err)
	}

	if dryRun {
		c.diagnostics.Item("would remove %s", target)
	} else {
		if err := os.Remove(target); err != nil {
			return errors.WrapFileSystemError("remove", target, err)
		}
		c.diagnostics.Item("removed %s", target)
	}

	*removed = append(*removed, target)
	return nil
}
