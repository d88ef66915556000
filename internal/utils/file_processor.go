package utils

import (
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileProcessor finds and parses Go package directories
type FileProcessor struct {
	reader *FileReader
}

// NewFileProcessor creates a new file processor with its own reader
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{reader: NewFileReader()}
}

// Reader returns the underlying file reader
func (fp *FileProcessor) Reader() *FileReader {
	return fp.reader
}

// SkipDirectory reports whether a directory is never scanned: hidden
// directories, directories starting with an underscore, vendor and testdata
func SkipDirectory(name string) bool {
	if name == "vendor" || name == "testdata" {
		return true
	}
	return len(name) > 1 && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_"))
}

// IsSourceFile reports whether a file name is non-test Go source
func IsSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

// ScanDirectories returns every directory at or below roots that contains
// Go source files, sorted and without duplicates
func (fp *FileProcessor) ScanDirectories(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && (SkipDirectory(d.Name()) || isModuleRoot(path)) {
				return filepath.SkipDir
			}
			ok, err := fp.HasGoFiles(path)
			if err != nil {
				return err
			}
			if ok && !seen[path] {
				seen[path] = true
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// isModuleRoot reports whether dir holds its own go.mod. Nested modules
// are scanned separately, as the go command does for ./...
func isModuleRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil
}

// HasGoFiles reports whether dir directly contains Go source files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if !e.IsDir() && IsSourceFile(e.Name()) {
			return true, nil
		}
	}
	return false, nil
}

// ParseDirectory parses the Go source files of one package directory,
// skipping the named files. It returns the files by path and the package name.
func (fp *FileProcessor) ParseDirectory(dir string, skip ...string) (map[string]*ast.File, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}

	files := make(map[string]*ast.File)
	var packageName string
	for _, e := range entries {
		if e.IsDir() || !IsSourceFile(e.Name()) || skipped[e.Name()] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		file, err := fp.reader.ParseGoFile(path)
		if err != nil {
			return nil, "", err
		}
		if packageName == "" {
			packageName = file.Name.Name
		} else if file.Name.Name != packageName {
			return nil, "", fmt.Errorf("multiple packages in %s: %s and %s", dir, packageName, file.Name.Name)
		}
		files[path] = file
	}

	return files, packageName, nil
}
