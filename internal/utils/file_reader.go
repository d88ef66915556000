package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
)

// FileReader reads and parses files, caching results until the file changes
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *Cache[string, *ast.File]
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewCache[string, *ast.File](),
		contentCache: NewCache[string, string](),
	}
}

// FileSet returns the token.FileSet positions are recorded in
func (fr *FileReader) FileSet() *token.FileSet {
	return fr.fileSet
}

// ParseGoFile parses a Go source file with comments
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath := filepath.Clean(filePath)
	if cached, ok := fr.astCache.Get(cleanPath, cleanPath); ok {
		return cached, nil
	}

	file, err := parser.ParseFile(fr.fileSet, cleanPath, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go file %s: %w", filepath.Base(cleanPath), err)
	}
	fr.astCache.Set(cleanPath, file, cleanPath)
	return file, nil
}

// ParseGoSource parses Go source code from a string
func (fr *FileReader) ParseGoSource(filename, source string) (*ast.File, error) {
	file, err := parser.ParseFile(fr.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go source: %w", err)
	}
	return file, nil
}

// ReadFile reads a file and returns its contents
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath := filepath.Clean(filePath)
	if cached, ok := fr.contentCache.Get(cleanPath, cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}
	fr.contentCache.Set(cleanPath, string(content), cleanPath)
	return string(content), nil
}
