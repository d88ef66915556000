package utils

import (
	"fmt"
	"go/parser"
	"go/token"

	"golang.org/x/tools/imports"
)

// FormatGoCode formats generated source and fixes its import block
func FormatGoCode(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		if parseErr := ValidateGoCode(string(source)); parseErr != nil {
			return source, fmt.Errorf("invalid Go syntax: %w", parseErr)
		}
		return source, err
	}
	return formatted, nil
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}
