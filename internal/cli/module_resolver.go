package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/dendrite/internal/schema"
	"github.com/toyz/dendrite/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser(utils.NewFileReader())}
}

// ResolveModuleName returns customModule when set, otherwise the module
// path of the go.mod file at or above startDir
func (r *ModuleResolver) ResolveModuleName(customModule, startDir string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		startDir = wd
	}

	goModPath, err := r.goMod.FindGoModFile(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}
	return r.goMod.ParseModuleName(goModPath)
}

// Fallback returns the name and description given to top-level commands
// that declare neither. The name defaults to the module's last element.
func (r *ModuleResolver) Fallback(cfg *Config, moduleName string) schema.Fallback {
	name := cfg.Name
	if name == "" {
		name = utils.CommandNameFromModule(moduleName)
	}
	return schema.Fallback{PackageName: name, PackageDescription: cfg.Description}
}

// BuildPackagePath builds the full import path for a package directory
// relative to the directory holding go.mod
func (r *ModuleResolver) BuildPackagePath(moduleName, moduleRoot, packageDir string) (string, error) {
	absRoot, err := filepath.Abs(moduleRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve module root: %w", err)
	}
	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(absRoot, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == "." {
		return moduleName, nil
	}
	return moduleName + "/" + importPath, nil
}
