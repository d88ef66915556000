// Package cli implements the dendrite commands: generating command
// methods for annotated packages, cleaning generated files, inspecting
// schema documents and serving the schema host.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/generator"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/parser"
	"github.com/toyz/dendrite/internal/utils"
)

// GenerationSummary describes one generate run
type GenerationSummary struct {
	PackagesScanned   int
	PackagesGenerated int
	TypesGenerated    int
	GeneratedFiles    []string
	RemovedFiles      []string
	Duration          time.Duration
}

// Generator coordinates scanning, parsing, generating and writing
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         *parser.Parser
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// NewGenerator creates a CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	p := parser.NewParser()
	p.SetSkipFiles(generator.GeneratedFileName)
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		parser:         p,
		diagnostics:    diagnostics,
	}
}

// Summary returns the summary of the last run
func (g *Generator) Summary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process. Every package is parsed
// and generated before anything is written, so a failure in one package
// leaves all files untouched.
func (g *Generator) Run(cfg *Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}

	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning directories: %v", cfg.Directories)

	packageDirs, err := g.scanner.ScanDirectories(cfg.Directories)
	if err != nil {
		return err
	}
	if len(packageDirs) == 0 {
		return errors.New(errors.FileSystemErrorCode, "no Go packages found in specified directories").
			WithContext("directories", cfg.Directories).
			WithSuggestion("Try scanning parent directories or use the './...' pattern")
	}
	g.summary.PackagesScanned = len(packageDirs)

	moduleName, err := g.moduleResolver.ResolveModuleName(cfg.ModuleName, packageDirs[0])
	if err != nil && cfg.Name == "" {
		return errors.WrapConfigurationError("module", "resolve", err).
			WithSuggestion("Check your go.mod file exists and is valid").
			WithSuggestion("Try specifying --module or --name explicitly")
	}
	fallback := g.moduleResolver.Fallback(cfg, moduleName)
	g.diagnostics.Debug("Resolved module name: %s (command name %s)", moduleName, fallback.PackageName)

	g.diagnostics.Info("Found %d packages to process", len(packageDirs))
	g.diagnostics.Indent()
	for _, dir := range packageDirs {
		g.diagnostics.List("%s", dir)
	}
	g.diagnostics.Unindent()

	codeGenerator := generator.NewGenerator(fallback)
	errs := errors.NewMultipleErrors()
	var files []*models.GeneratedFile
	var stale []string

	for _, dir := range packageDirs {
		metadata, err := g.parser.ParseDirectory(dir)
		if err != nil {
			collect(errs, "parse package", dir, err)
			continue
		}

		file, err := codeGenerator.GeneratePackage(metadata)
		if err != nil {
			collect(errs, "generate package", dir, err)
			continue
		}
		if file == nil {
			g.diagnostics.Verbose("Skipping package %s (no annotated types)", metadata.PackageName)
			if existing := filepath.Join(dir, generator.GeneratedFileName); fileExists(existing) {
				stale = append(stale, existing)
			}
			continue
		}
		files = append(files, file)
	}

	if !errs.IsEmpty() {
		return errs
	}

	for _, file := range files {
		if err := g.write(file, cfg.DryRun); err != nil {
			return err
		}
		g.summary.PackagesGenerated++
		g.summary.TypesGenerated += len(file.Types)
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	}

	for _, path := range stale {
		if !cfg.DryRun {
			if err := os.Remove(path); err != nil {
				return errors.WrapFileSystemError("remove", path, err)
			}
		}
		g.diagnostics.Item("removed stale %s", path)
		g.summary.RemovedFiles = append(g.summary.RemovedFiles, path)
	}

	g.summary.Duration = time.Since(startTime)
	g.diagnostics.Summary("Generation summary", map[string]interface{}{
		"packages scanned":    g.summary.PackagesScanned,
		"packages generated":  g.summary.PackagesGenerated,
		"types generated":     g.summary.TypesGenerated,
		"stale files removed": len(g.summary.RemovedFiles),
		"duration":            g.summary.Duration.Round(time.Millisecond),
	})
	return nil
}

func (g *Generator) write(file *models.GeneratedFile, dryRun bool) error {
	if dryRun {
		g.diagnostics.Info("would write %s (%d types)", file.FilePath, len(file.Types))
		g.diagnostics.Debug("%s", file.Content)
		return nil
	}

	g.diagnostics.Writing(file.FilePath)
	if err := os.MkdirAll(filepath.Dir(file.FilePath), 0o755); err != nil {
		return errors.WrapFileSystemError("create directory for", file.FilePath, err)
	}
	if err := os.WriteFile(file.FilePath, []byte(file.Content), 0o644); err != nil {
		return errors.WrapFileSystemError("write", file.FilePath, err)
	}
	return nil
}

// collect adds err to errs, flattening collections and wrapping plain errors
func collect(errs *errors.MultipleErrors, operation, item string, err error) {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		for _, e := range multi.Errors {
			errs.Add(e)
		}
		return
	}
	var de errors.DendriteError
	if stderrors.As(err, &de) {
		errs.Add(de)
		return
	}
	errs.Add(errors.WrapWithOperation(operation, item, err))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s GenerationSummary) String() string {
	return fmt.Sprintf("%d packages scanned, %d generated, %d types", s.PackagesScanned, s.PackagesGenerated, s.TypesGenerated)
}
