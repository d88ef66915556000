// Package parser extracts annotated command types from Go source.
//
// A struct annotated with //dendrite::command(...) is a leaf command. A
// struct annotated with //dendrite::group(...) is a command group whose
// pointer fields are its members:
//
//	//dendrite::group(name = "myapp", SubcommandRequiredElseHelp)
//	type MyApp struct {
//		//dendrite::variant(name = "foo")
//		Foo *Foo
//		Version *struct{}
//	}
package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/mod/module"

	"github.com/toyz/dendrite/internal/annotations"
	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/utils"
)

// Directives recognized after the dendrite:: prefix
const (
	DirectiveCommand = "command"
	DirectiveGroup   = "group"
	DirectiveVariant = "variant"
)

// Parser extracts type definitions from Go packages
type Parser struct {
	processor *utils.FileProcessor
	skipFiles []string
}

// NewParser creates a new parser
func NewParser() *Parser {
	return &Parser{processor: utils.NewFileProcessor()}
}

// SetSkipFiles names files that ParseDirectory ignores, such as earlier generated output
func (p *Parser) SetSkipFiles(names ...string) {
	p.skipFiles = names
}

// ParseSource parses a single file's source, mainly for tests
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := p.processor.Reader().ParseGoSource(filename, source)
	if err != nil {
		return nil, err
	}
	return p.buildMetadata(file.Name.Name, "./", map[string]*ast.File{filename: file})
}

// ParseDirectory parses every source file of the package in dir
func (p *Parser) ParseDirectory(dir string) (*models.PackageMetadata, error) {
	files, packageName, err := p.processor.ParseDirectory(dir, p.skipFiles...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Go packages found in directory %s", dir)
	}
	return p.buildMetadata(packageName, dir, files)
}

func (p *Parser) buildMetadata(packageName, dir string, files map[string]*ast.File) (*models.PackageMetadata, error) {
	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: dir,
		Imports:     make(map[string]string),
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := errors.NewMultipleErrors()
	for _, name := range names {
		file := files[name]
		metadata.Declared = append(metadata.Declared, declaredTypes(file)...)

		defs, fileErrs := p.ExtractTypes(file)
		for _, e := range fileErrs {
			errs.Add(e)
		}
		for _, def := range defs {
			for _, m := range def.Members {
				for _, f := range m.Fields {
					if f.ImportPath == "" {
						continue
					}
					qualifier := strings.SplitN(f.Type, ".", 2)[0]
					if previous, ok := metadata.Imports[qualifier]; ok && previous != f.ImportPath {
						errs.Add(errors.NewImportConflict(def.Name, m.Name, qualifier, f.ImportPath, previous).WithLocation(m.Loc))
						continue
					}
					metadata.Imports[qualifier] = f.ImportPath
				}
			}
		}
		metadata.Types = append(metadata.Types, defs...)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return metadata, nil
}

// ExtractTypes returns the annotated types declared in file
func (p *Parser) ExtractTypes(file *ast.File) ([]models.TypeDefinition, []errors.DendriteError) {
	var defs []models.TypeDefinition
	var errs []errors.DendriteError
	imports := fileImports(file)

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}

			def, annotated, err := p.extractType(ts, doc, imports)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if annotated {
				defs = append(defs, def)
			}
		}
	}

	return defs, errs
}

func (p *Parser) extractType(ts *ast.TypeSpec, doc *ast.CommentGroup, imports map[string]string) (models.TypeDefinition, bool, errors.DendriteError) {
	name := ts.Name.Name
	def := models.TypeDefinition{Name: name, Loc: p.location(ts.Pos())}

	var directive string
	blocks, err := p.directiveBlocks(name, doc, func(d string) error {
		switch d {
		case DirectiveCommand, DirectiveGroup:
			if directive != "" && directive != d {
				return errors.NewConflictingDirectives(name).WithLocation(def.Loc)
			}
			directive = d
			return nil
		case "":
			return nil
		default:
			return fmt.Errorf("unknown directive %q on a type, expected %s or %s", d, DirectiveCommand, DirectiveGroup)
		}
	})
	if err != nil {
		return def, false, err
	}
	if directive == "" {
		return def, false, nil
	}
	def.Annotations = blocks

	st, isStruct := ts.Type.(*ast.StructType)
	switch {
	case ts.Assign != 0 || !isStruct:
		def.Kind = models.KindOther
	case directive == DirectiveCommand:
		def.Kind = models.KindRecord
		def.Fields = recordFields(st, imports)
	default:
		def.Kind = models.KindUnion
		members, err := p.extractMembers(name, st, imports)
		if err != nil {
			return def, false, err
		}
		def.Members = members
	}

	return def, true, nil
}

func (p *Parser) extractMembers(owner string, st *ast.StructType, imports map[string]string) ([]models.MemberDefinition, errors.DendriteError) {
	var members []models.MemberDefinition

	for _, field := range st.Fields.List {
		loc := p.location(field.Pos())
		if len(field.Names) == 0 {
			return nil, errors.NewUnsupportedMemberShape(owner, types.ExprString(field.Type), "embedded fields cannot be members").WithLocation(loc)
		}

		var blocks []models.AnnotationBlock
		for _, group := range []*ast.CommentGroup{field.Doc, field.Comment} {
			b, err := p.directiveBlocks(field.Names[0].Name, group, func(d string) error {
				if d != DirectiveVariant && d != "" {
					return fmt.Errorf("unknown directive %q on a member, expected %s", d, DirectiveVariant)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, b...)
		}

		fields, err := memberFields(owner, field, imports)
		if err != nil {
			return nil, err.WithLocation(loc)
		}

		for _, ident := range field.Names {
			members = append(members, models.MemberDefinition{
				Name:        ident.Name,
				Annotations: blocks,
				Fields:      fields,
				Loc:         p.location(ident.Pos()),
			})
		}
	}

	return members, nil
}

// memberFields maps a member field type onto payload slots:
// *T is one payload, *struct{} none, and *struct{...} one slot per field
func memberFields(owner string, field *ast.Field, imports map[string]string) ([]models.FieldDefinition, *errors.SchemaError) {
	member := field.Names[0].Name
	star, ok := field.Type.(*ast.StarExpr)
	if !ok {
		return nil, errors.NewUnsupportedMemberShape(owner, member, "member fields must be pointers, e.g. *"+types.ExprString(field.Type))
	}

	switch x := star.X.(type) {
	case *ast.Ident:
		return []models.FieldDefinition{{Type: x.Name}}, nil
	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if !ok {
			break
		}
		return []models.FieldDefinition{{Type: pkg.Name + "." + x.Sel.Name, ImportPath: imports[pkg.Name]}}, nil
	case *ast.StructType:
		var fields []models.FieldDefinition
		for _, f := range x.Fields.List {
			fields = append(fields, fieldDefinitions(f, imports)...)
		}
		if len(fields) == 1 {
			return nil, errors.NewUnsupportedMemberShape(owner, member, "wrap a named type instead of an inline struct")
		}
		return fields, nil
	}

	return nil, errors.NewUnsupportedMemberShape(owner, member, "unsupported payload type "+types.ExprString(star.X))
}

func recordFields(st *ast.StructType, imports map[string]string) []models.FieldDefinition {
	var fields []models.FieldDefinition
	for _, f := range st.Fields.List {
		fields = append(fields, fieldDefinitions(f, imports)...)
	}
	return fields
}

func fieldDefinitions(f *ast.Field, imports map[string]string) []models.FieldDefinition {
	typ := types.ExprString(f.Type)
	importPath := ""
	if sel, ok := f.Type.(*ast.SelectorExpr); ok {
		if pkg, ok := sel.X.(*ast.Ident); ok {
			importPath = imports[pkg.Name]
		}
	}
	if len(f.Names) == 0 {
		return []models.FieldDefinition{{Type: typ, ImportPath: importPath}}
	}
	out := make([]models.FieldDefinition, 0, len(f.Names))
	for _, n := range f.Names {
		out = append(out, models.FieldDefinition{Name: n.Name, Type: typ, ImportPath: importPath})
	}
	return out
}

// directiveBlocks collects the dendrite blocks of a comment group in order.
// check is called with each block's directive.
func (p *Parser) directiveBlocks(owner string, group *ast.CommentGroup, check func(directive string) error) ([]models.AnnotationBlock, errors.DendriteError) {
	if group == nil {
		return nil, nil
	}

	var blocks []models.AnnotationBlock
	for _, c := range group.List {
		if !strings.HasPrefix(c.Text, "//") {
			continue
		}
		body := c.Text[2:]
		text := strings.TrimLeft(body, " \t")
		if !strings.HasPrefix(text, annotations.Prefix) {
			continue
		}

		loc := p.location(c.Pos())
		loc.Column += 2 + len(body) - len(text)
		ab := models.AnnotationBlock{Text: text, Loc: loc}

		parsed, err := annotations.ParseBlock(owner, ab)
		if err != nil {
			if de, ok := err.(errors.DendriteError); ok {
				return nil, de
			}
			return nil, errors.NewMalformedAttribute(owner, err).WithLocation(loc)
		}
		if parsed == nil {
			continue
		}
		if err := check(parsed.Directive()); err != nil {
			if de, ok := err.(errors.DendriteError); ok {
				return nil, de
			}
			return nil, errors.NewMalformedAttribute(owner, err).WithLocation(loc)
		}
		blocks = append(blocks, ab)
	}
	return blocks, nil
}

func (p *Parser) location(pos token.Pos) errors.SourceLocation {
	position := p.processor.Reader().FileSet().Position(pos)
	return errors.SourceLocation{File: position.Filename, Line: position.Line, Column: position.Column}
}

func declaredTypes(file *ast.File) []string {
	var names []string
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			names = append(names, spec.(*ast.TypeSpec).Name.Name)
		}
	}
	return names
}

func fileImports(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := importName(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		imports[name] = importPath
	}
	return imports
}

// importName guesses the package name of an import path the way goimports does
func importName(importPath string) string {
	prefix, _, ok := module.SplitPathVersion(importPath)
	if !ok {
		prefix = importPath
	}
	base := path.Base(prefix)
	if i := strings.IndexAny(base, ".-"); i >= 0 && strings.HasPrefix(base, "go-") {
		base = base[3:]
	} else if i >= 0 {
		base = base[:i]
	}
	return base
}
