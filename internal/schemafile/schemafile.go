// Package schemafile reads command schemas from YAML documents:
//
//	package:
//	  name: myapp
//	  description: an example
//	root: MyApp
//	types:
//	  - name: MyApp
//	    kind: union
//	    attrs: ['name = "myapp"', VersionlessSubcommands]
//	    members:
//	      - name: Foo
//	        attrs: ['name = "foo"']
//	        payload: Foo
//	  - name: Foo
//	    kind: record
package schemafile

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/toyz/dendrite/internal/annotations"
	"github.com/toyz/dendrite/internal/engine"
	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/schema"
)

// Document is a YAML schema document
type Document struct {
	Package PackageInfo `yaml:"package"`
	Root    string      `yaml:"root,omitempty"`
	Types   []TypeSpec  `yaml:"types"`

	filename string
	file     *ast.File
}

// PackageInfo supplies fallback names and descriptions
type PackageInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// TypeSpec describes one type
type TypeSpec struct {
	Name    string       `yaml:"name"`
	Kind    string       `yaml:"kind"`
	Attrs   []string     `yaml:"attrs,omitempty"`
	Fields  []string     `yaml:"fields,omitempty"`
	Members []MemberSpec `yaml:"members,omitempty"`
}

// MemberSpec describes one member of a union
type MemberSpec struct {
	Name    string   `yaml:"name"`
	Attrs   []string `yaml:"attrs,omitempty"`
	Payload string   `yaml:"payload,omitempty"`
	Fields  []string `yaml:"fields,omitempty"`
}

// Load reads and parses a schema file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return Parse(path, data)
}

// Parse parses a schema document. Unknown fields are rejected.
func Parse(filename string, data []byte) (*Document, error) {
	var doc Document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, fmt.Sprintf("invalid schema document %s", filename), err).
			WithSuggestion("check the document against the package documentation of schemafile")
	}
	if len(doc.Types) == 0 {
		return nil, errors.Newf(errors.ConfigurationErrorCode, "schema document %s declares no types", filename)
	}

	doc.filename = filename
	if file, err := parser.ParseBytes(data, 0); err == nil {
		doc.file = file
	}
	return &doc, nil
}

// RootType returns the configured root or the first type
func (d *Document) RootType() string {
	if d.Root != "" {
		return d.Root
	}
	return d.Types[0].Name
}

// Fallback returns the package fallbacks
func (d *Document) Fallback() schema.Fallback {
	return schema.Fallback{PackageName: d.Package.Name, PackageDescription: d.Package.Description}
}

// Definitions converts the document into front-end neutral type definitions
func (d *Document) Definitions() []models.TypeDefinition {
	defs := make([]models.TypeDefinition, 0, len(d.Types))
	for i, ts := range d.Types {
		typePath := fmt.Sprintf("$.types[%d]", i)
		def := models.TypeDefinition{
			Name:        ts.Name,
			Kind:        kindOf(ts.Kind),
			Annotations: d.blocks(ts.Attrs, typePath+".attrs"),
			Fields:      fieldsOf(ts.Fields),
			Loc:         d.location(typePath),
		}
		for j, ms := range ts.Members {
			memberPath := fmt.Sprintf("%s.members[%d]", typePath, j)
			fields := fieldsOf(ms.Fields)
			if ms.Payload != "" {
				fields = append([]models.FieldDefinition{{Type: ms.Payload}}, fields...)
			}
			def.Members = append(def.Members, models.MemberDefinition{
				Name:        ms.Name,
				Annotations: d.blocks(ms.Attrs, memberPath+".attrs"),
				Fields:      fields,
				Loc:         d.location(memberPath),
			})
		}
		defs = append(defs, def)
	}
	return defs
}

// Compile builds the schema nodes and compiles them into an engine
func (d *Document) Compile() (*engine.Engine, error) {
	nodes, err := schema.BuildAll(d.Definitions())
	if err != nil {
		return nil, err
	}
	e := engine.New(d.Fallback())
	if err := e.Compile(nodes); err != nil {
		return nil, err
	}
	if _, ok := e.Lookup(d.RootType()); !ok {
		return nil, errors.Newf(errors.ConfigurationErrorCode, "root type '%s' is not declared", d.RootType())
	}
	return e, nil
}

// blocks turns attribute strings into annotation blocks. Strings without
// the dendrite prefix are treated as the inside of dendrite(...).
func (d *Document) blocks(attrs []string, path string) []models.AnnotationBlock {
	var out []models.AnnotationBlock
	for i, a := range attrs {
		text := strings.TrimSpace(a)
		if !strings.HasPrefix(text, annotations.Prefix) {
			text = annotations.Prefix + "(" + text + ")"
		}
		out = append(out, models.AnnotationBlock{Text: text, Loc: d.location(fmt.Sprintf("%s[%d]", path, i))})
	}
	return out
}

func (d *Document) location(path string) errors.SourceLocation {
	loc := errors.SourceLocation{File: d.filename}
	if d.file == nil {
		return loc
	}
	p, err := yaml.PathString(path)
	if err != nil {
		return loc
	}
	node, err := p.FilterFile(d.file)
	if err != nil || node == nil || node.GetToken() == nil {
		return loc
	}
	pos := node.GetToken().Position
	loc.Line, loc.Column = pos.Line, pos.Column
	return loc
}

func kindOf(kind string) models.TypeKind {
	switch strings.ToLower(kind) {
	case "record", "command", "leaf":
		return models.KindRecord
	case "union", "group":
		return models.KindUnion
	case "tuple":
		return models.KindTuple
	default:
		return models.KindOther
	}
}

func fieldsOf(types []string) []models.FieldDefinition {
	var out []models.FieldDefinition
	for _, t := range types {
		out = append(out, models.FieldDefinition{Type: t})
	}
	return out
}
