package generator

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/schema"
	"github.com/toyz/dendrite/internal/templates"
	"github.com/toyz/dendrite/internal/utils"
	"github.com/toyz/dendrite/pkg/dendrite"
)

// GeneratedFileName is the name of the file written into each package
const GeneratedFileName = "autogen_dendrite.go"

// Generator implements the CodeGenerator interface
type Generator struct {
	fallback  schema.Fallback
	templates *templates.TemplateRegistry
}

var _ CodeGenerator = (*Generator)(nil)

// NewGenerator creates a generator that names unnamed top-level commands
// after the fallback
func NewGenerator(fb schema.Fallback) *Generator {
	return &Generator{
		fallback:  fb,
		templates: templates.NewTemplateRegistry(),
	}
}

// GeneratePackage generates the command methods for every annotated type in
// the package. It returns nil when the package has no annotated types.
func (g *Generator) GeneratePackage(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}
	if len(metadata.Types) == 0 {
		return nil, nil
	}

	nodes, err := schema.BuildAll(metadata.Types)
	if err != nil {
		return nil, err
	}

	catalog, err := schema.NewCatalog(nodes)
	if err != nil {
		return nil, err
	}
	if err := catalog.Validate(g.externalPayload(metadata)); err != nil {
		return nil, err
	}
	if err := checkSettings(nodes); err != nil {
		return nil, err
	}

	src, err := g.render(metadata, nodes)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(metadata.PackagePath, GeneratedFileName)
	formatted, err := utils.FormatGoCode(target, []byte(src))
	if err != nil {
		return nil, errors.WrapGenerateError(metadata.PackageName, "format", err)
	}

	types := make([]string, 0, len(nodes))
	for _, n := range nodes {
		types = append(types, n.TypeName())
	}

	return &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    target,
		Content:     string(formatted),
		Types:       types,
	}, nil
}

// externalPayload accepts payloads implemented outside the annotated set:
// other types declared in the package and types from imported packages
func (g *Generator) externalPayload(metadata *models.PackageMetadata) func(string) bool {
	declared := make(map[string]bool, len(metadata.Declared))
	for _, name := range metadata.Declared {
		declared[name] = true
	}
	return func(payload string) bool {
		if qualifier, _, ok := strings.Cut(payload, "."); ok {
			_, imported := metadata.Imports[qualifier]
			return imported
		}
		return declared[payload]
	}
}

func checkSettings(nodes []models.SchemaNode) error {
	errs := errors.NewMultipleErrors()
	for _, n := range nodes {
		for _, s := range n.Attributes().Settings {
			if err := dendrite.CheckSetting(s); err != nil {
				errs.Add(errors.WrapGenerateError(n.TypeName(), "settings", err))
			}
		}
	}
	return errs.ErrorOrNil()
}

func (g *Generator) render(metadata *models.PackageMetadata, nodes []models.SchemaNode) (string, error) {
	var sb strings.Builder

	header := templates.FileData{
		PackageName: metadata.PackageName,
		Imports:     imports(metadata, nodes),
	}
	for _, n := range nodes {
		header.Types = append(header.Types, n.TypeName())
	}

	out, err := g.templates.ExecuteTemplate(templates.FileHeaderTemplate, header)
	if err != nil {
		return "", errors.WrapTemplateError(templates.FileHeaderTemplate, "render", err)
	}
	sb.WriteString(out)

	for _, n := range nodes {
		out, err := g.templates.RenderCommand(g.commandData(n))
		if err != nil {
			return "", errors.WrapGenerateError(n.TypeName(), "render", err)
		}
		sb.WriteString(out)
	}

	return sb.String(), nil
}

func (g *Generator) commandData(node models.SchemaNode) templates.CommandData {
	data := templates.CommandData{
		TypeName: node.TypeName(),
		Name:     schema.CommandName(node, g.fallback),
		Settings: node.Attributes().Settings,
	}
	data.About, data.HasAbout = schema.ExplicitAbout(node)
	if !data.HasAbout {
		data.FallbackAbout = g.fallback.PackageDescription
	}

	if group, ok := node.(*models.Group); ok {
		for _, m := range group.Members {
			data.Members = append(data.Members, templates.MemberData{
				Identifier: m.Identifier,
				Name:       schema.MemberName(m),
				About:      schema.MemberAbout(m),
				Payload:    m.Payload,
				Unit:       m.IsUnit(),
			})
			if !m.IsUnit() {
				data.HasPayload = true
			}
		}
	}
	return data
}

// imports returns the runtime package plus every package a qualified
// payload refers to, sorted by path
func imports(metadata *models.PackageMetadata, nodes []models.SchemaNode) []templates.ImportData {
	seen := map[string]bool{templates.RuntimeImportPath: true}
	list := []templates.ImportData{{Path: templates.RuntimeImportPath}}

	for _, n := range nodes {
		group, ok := n.(*models.Group)
		if !ok {
			continue
		}
		for _, m := range group.Members {
			qualifier, _, qualified := strings.Cut(m.Payload, ".")
			if !qualified {
				continue
			}
			importPath := metadata.Imports[qualifier]
			if importPath == "" || seen[importPath] {
				continue
			}
			seen[importPath] = true

			entry := templates.ImportData{Path: importPath}
			if path.Base(importPath) != qualifier {
				entry.Alias = qualifier
			}
			list = append(list, entry)
		}
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Path < list[j].Path })
	return list
}
