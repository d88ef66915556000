// Package templates renders the Go source for generated command methods.
package templates

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/toyz/dendrite/pkg/dendrite"
)

// Template names
const (
	FileHeaderTemplate       = "file-header"
	NewNodeTemplate          = "new-node"
	ExtendTemplate           = "extend"
	ReconstructLeafTemplate  = "reconstruct-leaf"
	ReconstructGroupTemplate = "reconstruct-group"
)

// RuntimeImportPath is the package generated code depends on
const RuntimeImportPath = "github.com/toyz/dendrite/pkg/dendrite"

// ImportData is one import line
type ImportData struct {
	Alias string
	Path  string
}

// FileData is the input of the file header
type FileData struct {
	PackageName string
	Imports     []ImportData
	Types       []string
}

// MemberData describes one subcommand of a group
type MemberData struct {
	Identifier string
	Name       string
	About      string
	Payload    string
	Unit       bool
}

// CommandData is the input of the per-type templates
type CommandData struct {
	TypeName      string
	Name          string
	About         string
	HasAbout      bool
	FallbackAbout string
	Settings      []string
	Members       []MemberData
	HasPayload    bool
}

var settingConstants = map[string]string{
	dendrite.SubcommandRequired:         "dendrite.SubcommandRequired",
	dendrite.SubcommandRequiredElseHelp: "dendrite.SubcommandRequiredElseHelp",
	dendrite.VersionlessSubcommands:     "dendrite.VersionlessSubcommands",
	dendrite.Hidden:                     "dendrite.Hidden",
}

// setting renders a setting as its runtime constant when one exists
func setting(s string) string {
	if c, ok := settingConstants[s]; ok {
		return c
	}
	return strconv.Quote(s)
}

var funcMap = template.FuncMap{
	"quote":   strconv.Quote,
	"setting": setting,
}

// ExecuteTemplate executes a registered template with the given data
func (tr *TemplateRegistry) ExecuteTemplate(name string, data interface{}) (string, error) {
	templateStr, ok := tr.Get(name)
	if !ok {
		return "", fmt.Errorf("template %s is not registered", name)
	}
	return executeTemplate(name, templateStr, data)
}

func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderCommand renders the three contract methods for one type
func (tr *TemplateRegistry) RenderCommand(data CommandData) (string, error) {
	names := []string{NewNodeTemplate, ExtendTemplate, ReconstructLeafTemplate}
	if len(data.Members) > 0 {
		names[2] = ReconstructGroupTemplate
	}

	var buf bytes.Buffer
	for _, name := range names {
		out, err := tr.ExecuteTemplate(name, data)
		if err != nil {
			return "", err
		}
		buf.WriteString(out)
	}
	return buf.String(), nil
}
