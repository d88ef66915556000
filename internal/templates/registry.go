package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerBuildTemplates()
	registry.registerReconstructTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates[FileHeaderTemplate] = `// Code generated by dendrite. DO NOT EDIT.

package {{.PackageName}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}{{quote .Path}}
{{end}})

var (
{{range .Types}}	_ dendrite.Command = (*{{.}})(nil)
{{end}})
`
}

func (tr *TemplateRegistry) registerBuildTemplates() {
	tr.templates[NewNodeTemplate] = `
// NewNode creates the root parser node for {{.TypeName}}.
func (c *{{.TypeName}}) NewNode(f dendrite.NodeFactory) (dendrite.Node, error) {
	n := f.NewNode({{quote .Name}})
{{- if and (not .HasAbout) .FallbackAbout}}
	n.SetAbout({{quote .FallbackAbout}})
{{- end}}
	if err := c.Extend(n); err != nil {
		return nil, err
	}
	return n, nil
}
`

	tr.templates[ExtendTemplate] = `
// Extend adds the description, settings and subcommands of {{.TypeName}} to n.
func (c *{{.TypeName}}) Extend(n dendrite.Node) error {
{{- if .HasAbout}}
	n.SetAbout({{quote .About}})
{{- end}}
{{- range .Settings}}
	if err := n.ApplySetting({{setting .}}); err != nil {
		return err
	}
{{- end}}
{{- range .Members}}
	{
		child := n.NewNode({{quote .Name}})
		child.SetAbout({{quote .About}})
{{- if not .Unit}}
		if err := new({{.Payload}}).Extend(child); err != nil {
			return err
		}
{{- end}}
		if err := n.AddSubcommand(child); err != nil {
			return err
		}
	}
{{- end}}
	return nil
}
`
}

func (tr *TemplateRegistry) registerReconstructTemplates() {
	tr.templates[ReconstructLeafTemplate] = `
// Reconstruct resets {{.TypeName}}. Leaf commands carry no matched data.
func (c *{{.TypeName}}) Reconstruct(dendrite.Matched) {
	*c = {{.TypeName}}{}
}
`

	tr.templates[ReconstructGroupTemplate] = `
// Reconstruct sets the member of {{.TypeName}} selected by the parser.
func (c *{{.TypeName}}) Reconstruct(m dendrite.Matched) {
	name, {{if .HasPayload}}sub{{else}}_{{end}}, ok := m.Subcommand()
	if !ok {
		dendrite.Unreachable({{quote .TypeName}}, "")
	}
	switch name {
{{- range .Members}}
	case {{quote .Name}}:
{{- if .Unit}}
		*c = {{$.TypeName}}{ {{.Identifier}}: &struct{}{} }
{{- else}}
		v := new({{.Payload}})
		v.Reconstruct(sub)
		*c = {{$.TypeName}}{ {{.Identifier}}: v }
{{- end}}
{{- end}}
	default:
		dendrite.Unreachable({{quote .TypeName}}, name)
	}
}
`
}
