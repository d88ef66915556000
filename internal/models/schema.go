package models

// SchemaNode is a command tree node built from a type definition.
// It is either a *Leaf or a *Group.
type SchemaNode interface {
	TypeName() string
	Attributes() AttributeSet
	schemaNode()
}

// Leaf is a command without subcommands
type Leaf struct {
	Identifier string
	Attrs      AttributeSet
}

// Group is a command whose members each become a subcommand
type Group struct {
	Identifier string
	Attrs      AttributeSet
	Members    []Member // declaration order, never empty
}

// Member is one subcommand of a group
type Member struct {
	Identifier string
	Payload    string // payload type name, empty for unit members
	Attrs      VariantAttributeSet
}

// IsUnit reports whether the member carries no payload
func (m Member) IsUnit() bool {
	return m.Payload == ""
}

func (l *Leaf) TypeName() string         { return l.Identifier }
func (l *Leaf) Attributes() AttributeSet { return l.Attrs }
func (*Leaf) schemaNode()                {}

func (g *Group) TypeName() string         { return g.Identifier }
func (g *Group) Attributes() AttributeSet { return g.Attrs }
func (*Group) schemaNode()                {}
