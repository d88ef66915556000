package dendrite

import (
	"fmt"
	"io"
	"strings"
)

// Tree is an in-memory Node. It records exactly what a build procedure
// asked for, which makes it the reference backend for tests and inspection.
type Tree struct {
	Name     string   `json:"name"`
	About    string   `json:"about,omitempty"`
	Settings []string `json:"settings,omitempty"`
	Children []*Tree  `json:"subcommands,omitempty"`
}

// NewTree creates a tree node with no description, settings or children
func NewTree(name string) *Tree {
	return &Tree{Name: name}
}

// NewNode implements NodeFactory
func (t *Tree) NewNode(name string) Node {
	return NewTree(name)
}

// SetAbout implements Node
func (t *Tree) SetAbout(about string) {
	t.About = about
}

// ApplySetting implements Node. Applying a setting twice has no further effect.
func (t *Tree) ApplySetting(setting string) error {
	if err := CheckSetting(setting); err != nil {
		return err
	}
	if !t.HasSetting(setting) {
		t.Settings = append(t.Settings, setting)
	}
	return nil
}

// AddSubcommand implements Node
func (t *Tree) AddSubcommand(child Node) error {
	c, ok := child.(*Tree)
	if !ok {
		return ErrForeignNode
	}
	if t.Child(c.Name) != nil {
		return fmt.Errorf("%w: %s %s", ErrDuplicateChild, t.Name, c.Name)
	}
	t.Children = append(t.Children, c)
	return nil
}

// HasSetting reports whether the setting was applied
func (t *Tree) HasSetting(setting string) bool {
	for _, s := range t.Settings {
		if s == setting {
			return true
		}
	}
	return false
}

// Child returns the direct subcommand with the given name
func (t *Tree) Child(name string) *Tree {
	for _, c := range t.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Select walks args as a chain of subcommand names
func (t *Tree) Select(args []string) (Matched, error) {
	node := t
	path := []string{t.Name}
	for _, arg := range args {
		// a subcommand named help shadows the help request
		next := node.Child(arg)
		if next == nil && (arg == "-h" || arg == "--help" || arg == "help") {
			return nil, fmt.Errorf("%w: %s", ErrHelpRequested, strings.Join(path, " "))
		}
		if next == nil {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownSubcommand, arg, strings.Join(path, " "))
		}
		node = next
		path = append(path, arg)
	}
	if len(node.Children) > 0 && RequiresSubcommand(node.Settings) {
		if node.HasSetting(SubcommandRequiredElseHelp) {
			return nil, fmt.Errorf("%w: %s: %w", ErrHelpRequested, strings.Join(path, " "), ErrSubcommandRequired)
		}
		return nil, fmt.Errorf("%w: %s", ErrSubcommandRequired, strings.Join(path, " "))
	}
	return Path(args), nil
}

// WriteUsage writes an indented outline of the tree
func (t *Tree) WriteUsage(w io.Writer) {
	t.writeUsage(w, 0)
}

func (t *Tree) writeUsage(w io.Writer, depth int) {
	if t.HasSetting(Hidden) && depth > 0 {
		return
	}
	indent := strings.Repeat("  ", depth)
	if t.About != "" {
		fmt.Fprintf(w, "%s%s\t%s\n", indent, t.Name, t.About)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, t.Name)
	}
	for _, c := range t.Children {
		c.writeUsage(w, depth+1)
	}
}

// Reference is the Parser backed by Tree
type Reference struct{}

// NewNode implements NodeFactory
func (Reference) NewNode(name string) Node {
	return NewTree(name)
}

// Parse implements Parser
func (Reference) Parse(root Node, args []string) (Matched, error) {
	t, ok := root.(*Tree)
	if !ok {
		return nil, ErrForeignNode
	}
	return t.Select(args)
}
