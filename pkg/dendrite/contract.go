// Package dendrite is the runtime side of generated command schemas.
//
// Generated code (or the dynamic engine) builds parser definitions through
// NodeFactory and Node, and rebuilds typed values from whatever the parser
// matched through Matched. Backends for real argument parsers live in the
// adapters subpackage.
package dendrite

// NodeFactory creates parser nodes with the given command name
type NodeFactory interface {
	NewNode(name string) Node
}

// Node is a parser definition node. Nodes create their own children so
// that a subcommand node always comes from the same backend as its parent.
type Node interface {
	NodeFactory
	SetAbout(about string)
	ApplySetting(setting string) error
	AddSubcommand(child Node) error
}

// Matched is the parser's result for one node: which subcommand, if any,
// was selected and the result for that subcommand
type Matched interface {
	Subcommand() (name string, sub Matched, ok bool)
}

// Builder is the build half of the contract every command type satisfies
type Builder interface {
	// NewNode creates the root parser node for the type
	NewNode(f NodeFactory) (Node, error)
	// Extend adds the type's description, settings and subcommands to n
	Extend(n Node) error
}

// Reconstructor is the reconstruct half of the contract
type Reconstructor interface {
	// Reconstruct sets the receiver from the parser result. It panics with
	// a *DispatchError if m names no subcommand the type declared.
	Reconstruct(m Matched)
}

// Command is implemented by generated command types
type Command interface {
	Builder
	Reconstructor
}

// Path is a Matched that selects one subcommand per level
type Path []string

// Subcommand implements Matched
func (p Path) Subcommand() (string, Matched, bool) {
	if len(p) == 0 {
		return "", nil, false
	}
	return p[0], p[1:], true
}

// MatchPath returns a Matched selecting names from the root downwards
func MatchPath(names ...string) Matched {
	return Path(names)
}

// Parser is a backend that builds node trees and runs them against
// command-line arguments
type Parser interface {
	NodeFactory
	Parse(root Node, args []string) (Matched, error)
}

// Build creates the parser definition for cmd on f
func Build(cmd Builder, f NodeFactory) (Node, error) {
	return cmd.NewNode(f)
}

// Resolve builds cmd on p, parses args and reconstructs cmd from the
// result. Dispatch failures come back as errors.
func Resolve(cmd Command, p Parser, args []string) error {
	root, err := Build(cmd, p)
	if err != nil {
		return err
	}
	m, err := p.Parse(root, args)
	if err != nil {
		return err
	}
	return Catch(func() { cmd.Reconstruct(m) })
}
