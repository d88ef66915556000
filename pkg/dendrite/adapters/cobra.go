package adapters

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/toyz/dendrite/pkg/dendrite"
)

// CobraNode implements dendrite.Node on a *cobra.Command
type CobraNode struct {
	// mu is held by Parse on the root, which rewires the whole tree
	mu       sync.Mutex
	cmd      *cobra.Command
	settings settings
	children []*CobraNode
}

// Command returns the underlying cobra command
func (n *CobraNode) Command() *cobra.Command {
	return n.cmd
}

// NewNode implements dendrite.NodeFactory
func (n *CobraNode) NewNode(name string) dendrite.Node {
	return newCobraNode(name)
}

// SetAbout implements dendrite.Node
func (n *CobraNode) SetAbout(about string) {
	n.cmd.Short = about
}

// ApplySetting implements dendrite.Node. Cobra only puts the version flag on
// the root command, so VersionlessSubcommands needs no further work.
func (n *CobraNode) ApplySetting(setting string) error {
	added, err := n.settings.apply(setting)
	if err != nil || !added {
		return err
	}
	if setting == dendrite.Hidden {
		n.cmd.Hidden = true
	}
	return nil
}

// AddSubcommand implements dendrite.Node
func (n *CobraNode) AddSubcommand(child dendrite.Node) error {
	c, ok := child.(*CobraNode)
	if !ok {
		return dendrite.ErrForeignNode
	}
	for _, existing := range n.children {
		if existing.cmd.Name() == c.cmd.Name() {
			return fmt.Errorf("%w: %s %s", dendrite.ErrDuplicateChild, n.cmd.Name(), c.cmd.Name())
		}
	}
	n.children = append(n.children, c)
	n.cmd.AddCommand(c.cmd)
	return nil
}

func newCobraNode(name string) *CobraNode {
	return &CobraNode{cmd: &cobra.Command{Use: name}}
}

// CobraParser implements dendrite.Parser with spf13/cobra
type CobraParser struct {
	// Version is shown by --version on the root command when set
	Version string
	// Out receives help and usage output, os.Stdout when nil
	Out io.Writer
}

// NewCobraParser creates a cobra backend writing help to out
func NewCobraParser(out io.Writer) *CobraParser {
	return &CobraParser{Out: out}
}

// NewNode implements dendrite.NodeFactory
func (p *CobraParser) NewNode(name string) dendrite.Node {
	return newCobraNode(name)
}

// Parse implements dendrite.Parser
func (p *CobraParser) Parse(root dendrite.Node, args []string) (dendrite.Matched, error) {
	r, ok := root.(*CobraNode)
	if !ok {
		return nil, dendrite.ErrForeignNode
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	var matched dendrite.Path
	ran := false
	p.wire(r, nil, &matched, &ran)

	r.cmd.Version = p.Version
	r.cmd.CompletionOptions.DisableDefaultCmd = true
	r.cmd.SilenceErrors = true
	r.cmd.SilenceUsage = true
	r.cmd.SetOut(out)
	r.cmd.SetErr(out)
	r.cmd.SetArgs(args)

	if err := r.cmd.Execute(); err != nil {
		return nil, err
	}
	if !ran {
		return nil, helpRequested([]string{r.cmd.Name()})
	}
	return matched, nil
}

// wire installs argument checks and run hooks on every node below n.
// path holds the subcommand names from the root to n, excluding the root.
func (p *CobraParser) wire(n *CobraNode, path []string, matched *dendrite.Path, ran *bool) {
	node := n
	selected := append([]string(nil), path...)

	node.cmd.Args = func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return unknownSubcommand(args[0], commandPath(cmd))
		}
		return nil
	}
	node.cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		*ran = true
		if err, showHelp := node.settings.stopError(commandPath(cmd), len(node.children) > 0); err != nil {
			if showHelp {
				_ = cmd.Help()
			}
			return err
		}
		*matched = selected
		return nil
	}

	for _, c := range n.children {
		p.wire(c, append(selected, c.cmd.Name()), matched, ran)
	}
}

func commandPath(cmd *cobra.Command) []string {
	var names []string
	for c := cmd; c != nil; c = c.Parent() {
		names = append([]string{c.Name()}, names...)
	}
	return names
}
