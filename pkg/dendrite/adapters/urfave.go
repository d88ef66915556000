package adapters

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/toyz/dendrite/pkg/dendrite"
)

// URFaveNode implements dendrite.Node on a *cli.Command
type URFaveNode struct {
	// mu is held by Parse on the root, which rewires the whole tree
	mu       sync.Mutex
	cmd      *cli.Command
	settings settings
	children []*URFaveNode
}

// Command returns the underlying urfave/cli command
func (n *URFaveNode) Command() *cli.Command {
	return n.cmd
}

// NewNode implements dendrite.NodeFactory
func (n *URFaveNode) NewNode(name string) dendrite.Node {
	return newURFaveNode(name)
}

// SetAbout implements dendrite.Node
func (n *URFaveNode) SetAbout(about string) {
	n.cmd.Usage = about
}

// ApplySetting implements dendrite.Node. urfave/cli never adds a version
// flag to subcommands, so VersionlessSubcommands is only recorded.
func (n *URFaveNode) ApplySetting(setting string) error {
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
func (n *URFaveNode) AddSubcommand(child dendrite.Node) error {
	c, ok := child.(*URFaveNode)
	if !ok {
		return dendrite.ErrForeignNode
	}
	for _, existing := range n.children {
		if existing.cmd.Name == c.cmd.Name {
			return fmt.Errorf("%w: %s %s", dendrite.ErrDuplicateChild, n.cmd.Name, c.cmd.Name)
		}
	}
	n.children = append(n.children, c)
	n.cmd.Subcommands = append(n.cmd.Subcommands, c.cmd)
	return nil
}

func newURFaveNode(name string) *URFaveNode {
	return &URFaveNode{cmd: &cli.Command{Name: name}}
}

// URFaveParser implements dendrite.Parser with urfave/cli. The root node
// becomes the cli.App and its children the app's commands.
type URFaveParser struct {
	// Version is shown by --version on the app when set
	Version string
	// Out receives help output, os.Stdout when nil
	Out io.Writer
}

// NewURFaveParser creates a urfave/cli backend writing help to out
func NewURFaveParser(out io.Writer) *URFaveParser {
	return &URFaveParser{Out: out}
}

// NewNode implements dendrite.NodeFactory
func (p *URFaveParser) NewNode(name string) dendrite.Node {
	return newURFaveNode(name)
}

// Parse implements dendrite.Parser
func (p *URFaveParser) Parse(root dendrite.Node, args []string) (dendrite.Matched, error) {
	r, ok := root.(*URFaveNode)
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
	for _, c := range r.children {
		p.wire(c, []string{r.cmd.Name}, []string{c.cmd.Name}, &matched, &ran)
	}

	app := &cli.App{
		Name:           r.cmd.Name,
		Usage:          r.cmd.Usage,
		Version:        p.Version,
		HideVersion:    p.Version == "",
		Commands:       append([]*cli.Command(nil), r.cmd.Subcommands...),
		Writer:         out,
		ErrWriter:      out,
		ExitErrHandler: func(*cli.Context, error) {},
		Action:         p.action(r, []string{r.cmd.Name}, nil, &matched, &ran),
	}

	if err := app.Run(append([]string{r.cmd.Name}, args...)); err != nil {
		return nil, err
	}
	if !ran {
		return nil, helpRequested([]string{r.cmd.Name})
	}
	return matched, nil
}

// wire installs actions on n and its descendants. names is the full
// command path and selected the subcommand names below the root.
func (p *URFaveParser) wire(n *URFaveNode, parent, selected []string, matched *dendrite.Path, ran *bool) {
	names := append(append([]string(nil), parent...), n.cmd.Name)
	n.cmd.Action = p.action(n, names, append([]string(nil), selected...), matched, ran)

	for _, c := range n.children {
		p.wire(c, names, append(append([]string(nil), selected...), c.cmd.Name), matched, ran)
	}
}

func (p *URFaveParser) action(n *URFaveNode, names, selected []string, matched *dendrite.Path, ran *bool) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		*ran = true
		if ctx.Args().Present() {
			return unknownSubcommand(ctx.Args().First(), names)
		}
		if err, showHelp := n.settings.stopError(names, len(n.children) > 0); err != nil {
			if showHelp && len(names) == 1 {
				_ = cli.ShowAppHelp(ctx)
			} else if showHelp {
				_ = cli.ShowSubcommandHelp(ctx)
			}
			return err
		}
		*matched = selected
		return nil
	}
}
