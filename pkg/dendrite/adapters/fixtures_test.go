package adapters_test

import "github.com/toyz/dendrite/pkg/dendrite"

// Tool, Remote and Add follow the shape of generated code.

type Add struct{}

func (c *Add) NewNode(f dendrite.NodeFactory) (dendrite.Node, error) {
	n := f.NewNode("add")
	if err := c.Extend(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (c *Add) Extend(n dendrite.Node) error {
	n.SetAbout("add a remote")
	return n.ApplySetting(dendrite.Hidden)
}

func (c *Add) Reconstruct(dendrite.Matched) { *c = Add{} }

type Remote struct {
	Add *Add
}

func (c *Remote) NewNode(f dendrite.NodeFactory) (dendrite.Node, error) {
	n := f.NewNode("remote")
	if err := c.Extend(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (c *Remote) Extend(n dendrite.Node) error {
	if err := n.ApplySetting(dendrite.SubcommandRequiredElseHelp); err != nil {
		return err
	}
	child := n.NewNode("add")
	child.SetAbout("Add")
	if err := new(Add).Extend(child); err != nil {
		return err
	}
	return n.AddSubcommand(child)
}

func (c *Remote) Reconstruct(m dendrite.Matched) {
	name, sub, ok := m.Subcommand()
	if !ok {
		dendrite.Unreachable("Remote", "")
	}
	switch name {
	case "add":
		v := new(Add)
		v.Reconstruct(sub)
		*c = Remote{Add: v}
	default:
		dendrite.Unreachable("Remote", name)
	}
}

type Tool struct {
	Remote  *Remote
	Version *struct{}
}

func (c *Tool) NewNode(f dendrite.NodeFactory) (dendrite.Node, error) {
	n := f.NewNode("tool")
	if err := c.Extend(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (c *Tool) Extend(n dendrite.Node) error {
	n.SetAbout("a tool")
	if err := n.ApplySetting(dendrite.SubcommandRequired); err != nil {
		return err
	}
	{
		child := n.NewNode("remote")
		child.SetAbout("manage remotes")
		if err := new(Remote).Extend(child); err != nil {
			return err
		}
		if err := n.AddSubcommand(child); err != nil {
			return err
		}
	}
	{
		child := n.NewNode("version")
		child.SetAbout("Version")
		if err := n.AddSubcommand(child); err != nil {
			return err
		}
	}
	return nil
}

func (c *Tool) Reconstruct(m dendrite.Matched) {
	name, sub, ok := m.Subcommand()
	if !ok {
		dendrite.Unreachable("Tool", "")
	}
	switch name {
	case "remote":
		v := new(Remote)
		v.Reconstruct(sub)
		*c = Tool{Remote: v}
	case "version":
		*c = Tool{Version: &struct{}{}}
	default:
		dendrite.Unreachable("Tool", name)
	}
}
