// Package engine generates build, extend and reconstruct procedures for
// schema nodes at run time.
package engine

import (
	"fmt"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/schema"
	"github.com/toyz/dendrite/pkg/dendrite"
)

// Contract is what a parent command needs from each payload type
type Contract interface {
	dendrite.Builder
	Reconstruct(m dendrite.Matched) *dendrite.Value
}

// Resolver finds the contract for a payload type
type Resolver interface {
	Lookup(typeName string) (Contract, bool)
}

type member struct {
	identifier string
	name       string
	about      string
	payload    string
}

// Command holds the generated procedures for one schema node. Names and
// descriptions are resolved once, so the name a subcommand is built with
// is the name it is matched by.
type Command struct {
	typeName      string
	name          string
	fallbackAbout string
	explicitAbout *string
	settings      []string
	members       []member
	group         bool
	resolver      Resolver
}

var _ Contract = (*Command)(nil)

// Generate produces the procedures for node. Payload contracts are looked
// up through resolver when the procedures run.
func Generate(node models.SchemaNode, fb schema.Fallback, resolver Resolver) *Command {
	cmd := &Command{
		typeName:      node.TypeName(),
		name:          schema.CommandName(node, fb),
		fallbackAbout: fb.PackageDescription,
		settings:      append([]string(nil), node.Attributes().Settings...),
		resolver:      resolver,
	}
	if about, ok := schema.ExplicitAbout(node); ok {
		cmd.explicitAbout = &about
	}

	if g, ok := node.(*models.Group); ok {
		cmd.group = true
		for _, m := range g.Members {
			cmd.members = append(cmd.members, member{
				identifier: m.Identifier,
				name:       schema.MemberName(m),
				about:      schema.MemberAbout(m),
				payload:    m.Payload,
			})
		}
	}

	return cmd
}

// TypeName returns the schema type the command was generated from
func (c *Command) TypeName() string {
	return c.typeName
}

// Name returns the resolved top-level command name
func (c *Command) Name() string {
	return c.name
}

// NewNode creates the root node. The package description is only used
// when the type has no description of its own.
func (c *Command) NewNode(f dendrite.NodeFactory) (dendrite.Node, error) {
	n := f.NewNode(c.name)
	if c.explicitAbout == nil && c.fallbackAbout != "" {
		n.SetAbout(c.fallbackAbout)
	}
	if err := c.Extend(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Extend applies the explicit description, the settings in declaration
// order and, for groups, one subcommand per member in declaration order
func (c *Command) Extend(n dendrite.Node) error {
	if c.explicitAbout != nil {
		n.SetAbout(*c.explicitAbout)
	}

	for _, s := range c.settings {
		if err := n.ApplySetting(s); err != nil {
			return errors.WrapGenerateError(c.typeName, "settings", err)
		}
	}

	for _, m := range c.members {
		child := n.NewNode(m.name)
		child.SetAbout(m.about)

		if m.payload != "" {
			payload, err := c.payload(m)
			if err != nil {
				return err
			}
			if err := payload.Extend(child); err != nil {
				return err
			}
		}

		if err := n.AddSubcommand(child); err != nil {
			return errors.WrapGenerateError(c.typeName, "subcommand "+m.name, err)
		}
	}

	return nil
}

// Reconstruct rebuilds the selected value. Leaves carry no data; groups
// dispatch on the matched subcommand name and panic with a
// *dendrite.DispatchError when it matches no member.
func (c *Command) Reconstruct(m dendrite.Matched) *dendrite.Value {
	if !c.group {
		return &dendrite.Value{Type: c.typeName}
	}

	name, sub, ok := m.Subcommand()
	if !ok {
		dendrite.Unreachable(c.typeName, "")
	}

	for _, mem := range c.members {
		if mem.name != name {
			continue
		}
		v := &dendrite.Value{Type: c.typeName, Variant: mem.identifier}
		if mem.payload != "" {
			payload, err := c.payload(mem)
			if err != nil {
				panic(err)
			}
			v.Payload = payload.Reconstruct(sub)
		}
		return v
	}

	dendrite.Unreachable(c.typeName, name)
	return nil
}

func (c *Command) payload(m member) (Contract, error) {
	if c.resolver != nil {
		if contract, ok := c.resolver.Lookup(m.payload); ok {
			return contract, nil
		}
	}
	return nil, errors.NewUnresolvedPayload(c.typeName, m.identifier, m.payload)
}

// String describes the command for diagnostics
func (c *Command) String() string {
	kind := "leaf"
	if c.group {
		kind = fmt.Sprintf("group(%d)", len(c.members))
	}
	return fmt.Sprintf("%s %q %s", c.typeName, c.name, kind)
}
