package schema

import (
	"fmt"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
)

// Catalog indexes schema nodes by type name so group members can be
// linked to their payload schemas
type Catalog struct {
	nodes map[string]models.SchemaNode
	order []string
}

// NewCatalog indexes nodes, rejecting two nodes with the same type name
func NewCatalog(nodes []models.SchemaNode) (*Catalog, error) {
	c := &Catalog{nodes: make(map[string]models.SchemaNode, len(nodes))}
	for _, n := range nodes {
		if _, exists := c.nodes[n.TypeName()]; exists {
			return nil, errors.Newf(errors.RegistrationErrorCode, "type '%s' is defined more than once", n.TypeName())
		}
		c.nodes[n.TypeName()] = n
		c.order = append(c.order, n.TypeName())
	}
	return c, nil
}

// Lookup returns the node for a type name
func (c *Catalog) Lookup(name string) (models.SchemaNode, bool) {
	n, ok := c.nodes[name]
	return n, ok
}

// Nodes returns the nodes in the order they were added
func (c *Catalog) Nodes() []models.SchemaNode {
	out := make([]models.SchemaNode, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.nodes[name])
	}
	return out
}

// Validate checks that every payload names a node in the catalog or a type
// accepted by external, and that no group contains itself
func (c *Catalog) Validate(external func(payload string) bool) error {
	errs := errors.NewMultipleErrors()

	for _, name := range c.order {
		g, ok := c.nodes[name].(*models.Group)
		if !ok {
			continue
		}
		for _, m := range g.Members {
			if m.IsUnit() {
				continue
			}
			if _, known := c.nodes[m.Payload]; known {
				continue
			}
			if external != nil && external(m.Payload) {
				continue
			}
			errs.Add(errors.NewUnresolvedPayload(g.Identifier, m.Identifier, m.Payload))
		}
	}

	if errs.IsEmpty() {
		if cycle := c.findCycle(); cycle != nil {
			errs.Add(errors.NewUnsupportedMemberShape(cycle[0], cycle[1],
				fmt.Sprintf("payload chain %v leads back to '%s'", cycle, cycle[0])))
		}
	}

	return errs.ErrorOrNil()
}

// findCycle returns [group, member, ...] for the first group reachable from itself
func (c *Catalog) findCycle() []string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(c.nodes))
	var owners, path []string
	var found []string

	var visit func(name string) bool
	visit = func(name string) bool {
		switch state[name] {
		case active:
			for i, owner := range owners {
				if owner == name {
					found = append([]string{name}, path[i:]...)
					break
				}
			}
			return true
		case done:
			return false
		}
		state[name] = active
		if g, ok := c.nodes[name].(*models.Group); ok {
			for _, m := range g.Members {
				if _, known := c.nodes[m.Payload]; !known {
					continue
				}
				owners = append(owners, name)
				path = append(path, m.Identifier)
				if visit(m.Payload) {
					return true
				}
				owners = owners[:len(owners)-1]
				path = path[:len(path)-1]
			}
		}
		state[name] = done
		return false
	}

	for _, name := range c.order {
		if state[name] == unvisited {
			owners, path = owners[:0], path[:0]
			if visit(name) {
				return found
			}
		}
	}
	return nil
}
