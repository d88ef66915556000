package engine

import (
	"fmt"

	"github.com/toyz/dendrite/internal/errors"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/schema"
	"github.com/toyz/dendrite/internal/utils"
	"github.com/toyz/dendrite/pkg/dendrite"
)

// Registry maps type names to contracts
type Registry struct {
	*utils.BaseRegistry[string, Contract]
}

// NewRegistry creates an empty registry that rejects duplicate type names
func NewRegistry() *Registry {
	r := &Registry{utils.NewBaseRegistry[string, Contract]("contract", "type name", "contract")}
	r.SetValidator(utils.UniqueKeyValidator[string, Contract]("type name"))
	return r
}

// Lookup implements Resolver
func (r *Registry) Lookup(typeName string) (Contract, bool) {
	return r.Get(typeName)
}

// Engine compiles schema nodes into contracts and runs them against parsers
type Engine struct {
	fallback schema.Fallback
	registry *Registry
}

// New creates an engine using fb for commands without their own name or description
func New(fb schema.Fallback) *Engine {
	return &Engine{fallback: fb, registry: NewRegistry()}
}

// Register adds a hand-written contract that compiled schemas may use as a payload
func (e *Engine) Register(typeName string, c Contract) error {
	if err := e.registry.Register(typeName, c); err != nil {
		return errors.WrapRegisterError("contract", typeName, err)
	}
	return nil
}

// Compile validates nodes as a whole and generates a command for each.
// Nothing is registered if validation fails.
func (e *Engine) Compile(nodes []models.SchemaNode) error {
	catalog, err := schema.NewCatalog(nodes)
	if err != nil {
		return err
	}
	if err := catalog.Validate(e.registry.Has); err != nil {
		return err
	}

	for _, node := range catalog.Nodes() {
		if e.registry.Has(node.TypeName()) {
			return errors.Newf(errors.RegistrationErrorCode, "type '%s' already has a contract", node.TypeName())
		}
	}
	for _, node := range catalog.Nodes() {
		if err := e.Register(node.TypeName(), Generate(node, e.fallback, e.registry)); err != nil {
			return err
		}
	}
	return nil
}

// Lookup implements Resolver
func (e *Engine) Lookup(typeName string) (Contract, bool) {
	return e.registry.Lookup(typeName)
}

// Types returns every registered type name
func (e *Engine) Types() []string {
	return e.registry.List()
}

func (e *Engine) contract(typeName string) (Contract, error) {
	c, ok := e.registry.Lookup(typeName)
	if !ok {
		return nil, errors.Newf(errors.RegistrationErrorCode, "no command schema for type '%s'", typeName)
	}
	return c, nil
}

// Build creates the parser tree for root on factory f
func (e *Engine) Build(root string, f dendrite.NodeFactory) (dendrite.Node, error) {
	c, err := e.contract(root)
	if err != nil {
		return nil, err
	}
	return c.NewNode(f)
}

// Describe builds root on the reference backend
func (e *Engine) Describe(root string) (*dendrite.Tree, error) {
	n, err := e.Build(root, dendrite.Reference{})
	if err != nil {
		return nil, err
	}
	tree, ok := n.(*dendrite.Tree)
	if !ok {
		return nil, fmt.Errorf("%s: %w", root, dendrite.ErrForeignNode)
	}
	return tree, nil
}

// Resolve builds root on p, parses args and reconstructs the selection
func (e *Engine) Resolve(root string, p dendrite.Parser, args []string) (*dendrite.Value, error) {
	c, err := e.contract(root)
	if err != nil {
		return nil, err
	}
	n, err := c.NewNode(p)
	if err != nil {
		return nil, err
	}
	m, err := p.Parse(n, args)
	if err != nil {
		return nil, err
	}

	var value *dendrite.Value
	if err := dendrite.Catch(func() { value = c.Reconstruct(m) }); err != nil {
		return nil, err
	}
	return value, nil
}
