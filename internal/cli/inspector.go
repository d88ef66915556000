package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/toyz/dendrite/internal/host"
	"github.com/toyz/dendrite/internal/schemafile"
)

// Inspector prints the parser tree of a schema document and resolves
// command lines against it
type Inspector struct {
	out io.Writer
}

// NewInspector creates an inspector writing to out
func NewInspector(out io.Writer) *Inspector {
	return &Inspector{out: out}
}

// InspectOptions select what Inspect prints
type InspectOptions struct {
	// Args, when non-empty, are resolved against the root type
	Args []string
	// Backend is the parser backend used to resolve Args
	Backend string
	// JSON prints machine-readable output
	JSON bool
}

// Inspect compiles the schema document at path and prints its tree
func (i *Inspector) Inspect(path string, opts InspectOptions) error {
	doc, err := schemafile.Load(path)
	if err != nil {
		return err
	}
	eng, err := doc.Compile()
	if err != nil {
		return err
	}
	tree, err := eng.Describe(doc.RootType())
	if err != nil {
		return err
	}

	if len(opts.Args) == 0 {
		if opts.JSON {
			return i.writeJSON(tree)
		}
		tree.WriteUsage(i.out)
		return nil
	}

	backend, err := host.Backend(opts.Backend)
	if err != nil {
		return err
	}
	value, err := eng.Resolve(doc.RootType(), backend, opts.Args)
	if err != nil {
		return err
	}

	if opts.JSON {
		return i.writeJSON(value)
	}
	_, err = fmt.Fprintln(i.out, value.String())
	return err
}

func (i *Inspector) writeJSON(v interface{}) error {
	enc := json.NewEncoder(i.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
