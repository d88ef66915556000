// Command dendrite generates command-line parser definitions from annotated
// Go types and inspects or serves schema documents.
package main

import (
	"fmt"
	"os"
)

func main() {
	a := newApp(nil, nil)
	if err := a.root().Execute(); err != nil {
		if !a.reported {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
