package dendrite

import "fmt"

// DispatchError reports a parser result that names no member of a command
// group. Reconstruction raises it as a panic since a parser built from the
// same schema cannot produce one.
type DispatchError struct {
	Type string // the group being reconstructed
	Name string // the subcommand the parser reported, empty if none
}

func (e *DispatchError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("unreachable: no subcommand matched while reconstructing %s", e.Type)
	}
	return fmt.Sprintf("unreachable: %s has no subcommand %q", e.Type, e.Name)
}

// Unreachable panics with a *DispatchError
func Unreachable(typeName, name string) {
	panic(&DispatchError{Type: typeName, Name: name})
}

// Catch runs fn and converts a *DispatchError panic into an error.
// Any other panic propagates.
func Catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(*DispatchError)
			if !ok {
				panic(r)
			}
			err = de
		}
	}()
	fn()
	return nil
}
