// Package adapters connects generated command types to real argument
// parsers. Each backend implements dendrite.Parser.
package adapters

import (
	"fmt"
	"strings"

	"github.com/toyz/dendrite/pkg/dendrite"
)

// settings tracks the settings applied to one node
type settings []string

func (s *settings) apply(setting string) (added bool, err error) {
	if err := dendrite.CheckSetting(setting); err != nil {
		return false, err
	}
	for _, existing := range *s {
		if existing == setting {
			return false, nil
		}
	}
	*s = append(*s, setting)
	return true, nil
}

func (s settings) has(setting string) bool {
	for _, existing := range s {
		if existing == setting {
			return true
		}
	}
	return false
}

// stopError is returned when a command line ends on a node that requires a
// subcommand. The second result reports whether help should be shown.
func (s settings) stopError(path []string, hasChildren bool) (error, bool) {
	if !hasChildren || !dendrite.RequiresSubcommand(s) {
		return nil, false
	}
	joined := strings.Join(path, " ")
	if s.has(dendrite.SubcommandRequiredElseHelp) {
		return fmt.Errorf("%w: %s: %w", dendrite.ErrHelpRequested, joined, dendrite.ErrSubcommandRequired), true
	}
	return fmt.Errorf("%w: %s", dendrite.ErrSubcommandRequired, joined), false
}

func unknownSubcommand(arg string, path []string) error {
	return fmt.Errorf("%w %q for %s", dendrite.ErrUnknownSubcommand, arg, strings.Join(path, " "))
}

func helpRequested(path []string) error {
	return fmt.Errorf("%w: %s", dendrite.ErrHelpRequested, strings.Join(path, " "))
}
