package dendrite

import (
	"errors"
	"fmt"
)

// Settings understood by every backend
const (
	// SubcommandRequired rejects a command line that stops at this node
	SubcommandRequired = "SubcommandRequired"
	// SubcommandRequiredElseHelp shows help instead of running this node alone
	SubcommandRequiredElseHelp = "SubcommandRequiredElseHelp"
	// VersionlessSubcommands keeps the version flag off child nodes
	VersionlessSubcommands = "VersionlessSubcommands"
	// Hidden omits the node from its parent's help
	Hidden = "Hidden"
)

// KnownSettings lists every setting in a stable order
var KnownSettings = []string{
	SubcommandRequired,
	SubcommandRequiredElseHelp,
	VersionlessSubcommands,
	Hidden,
}

var (
	ErrUnknownSetting     = errors.New("unknown setting")
	ErrSubcommandRequired = errors.New("a subcommand is required")
	ErrUnknownSubcommand  = errors.New("unknown subcommand")
	ErrHelpRequested      = errors.New("help requested")
	ErrDuplicateChild     = errors.New("duplicate subcommand")
	ErrForeignNode        = errors.New("node belongs to a different backend")
)

// IsKnownSetting reports whether s is one of KnownSettings
func IsKnownSetting(s string) bool {
	for _, k := range KnownSettings {
		if k == s {
			return true
		}
	}
	return false
}

// CheckSetting returns an error wrapping ErrUnknownSetting for unrecognized settings
func CheckSetting(s string) error {
	if !IsKnownSetting(s) {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, s)
	}
	return nil
}

// RequiresSubcommand reports whether the settings forbid stopping at a node
func RequiresSubcommand(settings []string) bool {
	for _, s := range settings {
		if s == SubcommandRequired || s == SubcommandRequiredElseHelp {
			return true
		}
	}
	return false
}
