package schema

import (
	"strings"

	"github.com/toyz/dendrite/internal/models"
)

// Fallback supplies the top-level name and description for commands that
// do not declare their own
type Fallback struct {
	PackageName        string
	PackageDescription string
}

// CommandName returns the explicit name or the package name
func CommandName(node models.SchemaNode, fb Fallback) string {
	if n := node.Attributes().Name; n != nil {
		return *n
	}
	return fb.PackageName
}

// CommandAbout returns the explicit description or the package description
func CommandAbout(node models.SchemaNode, fb Fallback) string {
	if a := node.Attributes().About; a != nil {
		return *a
	}
	return fb.PackageDescription
}

// ExplicitAbout returns the declared description, if any
func ExplicitAbout(node models.SchemaNode) (string, bool) {
	if a := node.Attributes().About; a != nil {
		return *a, true
	}
	return "", false
}

// MemberName returns the explicit name or the lower-cased identifier
func MemberName(m models.Member) string {
	if m.Attrs.Name != nil {
		return *m.Attrs.Name
	}
	return strings.ToLower(m.Identifier)
}

// MemberAbout returns the explicit help text or the identifier
func MemberAbout(m models.Member) string {
	if m.Attrs.Help != nil {
		return *m.Attrs.Help
	}
	return m.Identifier
}
