package models

import "github.com/toyz/dendrite/internal/errors"

// LiteralKind identifies the lexical class of an annotation value
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBool
	LiteralIdent
)

// String returns the string representation of the literal kind
func (k LiteralKind) String() string {
	switch k {
	case LiteralString:
		return "string"
	case LiteralInt:
		return "integer"
	case LiteralFloat:
		return "float"
	case LiteralBool:
		return "boolean"
	case LiteralIdent:
		return "identifier"
	default:
		return "unknown"
	}
}

// Literal is an annotation value as written in source
type Literal struct {
	Kind LiteralKind
	Raw  string // unquoted for strings, verbatim otherwise
}

// AnnotationBlock is one annotation as attached to a type or member,
// e.g. `dendrite(name = "myapp", VersionlessSubcommands)`
type AnnotationBlock struct {
	Text string
	Loc  errors.SourceLocation
}

// RawAnnotation is a single entry of an annotation block: either
// `key = literal` or a bare word
type RawAnnotation struct {
	Key   string
	Value *Literal // nil for bare words
	Loc   errors.SourceLocation
}

// IsWord reports whether the entry is a bare word
func (r RawAnnotation) IsWord() bool {
	return r.Value == nil
}

// AttributeSet is the resolved top-level metadata of a command
type AttributeSet struct {
	Name     *string
	About    *string
	Settings []string // in declaration order, duplicates kept
}

// VariantAttributeSet is the resolved metadata of a command group member
type VariantAttributeSet struct {
	Name *string
	Help *string
}
