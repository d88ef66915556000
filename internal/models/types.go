package models

import "github.com/toyz/dendrite/internal/errors"

// TypeKind is the structural shape of a type definition
type TypeKind int

const (
	KindRecord TypeKind = iota // named or unit fields
	KindUnion                  // tagged union of members
	KindTuple                  // positional fields
	KindOther                  // aliases, interfaces, primitives
)

// String returns the string representation of the type kind
func (k TypeKind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindTuple:
		return "tuple"
	default:
		return "other"
	}
}

// FieldDefinition is a field of a record or a payload slot of a member
type FieldDefinition struct {
	Name       string // empty for positional fields
	Type       string // type name as written, e.g. "Foo" or "sub.Foo"
	ImportPath string // import path when Type is qualified
}

// MemberDefinition is one alternative of a union
type MemberDefinition struct {
	Name        string
	Annotations []AnnotationBlock
	Fields      []FieldDefinition
	Loc         errors.SourceLocation
}

// TypeDefinition is a front-end neutral description of an annotated type
type TypeDefinition struct {
	Name        string
	Kind        TypeKind
	Annotations []AnnotationBlock
	Fields      []FieldDefinition  // records and tuples
	Members     []MemberDefinition // unions
	Loc         errors.SourceLocation
}
