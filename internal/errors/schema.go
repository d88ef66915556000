package errors

import "fmt"

// SchemaError reports a type definition that cannot become a command tree
type SchemaError struct {
	*BaseError
	TypeName string // the annotated type
	Member   string // the offending member, empty for top-level problems
}

func newSchemaError(code ErrorCode, typeName, member, message string) *SchemaError {
	return &SchemaError{
		BaseError: New(code, message),
		TypeName:  typeName,
		Member:    member,
	}
}

// NewUnsupportedTopLevelShape reports a type that is neither a record nor a union
func NewUnsupportedTopLevelShape(typeName, shape string) *SchemaError {
	err := newSchemaError(UnsupportedTopLevelShapeCode, typeName, "",
		fmt.Sprintf("type '%s' has unsupported shape %s", typeName, shape))
	err.WithSuggestion("use a record for a leaf command or a union of single-payload members for a command group")
	return err
}

// NewUnsupportedMemberShape reports a group member that does not wrap exactly one payload
func NewUnsupportedMemberShape(typeName, member, reason string) *SchemaError {
	return newSchemaError(UnsupportedMemberShapeCode, typeName, member,
		fmt.Sprintf("member '%s' of '%s': %s", member, typeName, reason))
}

// NewEmptyGroup reports a command group without members
func NewEmptyGroup(typeName string) *SchemaError {
	return newSchemaError(EmptyGroupCode, typeName, "",
		fmt.Sprintf("command group '%s' has no members", typeName))
}

// NewDuplicateMemberName reports two sibling members resolving to the same command name
func NewDuplicateMemberName(typeName, member, name, previous string) *SchemaError {
	err := newSchemaError(DuplicateMemberNameCode, typeName, member,
		fmt.Sprintf("member '%s' of '%s' resolves to command name '%s' already used by '%s'", member, typeName, name, previous))
	err.WithSuggestion(`give one of the members an explicit dendrite::variant(name = "...")`)
	return err
}

// NewUnresolvedPayload reports a member payload type with no schema or contract
func NewUnresolvedPayload(typeName, member, payload string) *SchemaError {
	return newSchemaError(UnresolvedPayloadCode, typeName, member,
		fmt.Sprintf("member '%s' of '%s' wraps '%s', which has no command schema", member, typeName, payload))
}

// NewImportConflict reports a payload qualifier that other files of the
// package import from a different path
func NewImportConflict(typeName, member, qualifier, importPath, previous string) *SchemaError {
	err := newSchemaError(UnresolvedPayloadCode, typeName, member,
		fmt.Sprintf("member '%s' of '%s' uses '%s' for %s, which another file imports as %s", member, typeName, qualifier, importPath, previous))
	err.WithSuggestion("import the packages under distinct names")
	return err
}

// NewConflictingDirectives reports a type annotated as both a command and a group
func NewConflictingDirectives(typeName string) *SchemaError {
	return newSchemaError(ConflictingDirectivesCode, typeName, "",
		fmt.Sprintf("type '%s' is annotated as both a command and a group", typeName))
}

// WithLocation adds location information to the error
func (e *SchemaError) WithLocation(loc SourceLocation) *SchemaError {
	e.BaseError.WithLocation(loc)
	return e
}
