package errors

import "fmt"

// AttributeError reports a problem with a single annotation entry
type AttributeError struct {
	*BaseError
	Key   string // attribute key or bare word involved, if any
	Owner string // identifier of the type or member that carries the annotation
}

func newAttributeError(code ErrorCode, key, owner, message string) *AttributeError {
	return &AttributeError{
		BaseError: New(code, message),
		Key:       key,
		Owner:     owner,
	}
}

// NewUnknownAttributeKey reports a key outside the recognized set for its scope
func NewUnknownAttributeKey(key, owner string, allowed ...string) *AttributeError {
	err := newAttributeError(UnknownAttributeKeyCode, key, owner,
		fmt.Sprintf("unknown attribute key '%s' on %s", key, owner))
	if len(allowed) > 0 {
		err.WithSuggestion(fmt.Sprintf("recognized keys are: %v", allowed))
	}
	return err
}

// NewInvalidAttributeValue reports a recognized key whose value is not a string literal
func NewInvalidAttributeValue(key, owner, got string) *AttributeError {
	err := newAttributeError(InvalidAttributeValueCode, key, owner,
		fmt.Sprintf("attribute '%s' on %s expects a string literal, got %s", key, owner, got))
	err.WithSuggestion(fmt.Sprintf(`quote the value: %s = "..."`, key))
	return err
}

// NewDuplicateField reports a key that was set more than once
func NewDuplicateField(key, owner string) *AttributeError {
	return newAttributeError(DuplicateFieldCode, key, owner,
		fmt.Sprintf("attribute '%s' is set more than once on %s", key, owner))
}

// NewMalformedAttribute reports an annotation that does not match the grammar
func NewMalformedAttribute(owner string, cause error) *AttributeError {
	err := &AttributeError{
		BaseError: Wrap(MalformedAttributeCode, fmt.Sprintf("malformed attribute on %s", owner), cause),
		Owner:     owner,
	}
	err.WithSuggestion(`expected dendrite(key = "value", setting, ...)`)
	return err
}

// WithLocation adds location information to the error
func (e *AttributeError) WithLocation(loc SourceLocation) *AttributeError {
	e.BaseError.WithLocation(loc)
	return e
}
