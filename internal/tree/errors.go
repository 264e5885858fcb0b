package tree

import (
	"errors"
	"fmt"
)

// Error represents a failure of one of the content model's invariants.
//
// Every failure in this taxonomy is an authoring error to surface
// immediately, never a transient condition; nothing is retried internally.
// Error includes structured fields for diagnostics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description of the violated invariant.
	Message string

	// Name identifies the offending schema, tag, anchor, or identifier.
	Name string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes content model errors.
type ErrorCode string

const (
	// ErrCodeDuplicateDefinition indicates a registry name collision.
	ErrCodeDuplicateDefinition ErrorCode = "DUPLICATE_DEFINITION"

	// ErrCodeNotFound indicates a missing schema or tag lookup.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeDuplicateAnchorID indicates two anchors produced the same
	// identifier, an anchor was bound a second time, or a raw node was
	// bound to an anchor declared for a different tag.
	ErrCodeDuplicateAnchorID ErrorCode = "DUPLICATE_ANCHOR_ID"

	// ErrCodeInvalidArgument indicates a malformed input such as a
	// non-positive fingerprint length or an empty identifier source.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeUnboundAnchor indicates a declared anchor was never attached
	// to a raw node before the document was completed.
	ErrCodeUnboundAnchor ErrorCode = "UNBOUND_ANCHOR"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDuplicateDefinition creates an Error for a registry name collision.
func NewDuplicateDefinition(name string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateDefinition,
		Message: "schema or tag name already registered",
		Name:    name,
	}
}

// NewNotFound creates an Error for a missing schema or tag.
func NewNotFound(kind, name string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no %s registered under this name", kind),
		Name:    name,
	}
}

// NewDuplicateAnchorID creates an Error for an anchor identifier conflict.
func NewDuplicateAnchorID(message, name string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateAnchorID,
		Message: message,
		Name:    name,
	}
}

// NewInvalidArgument creates an Error for a malformed input.
func NewInvalidArgument(message string) *Error {
	return &Error{
		Code:    ErrCodeInvalidArgument,
		Message: message,
	}
}

// NewUnboundAnchor creates an Error for an anchor that was declared but
// never attached to a raw node.
func NewUnboundAnchor(name string) *Error {
	return &Error{
		Code:    ErrCodeUnboundAnchor,
		Message: "declared anchor was never attached to a node",
		Name:    name,
	}
}

// IsCode returns true if err is (or wraps) an Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// IsDuplicateDefinition reports whether err is a registry name collision.
func IsDuplicateDefinition(err error) bool {
	return IsCode(err, ErrCodeDuplicateDefinition)
}

// IsNotFound reports whether err is a missing schema or tag lookup.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound)
}

// IsDuplicateAnchorID reports whether err is an anchor identifier conflict.
func IsDuplicateAnchorID(err error) bool {
	return IsCode(err, ErrCodeDuplicateAnchorID)
}

// IsInvalidArgument reports whether err is a malformed-input failure.
func IsInvalidArgument(err error) bool {
	return IsCode(err, ErrCodeInvalidArgument)
}

// IsUnboundAnchor reports whether err is an unattached-anchor failure.
func IsUnboundAnchor(err error) bool {
	return IsCode(err, ErrCodeUnboundAnchor)
}
