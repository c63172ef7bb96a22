// errors.go defines sentinel errors for validation failures.
//
// Separated to centralise error definitions. These errors are used with
// errors.Is() for type-safe error checking. Each error represents a
// distinct validation failure category.
//
// Design: Sentinel errors (not error types) because validation failures
// don't carry additional context beyond the category. Detailed messages
// are provided by wrapping these with fmt.Errorf in the validation functions.

package validate

import "errors"

var (
	// ErrInvalidHierarchy indicates a containment or acyclicity violation:
	// a section or parent page outside the target notebook, a page made its
	// own ancestor, or a self-referential link.
	ErrInvalidHierarchy = errors.New("invalid hierarchy")
	ErrInvalidTitle     = errors.New("invalid title")
	ErrTitleTooLong     = errors.New("title too long")
	ErrContentTooLarge  = errors.New("content too large")
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidTag       = errors.New("invalid tag")
	ErrInvalidLink      = errors.New("invalid link")
)
