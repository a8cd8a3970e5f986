// Package apperr holds the error classes shared by every layer. Handlers
// translate them to a stable client-facing code; nothing here is retried.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey signals a natural key repeated inside one payload.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrBusiness signals a violated precondition.
	ErrBusiness = errors.New("business rule violated")
	// ErrUnsupportedValue signals a stored value that cannot be decoded.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrConflict signals a uniqueness clash with already stored data.
	ErrConflict = errors.New("conflict")
)

// DuplicateKeyError names the repeated key.
type DuplicateKeyError struct {
	Name string
	Key  any
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s %v in request", e.Name, e.Key)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

type classified struct {
	class error
	msg   string
}

func (e *classified) Error() string { return e.msg }
func (e *classified) Unwrap() error { return e.class }

// NotFound builds "<kind> not found with id: <id>".
func NotFound(kind string, id any) error {
	return &classified{class: ErrNotFound, msg: fmt.Sprintf("%s not found with id: %v", kind, id)}
}

// Business builds a precondition error with a client-facing message.
func Business(format string, args ...any) error {
	return &classified{class: ErrBusiness, msg: fmt.Sprintf(format, args...)}
}

// UnsupportedValue reports a stored value of the given kind that failed to decode.
func UnsupportedValue(what, raw string) error {
	return &classified{class: ErrUnsupportedValue, msg: fmt.Sprintf("unsupported %s found in database: %q", what, raw)}
}

// Conflict reports "<resource> already exists with <field>: '<value>'".
func Conflict(resource, field string, value any) error {
	return &classified{class: ErrConflict, msg: fmt.Sprintf("%s already exists with %s: '%v'", resource, field, value)}
}

// Code returns the stable classification of err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicateKey):
		return "DUPLICATE_KEY"
	case errors.Is(err, ErrBusiness):
		return "BUSINESS_ERROR"
	case errors.Is(err, ErrUnsupportedValue):
		return "UNSUPPORTED_VALUE"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}

// Message returns the client-facing text: the innermost classified message,
// or a generic one for unclassified errors.
func Message(err error) string {
	var dk *DuplicateKeyError
	if errors.As(err, &dk) {
		return dk.Error()
	}
	var c *classified
	if errors.As(err, &c) {
		return c.msg
	}
	return "an unexpected error occurred"
}
