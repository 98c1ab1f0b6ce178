package store

import "fmt"

// ValidationError reports a missing or malformed field. The operation that
// returned it made no change.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports a lookup of a record that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RangeError reports a positional lookup outside the collection.
type RangeError struct {
	Kind  string
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range (have %d)", e.Kind, e.Index, e.Len)
}

func outOfRange(kind string, i, n int) error {
	if i >= 0 && i < n {
		return nil
	}
	return &RangeError{Kind: kind, Index: i, Len: n}
}
