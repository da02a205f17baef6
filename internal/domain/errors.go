package domain

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a user-input validation failure.
type ErrorKind int

const (
	MissingField ErrorKind = iota + 1 // empty required input
	FormatError                       // value present but malformed
	RangeError                        // date in the future or age under minimum
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case FormatError:
		return "format_error"
	case RangeError:
		return "range_error"
	default:
		return fmt.Sprintf("error_kind(%d)", int(k))
	}
}

// FieldError is the failure of a single field.
type FieldError struct {
	Field   string
	Kind    ErrorKind
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationResult is the outcome of validating one field.
type ValidationResult struct {
	Field string
	Err   *FieldError
}

func (r ValidationResult) Valid() bool { return r.Err == nil }

// Message returns the error text for the field's error slot, "" when valid.
func (r ValidationResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Message
}

// ValidationResults holds one result per validated field, in field order.
type ValidationResults []ValidationResult

// OK reports whether every field passed.
func (rs ValidationResults) OK() bool {
	for _, r := range rs {
		if !r.Valid() {
			return false
		}
	}
	return true
}

// Errors returns the failing fields, or nil.
func (rs ValidationResults) Errors() ValidationErrors {
	var out ValidationErrors
	for _, r := range rs {
		if r.Err != nil {
			out = append(out, *r.Err)
		}
	}
	return out
}

// Messages maps each failing field to its message.
func (rs ValidationResults) Messages() map[string]string {
	out := make(map[string]string)
	for _, r := range rs {
		if r.Err != nil {
			out[r.Field] = r.Err.Message
		}
	}
	return out
}

// ValidationErrors is returned by a rejected submission.
type ValidationErrors []FieldError

func (es ValidationErrors) Error() string {
	parts := make([]string, len(es))
	for i := range es {
		parts[i] = es[i].Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the error for name, if any.
func (es ValidationErrors) Field(name string) (FieldError, bool) {
	for _, e := range es {
		if e.Field == name {
			return e, true
		}
	}
	return FieldError{}, false
}
