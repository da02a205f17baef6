package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the interchange format of the hidden timestamp field.
const TimestampLayout = time.RFC3339

// DateLayout is the value format produced by an <input type="date">.
const DateLayout = "2006-01-02"

type FieldKind int

const (
	Text FieldKind = iota
	Email
	Phone
	Date
	Checkbox
	MultiCheckbox // several checkboxes sharing one name
	Hidden
)

// InputType returns the HTML input type used to render the field.
func (k FieldKind) InputType() string {
	switch k {
	case Email:
		return "email"
	case Phone:
		return "tel"
	case Date:
		return "date"
	case Checkbox, MultiCheckbox:
		return "checkbox"
	case Hidden:
		return "hidden"
	default:
		return "text"
	}
}

// Option is one choice of a MultiCheckbox field.
type Option struct {
	Value string // e.g. "mon"
	Label string // e.g. "Monday"
}

// Field describes a single named input slot on a form.
type Field struct {
	Name    string
	Label   string
	Kind    FieldKind
	Options []Option
}

// Values holds the raw input of one submission attempt keyed by field name.
// MultiCheckbox selections are joined with ",".
type Values map[string]string

// Get returns the trimmed value of name, or "".
func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// Clone returns an independent copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Has reports whether a MultiCheckbox value contains opt.
func (v Values) Has(name, opt string) bool {
	for _, s := range strings.Split(v[name], ",") {
		if strings.TrimSpace(s) == opt {
			return true
		}
	}
	return false
}

// Record is one accepted submission. It is never updated once stored; ID is
// its 1-based row position within its form.
type Record struct {
	ID        int64
	Form      string
	Timestamp time.Time
	Values    Values
}

// DisplayRow is a record formatted for the on-page table.
type DisplayRow struct {
	Cells []string
}

// Column describes one table / export column.
type Column struct {
	Header string
	Width  int // characters in the fixed-width roster
}
