// Package layout defines the fixed-width roster record layout. Positions are
// 1-based and inclusive. The header and trailer are fixed; detail records
// are laid out from a form's columns.
package layout

import (
	"fmt"

	"github.com/csg33k/signup-desk/internal/forms"
)

// RecordLen is the width of every roster line, newline excluded.
const RecordLen = 256

type Field struct {
	Name        string
	Start       int
	End         int
	Type        FieldType
	Description string
}

func (f Field) Len() int { return f.End - f.Start + 1 }

type FieldType int

const (
	Alpha   FieldType = iota // left-justified, space-filled, uppercase
	Text                     // left-justified, space-filled, case preserved
	Numeric                  // right-justified, zero-filled digits only
	Fixed                    // literal constant
)

// Record identifiers.
const (
	HeaderID  = "H"
	DetailID  = "D"
	TrailerID = "T"
)

type Layout struct {
	Form    string
	Header  []Field
	Detail  []Field
	Trailer []Field
}

var header = []Field{
	{"RecordIdentifier", 1, 1, Fixed, `"H"`},
	{"Form", 2, 21, Alpha, "form slug"},
	{"GeneratedAt", 22, 35, Numeric, "YYYYMMDDhhmmss, UTC"},
	{"Title", 36, 75, Text, "form title"},
}

var trailer = []Field{
	{"RecordIdentifier", 1, 1, Fixed, `"T"`},
	{"TotalRecords", 2, 8, Numeric, "number of D records"},
}

// seqEnd is the last position of the detail sequence number.
const seqEnd = 8

// ForForm lays the form's columns out after the record identifier and the
// row sequence number. Column i is named "Col<i>" with the column header as
// its description.
func ForForm(def *forms.Definition) (*Layout, error) {
	detail := []Field{
		{"RecordIdentifier", 1, 1, Fixed, `"D"`},
		{"Sequence", 2, seqEnd, Numeric, "row position"},
	}
	pos := seqEnd + 1
	for i, c := range def.Columns {
		if c.Width <= 0 {
			return nil, fmt.Errorf("form %s: column %q has no width", def.Slug, c.Header)
		}
		end := pos + c.Width - 1
		if end > RecordLen {
			return nil, fmt.Errorf("form %s: columns need %d positions, record is %d", def.Slug, end, RecordLen)
		}
		detail = append(detail, Field{ColumnName(i), pos, end, Text, c.Header})
		pos = end + 1
	}
	return &Layout{Form: def.Slug, Header: header, Detail: detail, Trailer: trailer}, nil
}

func ColumnName(i int) string { return fmt.Sprintf("Col%d", i) }

// Find returns the named field.
func Find(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
