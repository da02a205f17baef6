// Package roster writes a form's records as a fixed-width text file: one
// header record, one detail record per row, one trailer record. Lines are
// layout.RecordLen characters, newline terminated, ISO-8859-1 encoded.
package roster

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/csg33k/signup-desk/internal/adapters/roster/layout"
	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/forms"
)

// Generator satisfies ports.RosterExporter.
type Generator struct {
	locale *forms.Locale
	now    func() time.Time
}

func New(locale *forms.Locale) *Generator {
	return &Generator{locale: locale, now: time.Now}
}

// WithClock returns a copy of g that stamps headers with now.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	cp := *g
	cp.now = now
	return &cp
}

func (g *Generator) ContentType() string { return "text/plain; charset=iso-8859-1" }
func (g *Generator) Extension() string   { return "txt" }

func (g *Generator) Export(ctx context.Context, def *forms.Definition, records []domain.Record, w io.Writer) error {
	lay, err := layout.ForForm(def)
	if err != nil {
		return err
	}

	lines := []string{g.buildHeader(lay, def)}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		lines = append(lines, g.buildDetail(lay, def, rec))
	}
	lines = append(lines, g.buildTrailer(lay, len(records)))

	enc := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n != layout.RecordLen {
			return fmt.Errorf("record %q is %d characters (want %d)", l[:1], n, layout.RecordLen)
		}
		if _, err := io.WriteString(enc, l+"\n"); err != nil {
			return err
		}
	}
	return enc.Close()
}

// ---------------------------------------------------------------------------
// Record builders
// ---------------------------------------------------------------------------

func (g *Generator) buildHeader(lay *layout.Layout, def *forms.Definition) string {
	b := newBuf()
	b.put("RecordIdentifier", lay.Header, layout.HeaderID)
	b.put("Form", lay.Header, def.Slug)
	b.put("GeneratedAt", lay.Header, g.now().UTC().Format("20060102150405"))
	b.put("Title", lay.Header, def.Title)
	return b.String()
}

func (g *Generator) buildDetail(lay *layout.Layout, def *forms.Definition, rec domain.Record) string {
	b := newBuf()
	b.put("RecordIdentifier", lay.Detail, layout.DetailID)
	b.put("Sequence", lay.Detail, fmt.Sprint(rec.ID))
	row := def.Format(rec, g.locale)
	for i := range def.Columns {
		cell := ""
		if i < len(row.Cells) {
			cell = forms.PlainMark(row.Cells[i])
		}
		b.put(layout.ColumnName(i), lay.Detail, cell)
	}
	return b.String()
}

func (g *Generator) buildTrailer(lay *layout.Layout, count int) string {
	b := newBuf()
	b.put("RecordIdentifier", lay.Trailer, layout.TrailerID)
	b.put("TotalRecords", lay.Trailer, fmt.Sprint(count))
	return b.String()
}

// ---------------------------------------------------------------------------
// Buffer
// ---------------------------------------------------------------------------

type fixedBuf struct{ data []rune }

func newBuf() *fixedBuf {
	d := make([]rune, layout.RecordLen)
	for i := range d {
		d[i] = ' '
	}
	return &fixedBuf{data: d}
}

// put looks up fieldName in fields, formats value for the field type and
// writes it at the field's position. Panics on unknown field name, which is
// a generator bug rather than bad input.
func (b *fixedBuf) put(fieldName string, fields []layout.Field, value string) {
	f, ok := layout.Find(fields, fieldName)
	if !ok {
		panic(fmt.Sprintf("roster: field %q not found in layout", fieldName))
	}
	var formatted []rune
	switch f.Type {
	case layout.Alpha:
		formatted = padText(strings.ToUpper(value), f.Len())
	case layout.Numeric:
		formatted = zeroPad(value, f.Len())
	default:
		formatted = padText(value, f.Len())
	}
	copy(b.data[f.Start-1:f.End], formatted)
}

func (b *fixedBuf) String() string { return string(b.data) }

// ---------------------------------------------------------------------------
// Formatting helpers
// ---------------------------------------------------------------------------

// padText trims, collapses control characters to spaces and left-justifies
// to exactly n characters.
func padText(s string, n int) []rune {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, strings.TrimSpace(s))
	out := []rune(s)
	if len(out) > n {
		return out[:n]
	}
	return append(out, []rune(strings.Repeat(" ", n-len(out)))...)
}

// zeroPad keeps the digits of s and right-justifies them, zero-filled. Values
// wider than n keep their least significant digits.
func zeroPad(s string, n int) []rune {
	var digits []rune
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > n {
		return digits[len(digits)-n:]
	}
	return append([]rune(strings.Repeat("0", n-len(digits))), digits...)
}
