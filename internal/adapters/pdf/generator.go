// Package pdf renders a form's record table as a printable roster.
// Columns come from the form definition; widths are shared out in
// proportion to each column's roster width.
package pdf

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

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

func (g *Generator) ContentType() string { return "application/pdf" }
func (g *Generator) Extension() string   { return "pdf" }

// Export writes a landscape roster with one table row per record.
func (g *Generator) Export(ctx context.Context, def *forms.Definition, records []domain.Record, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	// Core fonts are cp1252; names outside it need translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	widths := columnWidths(pdf, def.Columns)
	generated := g.locale.FormatTimestamp(g.now())

	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	half := (pageW - marginL - marginR) / 2
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 7.5)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(half, 5, tr(def.Title+" roster | generated "+generated), "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	drawHeader(pdf, tr, def, len(records))
	drawColumnHeader(pdf, tr, def.Columns, widths)

	rowH := 6.5
	_, pageH := pdf.GetPageSize()
	_, _, _, marginB := pdf.GetMargins()
	for i, rec := range records {
		if pdf.GetY()+rowH > pageH-marginB {
			pdf.AddPage()
			drawColumnHeader(pdf, tr, def.Columns, widths)
		}
		// Alternating row background
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetFont("Helvetica", "", 8.5)
		row := def.Format(rec, g.locale)
		for c, width := range widths {
			cell := ""
			if c < len(row.Cells) {
				cell = forms.PlainMark(row.Cells[c])
			}
			pdf.CellFormat(width, rowH, tr(cell), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(rowH)
	}
	if len(records) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No records yet.", "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, def *forms.Definition, count int) {
	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW/2, 7, tr(def.Title+" ROSTER"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2-4, 7, fmt.Sprintf("%d record(s)", count), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginL, marginT+13)
}

func drawColumnHeader(pdf *fpdf.Fpdf, tr func(string) string, cols []domain.Column, widths []float64) {
	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	for i, c := range cols {
		pdf.CellFormat(widths[i], 7, tr(c.Header), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(7)
	pdf.SetTextColor(0, 0, 0)
}

func columnWidths(pdf *fpdf.Fpdf, cols []domain.Column) []float64 {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	total := 0
	for _, c := range cols {
		total += max(c.Width, 1)
	}
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = contentW * float64(max(c.Width, 1)) / float64(total)
	}
	return out
}
