package ports

import (
	"context"
	"io"

	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/forms"
)

// RecordRepository holds the accepted records of every form. Records are
// append-only; there is no update or delete.
type RecordRepository interface {
	// Append stores r and assigns r.ID (its row position within r.Form).
	Append(ctx context.Context, r *domain.Record) error
	// List returns the records of form in submission order.
	List(ctx context.Context, form string) ([]domain.Record, error)
	Count(ctx context.Context, form string) (int, error)
}

// RosterExporter writes the records of a form as a downloadable document.
type RosterExporter interface {
	Export(ctx context.Context, def *forms.Definition, records []domain.Record, w io.Writer) error
	// ContentType and Extension describe the produced document.
	ContentType() string
	Extension() string
}
