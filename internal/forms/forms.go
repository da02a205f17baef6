// Package forms holds the form definitions served by the desk: their fields,
// validation rules, table columns and row formatting.
package forms

import (
	"fmt"

	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/validation"
)

// Definition is a form variant. Format must be pure: it turns a stored
// record into the cells shown in the table and in exports.
type Definition struct {
	Slug    string
	Title   string
	Fields  []domain.Field
	Rules   []validation.Rule
	Columns []domain.Column
	Format  func(r domain.Record, loc *Locale) domain.DisplayRow
}

// InputFields returns the fields the user fills in (hidden fields excluded).
func (d *Definition) InputFields() []domain.Field {
	out := make([]domain.Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.Kind != domain.Hidden {
			out = append(out, f)
		}
	}
	return out
}

// FirstField is the field that receives focus after a submit or clear.
func (d *Definition) FirstField() string {
	if in := d.InputFields(); len(in) > 0 {
		return in[0].Name
	}
	return ""
}

// Field looks up a field by name.
func (d *Definition) Field(name string) (domain.Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return domain.Field{}, false
}

// Check verifies the definition is servable.
func (d *Definition) Check() error {
	if d.Slug == "" {
		return fmt.Errorf("form definition without slug")
	}
	if d.Format == nil {
		return fmt.Errorf("form %s: no row formatter", d.Slug)
	}
	if err := validation.CheckRules(d.Fields, d.Rules); err != nil {
		return fmt.Errorf("form %s: %w", d.Slug, err)
	}
	return nil
}

// Registry keeps definitions in registration order.
type Registry struct {
	order []string
	defs  map[string]*Definition
}

func NewRegistry(defs ...*Definition) (*Registry, error) {
	reg := &Registry{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if err := d.Check(); err != nil {
			return nil, err
		}
		if _, dup := reg.defs[d.Slug]; dup {
			return nil, fmt.Errorf("duplicate form %q", d.Slug)
		}
		reg.defs[d.Slug] = d
		reg.order = append(reg.order, d.Slug)
	}
	return reg, nil
}

func MustNewRegistry(defs ...*Definition) *Registry {
	reg, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return reg
}

func (r *Registry) Get(slug string) (*Definition, bool) {
	d, ok := r.defs[slug]
	return d, ok
}

// All returns the definitions in registration order.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, len(r.order))
	for i, slug := range r.order {
		out[i] = r.defs[slug]
	}
	return out
}
