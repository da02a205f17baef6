// Package controller implements the form submission flow: read fields,
// validate, and either append a record and reset the form or keep the input
// and show per-field errors.
//
// A form is always in the Editing state. A successful submit passes through
// a transient submitted step (the record is appended) and returns to Editing
// with empty fields; a rejected submit returns to Editing with the entered
// values and the error slots filled. The Controller holds no editing state of
// its own: every call returns the FormState the caller should show next, so
// each visitor edits their own copy of the form. Submissions are serialized.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/forms"
	"github.com/csg33k/signup-desk/internal/ports"
	"github.com/csg33k/signup-desk/internal/validation"
)

// FormState is what the page needs to render the form.
type FormState struct {
	Values    domain.Values
	Errors    map[string]string // field → message, only failing fields
	Timestamp time.Time         // shown in the hidden timestamp field
	Focus     string            // field that gets autofocus
}

// TimestampValue is the hidden field value in interchange format.
func (s FormState) TimestampValue() string {
	return s.Timestamp.Format(domain.TimestampLayout)
}

type Controller struct {
	mu        sync.Mutex // serializes submissions
	def       *forms.Definition
	repo      ports.RecordRepository
	validator *validation.Validator
	locale    *forms.Locale
	log       *slog.Logger
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithLocale(l *forms.Locale) Option {
	return func(c *Controller) { c.locale = l }
}

// New builds a controller for def. The validator's clock is the controller's
// clock, so submission timestamps and "today" agree.
func New(def *forms.Definition, repo ports.RecordRepository, v *validation.Validator, opts ...Option) (*Controller, error) {
	if def == nil || repo == nil || v == nil {
		return nil, fmt.Errorf("controller: definition, repository and validator are required")
	}
	if err := def.Check(); err != nil {
		return nil, err
	}
	c := &Controller{
		def:       def,
		repo:      repo,
		validator: v,
		locale:    forms.NewLocale("", time.UTC),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("form", def.Slug)
	return c, nil
}

func (c *Controller) Definition() *forms.Definition { return c.def }

func (c *Controller) Locale() *forms.Locale { return c.locale }

// Now is the controller's clock reading, in the display locale's zone.
func (c *Controller) Now() time.Time { return c.validator.Now().In(c.locale.Location) }

// Open returns a fresh form: no values, no errors, focus on the first field
// and the timestamp set to the moment the form was opened.
func (c *Controller) Open() FormState {
	return FormState{
		Values:    domain.Values{},
		Errors:    map[string]string{},
		Timestamp: c.validator.Now(),
		Focus:     c.def.FirstField(),
	}
}

// Validate checks values against every rule without touching form state.
func (c *Controller) Validate(values domain.Values) domain.ValidationResults {
	return c.validator.Validate(c.def.Rules, values)
}

// ValidateField is the blur/change check of a single field. It only reports;
// the visitor's form keeps whatever they typed.
func (c *Controller) ValidateField(name string, values domain.Values) (domain.ValidationResult, error) {
	if _, ok := c.def.Field(name); !ok {
		return domain.ValidationResult{}, fmt.Errorf("form %s has no field %q", c.def.Slug, name)
	}
	return c.validator.ValidateField(c.def.Rules, name, values), nil
}

// Submit validates values and, when every field passes, appends a record
// and returns a fresh form. On failure it returns domain.ValidationErrors,
// appends nothing, and returns a form holding values and their error slots.
// Identical resubmissions append again.
func (c *Controller) Submit(ctx context.Context, values domain.Values) (*domain.Record, FormState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := c.validator.Validate(c.def.Rules, values)
	if !results.OK() {
		verrs := results.Errors()
		c.log.Debug("submission rejected", "fields", len(verrs))
		return nil, c.rejected(values, results), verrs
	}

	rec := &domain.Record{
		Form:      c.def.Slug,
		Timestamp: c.validator.Now(),
		Values:    c.snapshot(values),
	}
	if err := c.repo.Append(ctx, rec); err != nil {
		c.log.Error("append record", "err", err)
		return nil, c.rejected(values, nil), fmt.Errorf("append record: %w", err)
	}
	c.log.Info("record accepted", "id", rec.ID)
	return rec, c.Open(), nil
}

// Clear returns an empty form with a refreshed timestamp.
func (c *Controller) Clear() FormState {
	c.log.Debug("form cleared")
	return c.Open()
}

func (c *Controller) Records(ctx context.Context) ([]domain.Record, error) {
	return c.repo.List(ctx, c.def.Slug)
}

// Rows returns the record table formatted for display.
func (c *Controller) Rows(ctx context.Context) ([]domain.DisplayRow, error) {
	recs, err := c.repo.List(ctx, c.def.Slug)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.DisplayRow, len(recs))
	for i, r := range recs {
		rows[i] = c.def.Format(r, c.locale)
	}
	return rows, nil
}

// rejected keeps the entered values and fills the failing fields' error
// slots. Focus goes to the first failing field. The form-open timestamp the
// visitor posted back is kept when it parses.
func (c *Controller) rejected(values domain.Values, results domain.ValidationResults) FormState {
	st := c.Open()
	for _, f := range c.def.Fields {
		if f.Kind != domain.Hidden {
			continue
		}
		if t, err := time.Parse(domain.TimestampLayout, values.Get(f.Name)); err == nil {
			st.Timestamp = t
		}
	}
	st.Values = values.Clone()
	st.Errors = results.Messages()
	if !results.OK() {
		st.Focus = firstFailing(c.def, results)
	}
	return st
}

// snapshot keeps only the definition's input fields, trimmed.
func (c *Controller) snapshot(values domain.Values) domain.Values {
	out := make(domain.Values)
	for _, f := range c.def.InputFields() {
		out[f.Name] = values.Get(f.Name)
	}
	return out
}

func firstFailing(def *forms.Definition, results domain.ValidationResults) string {
	failed := results.Messages()
	for _, f := range def.InputFields() {
		if _, ok := failed[f.Name]; ok {
			return f.Name
		}
	}
	return def.FirstField()
}
