package forms

import (
	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/validation"
)

const (
	FieldCourseName = "course_name"
	FieldDays       = "day"
)

const (
	markOn  = "☑"
	markOff = "✗"
)

var weekdays = []domain.Option{
	{Value: "mon", Label: "Mon"},
	{Value: "tue", Label: "Tue"},
	{Value: "wed", Label: "Wed"},
	{Value: "thu", Label: "Thu"},
	{Value: "fri", Label: "Fri"},
}

// CourseSchedule is the weekly course table: a course name and the weekdays
// it runs on.
func CourseSchedule() *Definition {
	cols := []domain.Column{{Header: "Course", Width: 40}}
	allowed := ""
	for i, d := range weekdays {
		cols = append(cols, domain.Column{Header: d.Label, Width: 3})
		if i > 0 {
			allowed += " "
		}
		allowed += d.Value
	}
	return &Definition{
		Slug:  "courses",
		Title: "Course schedule",
		Fields: []domain.Field{
			{Name: FieldCourseName, Label: "Course name", Kind: domain.Text},
			{Name: FieldDays, Label: "Days", Kind: domain.MultiCheckbox, Options: weekdays},
			{Name: FieldTimestamp, Label: "Timestamp", Kind: domain.Hidden},
		},
		Rules: []validation.Rule{
			{
				Field: FieldCourseName,
				Tag:   "required",
				Messages: map[string]validation.Message{
					"required": {Kind: domain.MissingField, Text: "Please enter a course name"},
				},
			},
			{
				Field: FieldDays,
				Tag:   "required,each_oneof=" + allowed,
				Messages: map[string]validation.Message{
					"required":   {Kind: domain.MissingField, Text: "Please select at least one day"},
					"each_oneof": {Kind: domain.FormatError, Text: "Unknown day selected"},
				},
			},
		},
		Columns: cols,
		Format:  formatCourse,
	}
}

func formatCourse(r domain.Record, _ *Locale) domain.DisplayRow {
	cells := []string{r.Values.Get(FieldCourseName)}
	for _, d := range weekdays {
		mark := markOff
		if r.Values.Has(FieldDays, d.Value) {
			mark = markOn
		}
		cells = append(cells, mark)
	}
	return domain.DisplayRow{Cells: cells}
}

// PlainMark swaps the check marks for characters that single-byte exports
// (core PDF fonts, Latin-1 roster) can carry.
func PlainMark(cell string) string {
	switch cell {
	case markOn:
		return "X"
	case markOff:
		return "-"
	}
	return cell
}
