package forms

import (
	"strconv"
	"strings"

	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/validation"
)

// Registration field names.
const (
	FieldFullName  = "full_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldBirthDate = "birth_date"
	FieldTerms     = "terms"
	FieldTimestamp = "timestamp"
)

const DefaultMinAge = 13

// Registration is the attendee registration form: full name, email,
// Finnish phone number, birth date with a minimum age, and terms.
func Registration(minAge int) *Definition {
	if minAge <= 0 {
		minAge = DefaultMinAge
	}
	age := strconv.Itoa(minAge)
	return &Definition{
		Slug:  "registration",
		Title: "Registration",
		Fields: []domain.Field{
			{Name: FieldFullName, Label: "Full name", Kind: domain.Text},
			{Name: FieldEmail, Label: "Email", Kind: domain.Email},
			{Name: FieldPhone, Label: "Phone", Kind: domain.Phone},
			{Name: FieldBirthDate, Label: "Birth date", Kind: domain.Date},
			{Name: FieldTerms, Label: "I accept the terms", Kind: domain.Checkbox},
			{Name: FieldTimestamp, Label: "Timestamp", Kind: domain.Hidden},
		},
		Rules: []validation.Rule{
			{
				Field: FieldFullName,
				Tag:   "required,fullname_parts,fullname_part_len",
				Messages: map[string]validation.Message{
					"required":          {Kind: domain.MissingField, Text: "Full name is required"},
					"fullname_parts":    {Kind: domain.FormatError, Text: "Enter both first and last name"},
					"fullname_part_len": {Kind: domain.FormatError, Text: "Each name must be at least 2 characters"},
				},
			},
			{
				Field: FieldEmail,
				Tag:   "required,email_shape",
				Messages: map[string]validation.Message{
					"required":    {Kind: domain.MissingField, Text: "Email is required"},
					"email_shape": {Kind: domain.FormatError, Text: "Enter a valid email address"},
				},
			},
			{
				Field: FieldPhone,
				Tag:   "required,fi_phone",
				Messages: map[string]validation.Message{
					"required": {Kind: domain.MissingField, Text: "Phone number is required"},
					"fi_phone": {Kind: domain.FormatError, Text: "Phone must start with +358 followed by 7-12 digits"},
				},
			},
			{
				Field: FieldBirthDate,
				Tag:   "required,iso_date,not_future,min_age=" + age,
				Messages: map[string]validation.Message{
					"required":   {Kind: domain.MissingField, Text: "Birth date is required"},
					"iso_date":   {Kind: domain.FormatError, Text: "Enter a valid date"},
					"not_future": {Kind: domain.RangeError, Text: "Birth date cannot be in the future"},
					"min_age":    {Kind: domain.RangeError, Text: "You must be at least " + age + " years old"},
				},
			},
			{
				Field: FieldTerms,
				Tag:   "required,checked",
				Messages: map[string]validation.Message{
					"required": {Kind: domain.MissingField, Text: "You must accept the terms"},
					"checked":  {Kind: domain.FormatError, Text: "You must accept the terms"},
				},
			},
		},
		Columns: []domain.Column{
			{Header: "Timestamp", Width: 24},
			{Header: "Full name", Width: 32},
			{Header: "Email", Width: 40},
			{Header: "Phone", Width: 16},
			{Header: "Birth date", Width: 12},
			{Header: "Terms", Width: 5},
		},
		Format: formatRegistration,
	}
}

func formatRegistration(r domain.Record, loc *Locale) domain.DisplayRow {
	return domain.DisplayRow{Cells: []string{
		loc.FormatTimestamp(r.Timestamp),
		strings.Join(strings.Fields(r.Values[FieldFullName]), " "),
		r.Values.Get(FieldEmail),
		r.Values.Get(FieldPhone),
		loc.FormatDate(r.Values.Get(FieldBirthDate)),
		YesNo(r.Values.Get(FieldTerms) != ""),
	}}
}
