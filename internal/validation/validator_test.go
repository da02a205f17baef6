package validation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/forms"
	"github.com/csg33k/signup-desk/internal/validation"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var today = time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC)

func newValidator() *validation.Validator {
	return validation.New(
		validation.WithClock(func() time.Time { return today }),
		validation.WithLocation(time.UTC),
	)
}

func validRegistration() domain.Values {
	return domain.Values{
		forms.FieldFullName:  "Maija Meikäläinen",
		forms.FieldEmail:     "maija@example.fi",
		forms.FieldPhone:     "+358401234567",
		forms.FieldBirthDate: "1990-05-17",
		forms.FieldTerms:     "on",
	}
}

func with(v domain.Values, field, value string) domain.Values {
	out := v.Clone()
	out[field] = value
	return out
}

func fieldResult(t *testing.T, field string, values domain.Values) domain.ValidationResult {
	t.Helper()
	return newValidator().ValidateField(forms.Registration(13).Rules, field, values)
}

// ---------------------------------------------------------------------------
// Rules
// ---------------------------------------------------------------------------

func TestValidate_AllValid(t *testing.T) {
	res := newValidator().Validate(forms.Registration(13).Rules, validRegistration())
	if !res.OK() {
		t.Fatalf("expected valid, got %v", res.Errors())
	}
	if len(res) != 5 {
		t.Errorf("want one result per rule (5), got %d", len(res))
	}
}

func TestValidate_FullName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind domain.ErrorKind
		msg  string
	}{
		{"empty", "", domain.MissingField, "Full name is required"},
		{"whitespace only", "   ", domain.MissingField, "Full name is required"},
		{"single part", "Maija", domain.FormatError, "Enter both first and last name"},
		{"short first part", "M Meikäläinen", domain.FormatError, "Each name must be at least 2 characters"},
		{"short last part", "Maija M", domain.FormatError, "Each name must be at least 2 characters"},
		{"short middle part", "Maija K Meikäläinen", domain.FormatError, "Each name must be at least 2 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fieldResult(t, forms.FieldFullName, with(validRegistration(), forms.FieldFullName, tt.in))
			if r.Valid() {
				t.Fatalf("%q: expected failure", tt.in)
			}
			if r.Err.Kind != tt.kind || r.Err.Message != tt.msg {
				t.Errorf("%q: got (%v, %q), want (%v, %q)", tt.in, r.Err.Kind, r.Err.Message, tt.kind, tt.msg)
			}
		})
	}
}

func TestValidate_FullName_DoubleSpacesAccepted(t *testing.T) {
	for _, in := range []string{"Jo  Li", " Anna   Maria Virtanen ", "Åsa\tÖberg"} {
		if r := fieldResult(t, forms.FieldFullName, with(validRegistration(), forms.FieldFullName, in)); !r.Valid() {
			t.Errorf("%q: unexpected error %q", in, r.Message())
		}
	}
}

func TestValidate_Email(t *testing.T) {
	valid := []string{"a@b.c", "first.last+tag@sub.example.org", "ÄÖ@x.fi"}
	invalid := []string{
		"plain",
		"no-at.example.com",
		"a@b",
		"a@@b.c",
		"a b@c.d",
		"@b.c",
		"a@.c",
		"a@b.",
		"a\u00a0b@c.d",   // no-break space
		"a\vb@c.d",       // vertical tab
		"a\u2003b@ex.fi", // em space
		"a@ex\u3000.fi",  // ideographic space
		"a@ex.f\ufeffi",  // byte order mark
		"a\u2028b@ex.fi", // line separator
	}
	for _, in := range valid {
		if r := fieldResult(t, forms.FieldEmail, with(validRegistration(), forms.FieldEmail, in)); !r.Valid() {
			t.Errorf("%q: unexpected error %q", in, r.Message())
		}
	}
	for _, in := range invalid {
		r := fieldResult(t, forms.FieldEmail, with(validRegistration(), forms.FieldEmail, in))
		if r.Valid() {
			t.Errorf("%q: expected failure", in)
			continue
		}
		if r.Err.Kind != domain.FormatError {
			t.Errorf("%q: kind %v, want FormatError", in, r.Err.Kind)
		}
	}
	r := fieldResult(t, forms.FieldEmail, with(validRegistration(), forms.FieldEmail, ""))
	if r.Valid() || r.Err.Kind != domain.MissingField {
		t.Errorf("empty email: got %+v, want MissingField", r.Err)
	}
}

func TestValidate_Phone(t *testing.T) {
	valid := []string{
		"+358401234567",
		"+3581234567",      // 7 digits
		"+358123456789012", // 12 digits
	}
	invalid := []string{
		"0401234567",
		"358401234567",
		"+358 40 1234567",
		"+358-40-1234567",
		"+358123456",        // 6 digits
		"+3581234567890123", // 13 digits
		"+46701234567",
		"+358abcdefg",
	}
	for _, in := range valid {
		if r := fieldResult(t, forms.FieldPhone, with(validRegistration(), forms.FieldPhone, in)); !r.Valid() {
			t.Errorf("%q: unexpected error %q", in, r.Message())
		}
	}
	for _, in := range invalid {
		r := fieldResult(t, forms.FieldPhone, with(validRegistration(), forms.FieldPhone, in))
		if r.Valid() {
			t.Errorf("%q: expected failure", in)
			continue
		}
		if r.Err.Kind != domain.FormatError {
			t.Errorf("%q: kind %v, want FormatError", in, r.Err.Kind)
		}
	}
}

func TestValidate_BirthDate_AgeBoundary(t *testing.T) {
	// today is 2026-10-19
	exactly13 := "2013-10-19"
	oneDayShort := "2013-10-20"

	if r := fieldResult(t, forms.FieldBirthDate, with(validRegistration(), forms.FieldBirthDate, exactly13)); !r.Valid() {
		t.Errorf("%s: unexpected error %q", exactly13, r.Message())
	}
	r := fieldResult(t, forms.FieldBirthDate, with(validRegistration(), forms.FieldBirthDate, oneDayShort))
	if r.Valid() {
		t.Fatalf("%s: expected under-age failure", oneDayShort)
	}
	if r.Err.Kind != domain.RangeError || r.Err.Message != "You must be at least 13 years old" {
		t.Errorf("%s: got (%v, %q)", oneDayShort, r.Err.Kind, r.Err.Message)
	}
}

func TestValidate_BirthDate_Future(t *testing.T) {
	for _, in := range []string{"2026-10-20", "2030-01-01"} {
		r := fieldResult(t, forms.FieldBirthDate, with(validRegistration(), forms.FieldBirthDate, in))
		if r.Valid() {
			t.Fatalf("%s: expected future-date failure", in)
		}
		if r.Err.Message != "Birth date cannot be in the future" {
			t.Errorf("%s: message %q", in, r.Err.Message)
		}
	}
	// today itself is not in the future; it fails on age instead
	r := fieldResult(t, forms.FieldBirthDate, with(validRegistration(), forms.FieldBirthDate, "2026-10-19"))
	if r.Valid() || r.Err.Message != "You must be at least 13 years old" {
		t.Errorf("today: got %+v, want min-age error", r.Err)
	}
}

func TestValidate_BirthDate_Malformed(t *testing.T) {
	for _, in := range []string{"19.10.1990", "1990-13-01", "1990-02-30", "yesterday"} {
		r := fieldResult(t, forms.FieldBirthDate, with(validRegistration(), forms.FieldBirthDate, in))
		if r.Valid() || r.Err.Kind != domain.FormatError {
			t.Errorf("%q: got %+v, want FormatError", in, r.Err)
		}
	}
}

func TestValidate_BirthDate_LocationDecidesToday(t *testing.T) {
	// 23:30 UTC on Oct 19 is already Oct 20 in Helsinki.
	helsinki, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	late := time.Date(2026, time.October, 19, 23, 30, 0, 0, time.UTC)
	v := validation.New(
		validation.WithClock(func() time.Time { return late }),
		validation.WithLocation(helsinki),
	)
	r := v.ValidateField(forms.Registration(13).Rules, forms.FieldBirthDate,
		with(validRegistration(), forms.FieldBirthDate, "2013-10-20"))
	if !r.Valid() {
		t.Errorf("13th birthday in Helsinki: unexpected error %q", r.Message())
	}
}

func TestValidate_Terms(t *testing.T) {
	for _, in := range []string{"on", "true", "1", "YES"} {
		if r := fieldResult(t, forms.FieldTerms, with(validRegistration(), forms.FieldTerms, in)); !r.Valid() {
			t.Errorf("%q: unexpected error", in)
		}
	}
	r := fieldResult(t, forms.FieldTerms, with(validRegistration(), forms.FieldTerms, ""))
	if r.Valid() || r.Err.Kind != domain.MissingField {
		t.Errorf("unchecked: got %+v, want MissingField", r.Err)
	}
	r = fieldResult(t, forms.FieldTerms, with(validRegistration(), forms.FieldTerms, "off"))
	if r.Valid() {
		t.Errorf("off: expected failure")
	}
}

func TestValidate_AllFieldsReportedTogether(t *testing.T) {
	res := newValidator().Validate(forms.Registration(13).Rules, domain.Values{
		forms.FieldFullName:  "X",
		forms.FieldEmail:     "nope",
		forms.FieldPhone:     "123",
		forms.FieldBirthDate: "2099-01-01",
	})
	want := map[string]string{
		forms.FieldFullName:  "Enter both first and last name",
		forms.FieldEmail:     "Enter a valid email address",
		forms.FieldPhone:     "Phone must start with +358 followed by 7-12 digits",
		forms.FieldBirthDate: "Birth date cannot be in the future",
		forms.FieldTerms:     "You must accept the terms",
	}
	if diff := cmp.Diff(want, res.Messages()); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	if res.OK() {
		t.Error("OK() should be false")
	}
}

func TestValidate_CourseSchedule(t *testing.T) {
	rules := forms.CourseSchedule().Rules
	v := newValidator()

	res := v.Validate(rules, domain.Values{forms.FieldCourseName: "Go basics", forms.FieldDays: "mon,wed"})
	if !res.OK() {
		t.Fatalf("unexpected errors %v", res.Errors())
	}

	res = v.Validate(rules, domain.Values{})
	want := map[string]string{
		forms.FieldCourseName: "Please enter a course name",
		forms.FieldDays:       "Please select at least one day",
	}
	if diff := cmp.Diff(want, res.Messages()); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}

	res = v.Validate(rules, domain.Values{forms.FieldCourseName: "Go", forms.FieldDays: "mon,sun"})
	if got := res.Messages()[forms.FieldDays]; got != "Unknown day selected" {
		t.Errorf("sun: message %q", got)
	}
}

func TestValidateField_UnknownFieldIsValid(t *testing.T) {
	r := newValidator().ValidateField(forms.Registration(13).Rules, "nickname", domain.Values{})
	if !r.Valid() {
		t.Errorf("unexpected error %q", r.Message())
	}
}

// ---------------------------------------------------------------------------
// Rule table checks
// ---------------------------------------------------------------------------

func TestCheckRules(t *testing.T) {
	fields := []domain.Field{{Name: "a"}, {Name: "b"}}
	good := []validation.Rule{{
		Field:    "a",
		Tag:      "required,min_age=3",
		Messages: map[string]validation.Message{"required": {}, "min_age": {}},
	}}
	if err := validation.CheckRules(fields, good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []validation.Rule{
		{Field: "zzz", Tag: "required"},
		{Field: "b", Tag: "required,email_shape", Messages: map[string]validation.Message{"required": {}}},
	}
	err := validation.CheckRules(fields, bad)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{`unknown field "zzz"`, `no message for tag "email_shape"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestTagNames(t *testing.T) {
	got := validation.TagNames("required, iso_date,min_age=13,each_oneof=mon tue")
	want := []string{"required", "iso_date", "min_age", "each_oneof"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestToday(t *testing.T) {
	got := newValidator().Today()
	want := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Today() = %v, want %v", got, want)
	}
}
