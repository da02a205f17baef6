// Package validation checks form values against a declarative rule table.
//
// Each Rule names a field, a go-playground/validator tag chain and the
// message to show for every tag in that chain. All rules of a form run on
// every pass so every failing field can be reported at once; within one
// field the first failing tag decides the message.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/csg33k/signup-desk/internal/domain"
)

// emailPart is one run of non-whitespace, non-@ characters. RE2's \s is
// ASCII only, so vertical tab, NEL, BOM and the Unicode space separators are
// listed explicitly.
const emailPart = `[^\s\v\x{85}\x{FEFF}\p{Z}@]+`

var (
	emailShape = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)
	finPhone   = regexp.MustCompile(`^\+358\d{7,12}$`)
)

// Message is the error shown when a tag fails.
type Message struct {
	Kind domain.ErrorKind
	Text string
}

// Rule binds a field to a validator tag chain, e.g.
// "required,email_shape". Messages must hold an entry for every tag.
type Rule struct {
	Field    string
	Tag      string
	Messages map[string]Message
}

type Validator struct {
	v   *validator.Validate
	now func() time.Time
	loc *time.Location
}

type Option func(*Validator)

// WithClock replaces time.Now, used for "today" in date rules.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithLocation sets the time zone in which dates are interpreted.
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{
		v:   validator.New(),
		now: time.Now,
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.register()
	return v
}

func (v *Validator) register() {
	custom := map[string]validator.Func{
		"fullname_parts": func(fl validator.FieldLevel) bool {
			return len(strings.Fields(fl.Field().String())) >= 2
		},
		"fullname_part_len": func(fl validator.FieldLevel) bool {
			for _, p := range strings.Fields(fl.Field().String()) {
				if utf8.RuneCountInString(p) < 2 {
					return false
				}
			}
			return true
		},
		"email_shape": func(fl validator.FieldLevel) bool {
			return emailShape.MatchString(fl.Field().String())
		},
		"fi_phone": func(fl validator.FieldLevel) bool {
			return finPhone.MatchString(fl.Field().String())
		},
		"iso_date": func(fl validator.FieldLevel) bool {
			_, err := v.parseDate(fl.Field().String())
			return err == nil
		},
		"not_future": func(fl validator.FieldLevel) bool {
			d, err := v.parseDate(fl.Field().String())
			if err != nil {
				return true // reported by iso_date
			}
			return !d.After(v.Today())
		},
		"min_age": func(fl validator.FieldLevel) bool {
			d, err := v.parseDate(fl.Field().String())
			if err != nil {
				return true
			}
			minAge, err := strconv.Atoi(fl.Param())
			if err != nil {
				panic(fmt.Sprintf("validation: bad min_age param %q", fl.Param()))
			}
			return Age(d, v.Today()) >= minAge
		},
		"checked": func(fl validator.FieldLevel) bool {
			switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
			case "on", "true", "yes", "1":
				return true
			}
			return false
		},
		// each_oneof=mon tue wed: every comma-separated item is one of the params.
		"each_oneof": func(fl validator.FieldLevel) bool {
			allowed := strings.Fields(fl.Param())
			for _, item := range strings.Split(fl.Field().String(), ",") {
				if !contains(allowed, strings.TrimSpace(item)) {
					return false
				}
			}
			return true
		},
	}
	for tag, fn := range custom {
		if err := v.v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: register %s: %v", tag, err))
		}
	}
}

// Today returns the current date at midnight in the validator's location.
func (v *Validator) Today() time.Time {
	y, m, d := v.now().In(v.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, v.loc)
}

// Now returns the validator's clock reading.
func (v *Validator) Now() time.Time { return v.now() }

func (v *Validator) parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(domain.DateLayout, strings.TrimSpace(s), v.loc)
}

// Validate runs every rule against values.
func (v *Validator) Validate(rules []Rule, values domain.Values) domain.ValidationResults {
	out := make(domain.ValidationResults, 0, len(rules))
	for _, r := range rules {
		out = append(out, v.check(r, values))
	}
	return out
}

// ValidateField runs the rule for a single field. Fields without a rule are
// always valid.
func (v *Validator) ValidateField(rules []Rule, field string, values domain.Values) domain.ValidationResult {
	for _, r := range rules {
		if r.Field == field {
			return v.check(r, values)
		}
	}
	return domain.ValidationResult{Field: field}
}

func (v *Validator) check(r Rule, values domain.Values) domain.ValidationResult {
	res := domain.ValidationResult{Field: r.Field}
	if r.Tag == "" {
		return res
	}
	err := v.v.Var(values.Get(r.Field), r.Tag)
	if err == nil {
		return res
	}

	var tag string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		tag = verrs[0].Tag()
	}
	msg, ok := r.Messages[tag]
	if !ok {
		msg = Message{Kind: domain.FormatError, Text: "Invalid value"}
	}
	res.Err = &domain.FieldError{Field: r.Field, Kind: msg.Kind, Message: msg.Text}
	return res
}

// CheckRules reports rules that reference unknown fields or have a tag
// without a message. A form with a bad rule table must not be served.
func CheckRules(fields []domain.Field, rules []Rule) error {
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.Name] = true
	}
	var errs []error
	for _, r := range rules {
		if !known[r.Field] {
			errs = append(errs, fmt.Errorf("rule for unknown field %q", r.Field))
			continue
		}
		for _, tag := range TagNames(r.Tag) {
			if _, ok := r.Messages[tag]; !ok {
				errs = append(errs, fmt.Errorf("field %q: no message for tag %q", r.Field, tag))
			}
		}
	}
	return errors.Join(errs...)
}

// TagNames splits a tag chain into tag names without params.
func TagNames(chain string) []string {
	var out []string
	for _, part := range strings.Split(chain, ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(part), "=")
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
