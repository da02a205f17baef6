package forms

import (
	"time"

	"golang.org/x/text/language"

	"github.com/csg33k/signup-desk/internal/domain"
)

// Locale controls how timestamps and dates appear in the record table.
type Locale struct {
	Tag            language.Tag
	DateLayout     string
	DateTimeLayout string
	Location       *time.Location
}

type layouts struct{ date, dateTime string }

var (
	supported = []language.Tag{
		language.Finnish, // first entry is the fallback
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
	}
	supportedLayouts = []layouts{
		{"2.1.2006", "2.1.2006 klo 15.04.05"},
		{"1/2/2006", "1/2/2006, 3:04:05 PM"},
		{"02/01/2006", "02/01/2006, 15:04:05"},
		{"02.01.2006", "02.01.2006, 15:04:05"},
	}
	matcher = language.NewMatcher(supported)
)

// NewLocale matches tag (e.g. "fi-FI", "en", "de-AT") against the supported
// display locales. A nil location means UTC.
func NewLocale(tag string, loc *time.Location) *Locale {
	_, idx := language.MatchStrings(matcher, tag)
	if loc == nil {
		loc = time.UTC
	}
	l := supportedLayouts[idx]
	return &Locale{
		Tag:            supported[idx],
		DateLayout:     l.date,
		DateTimeLayout: l.dateTime,
		Location:       loc,
	}
}

// FormatTimestamp renders an instant in the locale's zone.
func (l *Locale) FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(l.Location).Format(l.DateTimeLayout)
}

// FormatDate renders a date input value ("2006-01-02"). Values that do not
// parse are returned unchanged.
func (l *Locale) FormatDate(s string) string {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return s
	}
	return d.Format(l.DateLayout)
}

// YesNo renders a checkbox value.
func YesNo(checked bool) string {
	if checked {
		return "Yes"
	}
	return "No"
}
