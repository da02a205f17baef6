package templates

import (
	"strings"

	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/forms"
)

// fieldView is one rendered input with its error slot.
type fieldView struct {
	Name    string
	Label   string
	Type    string
	Value   string
	Error   string
	Focus   bool
	Checked bool
	Multi   bool
	Options []optionView
}

type optionView struct {
	Value   string
	Label   string
	Checked bool
}

func buildFields(def *forms.Definition, values domain.Values, errs map[string]string, focus, timestamp string) []fieldView {
	out := make([]fieldView, 0, len(def.Fields))
	for _, f := range def.Fields {
		v := fieldView{
			Name:  f.Name,
			Label: f.Label,
			Type:  f.Kind.InputType(),
			Value: values[f.Name],
			Error: errs[f.Name],
			Focus: f.Name == focus,
		}
		switch f.Kind {
		case domain.Hidden:
			v.Value = timestamp
		case domain.Checkbox:
			v.Checked = isChecked(values[f.Name])
		case domain.MultiCheckbox:
			v.Multi = true
			for _, o := range f.Options {
				v.Options = append(v.Options, optionView{
					Value:   o.Value,
					Label:   o.Label,
					Checked: values.Has(f.Name, o.Value),
				})
			}
		}
		out = append(out, v)
	}
	return out
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "yes", "1":
		return true
	}
	return false
}

// errorSlotID is the DOM id of a field's error slot.
func errorSlotID(field string) string {
	return "err-" + field
}
