// Package templates renders the desk pages. The markup is html/template,
// exposed to handlers as templ components.
package templates

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/forms"
)

// PageData is everything a form page shows.
type PageData struct {
	Forms     []*forms.Definition
	Form      *forms.Definition
	Values    domain.Values
	Errors    map[string]string
	Timestamp string // hidden timestamp field value
	Focus     string
	Rows      []domain.DisplayRow
}

type pageView struct {
	Nav     []navItem
	Slug    string
	Title   string
	Fields  []fieldView
	Columns []domain.Column
	Rows    []domain.DisplayRow
	Invalid bool
}

type navItem struct {
	Slug   string
	Title  string
	Active bool
}

// Page renders a full form page: form, error slots and record table.
func Page(p PageData) templ.Component {
	v := pageView{
		Slug:    p.Form.Slug,
		Title:   p.Form.Title,
		Fields:  buildFields(p.Form, p.Values, p.Errors, p.Focus, p.Timestamp),
		Columns: p.Form.Columns,
		Rows:    p.Rows,
		Invalid: len(p.Errors) > 0,
	}
	for _, d := range p.Forms {
		v.Nav = append(v.Nav, navItem{Slug: d.Slug, Title: d.Title, Active: d.Slug == p.Form.Slug})
	}
	return templ.FromGoHTML(pageTmpl, v)
}

// ErrorSlot renders a single field's error slot, swapped in after a blur
// validation.
func ErrorSlot(field, message string) templ.Component {
	return templ.FromGoHTML(errorSlotTmpl, fieldView{Name: field, Error: message})
}

var funcs = template.FuncMap{
	"slot": errorSlotID,
}

const errorSlotDef = `{{define "error-slot"}}<span class="field-error" id="{{slot .Name}}" role="alert">{{.Error}}</span>{{end}}`

var errorSlotTmpl = template.Must(template.New("slot").Funcs(funcs).Parse(errorSlotDef + `{{template "error-slot" .}}`))

var pageTmpl = template.Must(template.New("page").Funcs(funcs).Parse(errorSlotDef + `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} · Signup Desk</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<style>
  :root { --ink:#0d1117; --paper:#f5f0e8; --ledger:#e8e0cc; --accent:#c0392b; --accent2:#2c6e49; --muted:#6b5e4e; --rule:#b8a898; }
  * { box-sizing: border-box; }
  body { background: var(--paper); color: var(--ink); font-family: 'IBM Plex Sans', sans-serif; }
  .wrap { max-width: 1100px; margin: 0 auto; padding: 32px 24px; }
  nav a { font-family: monospace; margin-right: 16px; color: var(--muted); }
  nav a.active { color: var(--ink); font-weight: 600; }
  .card { background: rgba(255,255,255,0.7); border: 1px solid var(--ledger); border-left: 4px solid var(--ink); padding: 24px; }
  .field { margin-bottom: 12px; }
  .field-label { font-family: monospace; font-size: 0.65rem; font-weight: 600; letter-spacing: 0.1em; text-transform: uppercase; color: var(--muted); display: block; }
  .field-error { color: var(--accent); font-size: 0.75rem; display: block; min-height: 1em; }
  input[type=text], input[type=email], input[type=tel], input[type=date] { width: 100%; padding: 6px 8px; border: 1px solid var(--rule); border-bottom: 2px solid var(--ink); }
  .btn { font-family: monospace; font-weight: 600; padding: 8px 18px; border: 2px solid var(--ink); cursor: pointer; text-transform: uppercase; }
  .btn-primary { background: var(--ink); color: white; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { border-bottom: 1px solid var(--ledger); padding: 6px 8px; text-align: left; font-size: 0.85rem; }
  th { font-family: monospace; font-size: 0.65rem; text-transform: uppercase; color: var(--muted); }
</style>
</head>
<body>
<div class="wrap">
<nav>{{range .Nav}}<a href="/forms/{{.Slug}}"{{if .Active}} class="active"{{end}}>{{.Title}}</a>{{end}}</nav>
<h1>{{.Title}}</h1>

<div class="card">
<form id="entry-form" method="post" action="/forms/{{.Slug}}" novalidate>
{{$slug := .Slug}}
{{range .Fields}}
  {{if eq .Type "hidden"}}
  <input type="hidden" name="{{.Name}}" value="{{.Value}}">
  {{else if .Multi}}
  <fieldset class="field">
    <legend class="field-label">{{.Label}}</legend>
    {{$name := .Name}}{{$focus := .Focus}}
    {{range $i, $o := .Options}}
    <label><input type="checkbox" name="{{$name}}" value="{{$o.Value}}"{{if $o.Checked}} checked{{end}}{{if and $focus (eq $i 0)}} autofocus{{end}}
      hx-post="/forms/{{$slug}}/fields/{{$name}}" hx-trigger="change" hx-include="closest form" hx-target="#{{slot $name}}" hx-swap="outerHTML"> {{$o.Label}}</label>
    {{end}}
    {{template "error-slot" .}}
  </fieldset>
  {{else if eq .Type "checkbox"}}
  <div class="field">
    <label><input type="checkbox" name="{{.Name}}" value="on"{{if .Checked}} checked{{end}}{{if .Focus}} autofocus{{end}}
      hx-post="/forms/{{$slug}}/fields/{{.Name}}" hx-trigger="change" hx-include="closest form" hx-target="#{{slot .Name}}" hx-swap="outerHTML"> {{.Label}}</label>
    {{template "error-slot" .}}
  </div>
  {{else}}
  <div class="field">
    <label class="field-label" for="f-{{.Name}}">{{.Label}}</label>
    <input id="f-{{.Name}}" type="{{.Type}}" name="{{.Name}}" value="{{.Value}}"{{if .Focus}} autofocus{{end}}{{if .Error}} aria-invalid="true"{{end}}
      hx-post="/forms/{{$slug}}/fields/{{.Name}}" hx-trigger="blur changed" hx-include="closest form" hx-target="#{{slot .Name}}" hx-swap="outerHTML">
    {{template "error-slot" .}}
  </div>
  {{end}}
{{end}}
  <button type="submit" class="btn btn-primary">Submit</button>
  <button type="submit" class="btn" formaction="/forms/{{.Slug}}/clear">Clear</button>
</form>
</div>

<table id="records">
  <thead><tr>{{range .Columns}}<th>{{.Header}}</th>{{end}}</tr></thead>
  <tbody>
  {{range .Rows}}<tr>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
  {{end}}
  </tbody>
</table>
<p><a href="/forms/{{.Slug}}/roster.pdf">Download PDF</a> · <a href="/forms/{{.Slug}}/roster.txt">Download fixed-width roster</a></p>
</div>
</body>
</html>`))
