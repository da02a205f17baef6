package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/csg33k/signup-desk/internal/controller"
	"github.com/csg33k/signup-desk/internal/domain"
	"github.com/csg33k/signup-desk/internal/forms"
	"github.com/csg33k/signup-desk/internal/ports"
	"github.com/csg33k/signup-desk/internal/templates"
)

type Handler struct {
	defs      []*forms.Definition
	ctrls     map[string]*controller.Controller
	exporters []ports.RosterExporter
	log       *slog.Logger
}

// New serves one page per controller, in the given order.
func New(ctrls []*controller.Controller, exporters []ports.RosterExporter, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{
		ctrls:     make(map[string]*controller.Controller, len(ctrls)),
		exporters: exporters,
		log:       log,
	}
	for _, c := range ctrls {
		def := c.Definition()
		h.defs = append(h.defs, def)
		h.ctrls[def.Slug] = c
	}
	return h
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /forms/{slug}", h.viewForm)
	mux.HandleFunc("POST /forms/{slug}", h.submit)
	mux.HandleFunc("POST /forms/{slug}/fields/{field}", h.validateField)
	mux.HandleFunc("POST /forms/{slug}/clear", h.clear)
	for _, exp := range h.exporters {
		mux.HandleFunc("GET /forms/{slug}/roster."+exp.Extension(), h.export(exp))
	}
	return h.logRequests(mux)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if len(h.defs) == 0 {
		http.Error(w, "no forms configured", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/forms/"+h.defs[0].Slug, http.StatusFound)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (h *Handler) viewForm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	h.renderPage(w, r, c, c.Open(), http.StatusOK)
}

// submit handles POST /forms/{slug}. Accepted entries redirect back to the
// page, which shows the new row and an empty form; rejected ones re-render
// the page with 422 from the visitor's own values and error slots.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	_, st, err := c.Submit(r.Context(), parseValues(r, c.Definition()))
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		h.renderPage(w, r, c, st, http.StatusUnprocessableEntity)
	case err != nil:
		http.Error(w, err.Error(), 500)
	default:
		http.Redirect(w, r, "/forms/"+c.Definition().Slug, http.StatusSeeOther)
	}
}

// validateField handles blur/change checks and returns the field's error slot.
func (h *Handler) validateField(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	field := r.PathValue("field")
	res, err := c.ValidateField(field, parseValues(r, c.Definition()))
	if err != nil {
		http.Error(w, err.Error(), 404)
		return
	}
	render(w, r, http.StatusOK, templates.ErrorSlot(field, res.Message()))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	h.renderPage(w, r, c, c.Clear(), http.StatusOK)
}

func (h *Handler) export(exp ports.RosterExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := h.controller(w, r)
		if !ok {
			return
		}
		records, err := c.Records(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		var buf bytes.Buffer
		if err := exp.Export(r.Context(), c.Definition(), records, &buf); err != nil {
			h.log.Error("export roster", "form", c.Definition().Slug, "format", exp.Extension(), "err", err)
			http.Error(w, err.Error(), 500)
			return
		}
		filename := fmt.Sprintf("%s_roster_%s.%s", c.Definition().Slug, c.Now().Format("20060102"), exp.Extension())
		w.Header().Set("Content-Type", exp.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.Write(buf.Bytes())
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, c *controller.Controller, st controller.FormState, status int) {
	rows, err := c.Rows(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	render(w, r, status, templates.Page(templates.PageData{
		Forms:     h.defs,
		Form:      c.Definition(),
		Values:    st.Values,
		Errors:    st.Errors,
		Timestamp: st.TimestampValue(),
		Focus:     st.Focus,
		Rows:      rows,
	}))
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*controller.Controller, bool) {
	c, ok := h.ctrls[r.PathValue("slug")]
	if !ok {
		http.NotFound(w, r)
	}
	return c, ok
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

// render writes a templ component to the response. The component is rendered
// into a buffer first so a render error can still become a 500.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// parseValues reads the definition's fields from a parsed form. Several
// checkboxes sharing a name are joined with ",".
func parseValues(r *http.Request, def *forms.Definition) domain.Values {
	values := domain.Values{}
	for _, f := range def.Fields {
		if f.Kind == domain.MultiCheckbox {
			if selected := r.Form[f.Name]; len(selected) > 0 {
				values[f.Name] = strings.Join(selected, ",")
			}
			continue
		}
		if v, ok := r.Form[f.Name]; ok && len(v) > 0 {
			values[f.Name] = v[0]
		}
	}
	return values
}
