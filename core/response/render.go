package response

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"maps"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/conduit/internal/proof"
)

// ErrNoViewEngine is returned by Render when no view engine is configured.
var ErrNoViewEngine = errors.New("response: no view engine configured")

// ViewEngine renders a named view.
type ViewEngine interface {
	Render(w io.Writer, name string, data any) error
}

// Templates is a ViewEngine backed by html/template.
type Templates struct {
	t *template.Template
}

// NewTemplates parses the templates in fsys matching patterns.
func NewTemplates(fsys fs.FS, patterns ...string) (*Templates, error) {
	t, err := template.ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("response: parse templates: %w", err)
	}
	return &Templates{t: t}, nil
}

// TemplatesFrom wraps an already parsed template set.
func TemplatesFrom(t *template.Template) *Templates {
	return &Templates{t: t}
}

// Render executes the template called name.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	return t.t.ExecuteTemplate(w, name, data)
}

// Render renders a view with data and sends it as HTML. Map data is merged
// over Locals. The view is buffered; on error nothing has been written and
// the caller should forward the error with next.Fail.
func (r *Response) Render(view string, data any) (proof.Done, error) {
	if r.views == nil {
		return proof.Done{}, ErrNoViewEngine
	}

	if len(r.locals) > 0 {
		switch d := data.(type) {
		case nil:
			data = maps.Clone(r.locals)
		case map[string]any:
			merged := maps.Clone(r.locals)
			maps.Copy(merged, d)
			data = merged
		}
	}

	var buf bytes.Buffer
	if err := r.views.Render(&buf, view, data); err != nil {
		return proof.Done{}, fmt.Errorf("response: render %q: %w", view, err)
	}
	r.SetHeader("Content-Type", typeHTML)
	return r.send(buf.Bytes(), typeHTML), nil
}

// RenderComponent renders a templ component with the request context and
// sends it as HTML.
func (r *Response) RenderComponent(c templ.Component) (proof.Done, error) {
	var buf bytes.Buffer
	if err := c.Render(r.req.Raw().Context(), &buf); err != nil {
		return proof.Done{}, fmt.Errorf("response: render component: %w", err)
	}
	r.SetHeader("Content-Type", typeHTML)
	return r.send(buf.Bytes(), typeHTML), nil
}
