package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data every dashboard template receives.
type Page struct {
	Current View
	Nav     []View
	Data    interface{}
}

// Renderer renders dashboard views. It implements echo.Renderer; the template
// name is the view name.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer parses the embedded templates, one set per view sharing the
// layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(views))}
	for _, v := range Views() {
		t, err := template.New(v.String()).ParseFS(templateFS, "templates/layout.html", "templates/"+v.String()+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", v, err)
		}
		r.pages[v.String()] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("no template for view %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
