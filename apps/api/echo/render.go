package echoapi

import (
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hazekiller/gyan/core/exam"
)

const broadsheetTemplate = "broadsheet.gohtml"

var templateFuncs = template.FuncMap{
	"marks": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"deref": func(v *float64) float64 { return *v },
	"roll": func(roll *int) string {
		if roll == nil {
			return "-"
		}
		return strconv.Itoa(*roll)
	},
	"cols": func(bs exam.Broadsheet) int { return len(bs.Columns) + 5 },
}

type htmlRenderer struct {
	templates *template.Template
}

var _ echo.Renderer = (*htmlRenderer)(nil)

// newHTMLRenderer parses the printable pages under dir of fsys.
func newHTMLRenderer(fsys fs.FS, dir string) (*htmlRenderer, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(fsys, dir+"/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parsing html templates")
	}
	return &htmlRenderer{templates: tmpl}, nil
}

func (r *htmlRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
