package export

import (
	_ "embed"
	"html/template"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/qadesk/qadesk/model"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

// HTML renders a standalone HTML page. Screenshots are linked, not inlined.
type HTML struct {
	// Maps a stored screenshot reference to a filesystem path
	ResolvePath func(ref string) string
}

func (HTML) Name() string     { return "html" }
func (HTML) Filename() string { return "qa_export.html" }

type htmlView struct {
	Generated string
	Scenarios []model.TestScenario
	Cases     []model.TestCase
	Bugs      []model.BugReport
}

func (h HTML) Render(w io.Writer, doc Document) error {
	tmpl, err := h.template()
	if err != nil {
		return err
	}
	return tmpl.Execute(w, htmlView{
		Generated: doc.Generated.Format(generatedLayout),
		Scenarios: doc.Data.Scenarios,
		Cases:     doc.Data.Cases,
		Bugs:      doc.Data.Bugs,
	})
}

func (h HTML) template() (*template.Template, error) {
	return template.New("report.html").
		Funcs(template.FuncMap{
			"ref":      refText,
			"headline": headline,
			"imageURL": h.imageURL,
		}).
		Parse(reportTemplate)
}

// imageURL turns a screenshot reference into an <img> source. Backslashes
// become slashes. Absolute paths become file:// URLs and relative paths stay
// relative to the report.
func (h HTML) imageURL(ref model.Path) template.URL {
	p := string(ref)
	if h.ResolvePath != nil {
		p = h.ResolvePath(p)
	}
	p = strings.ReplaceAll(p, "\\", "/")

	switch {
	case strings.HasPrefix(p, "/"):
		u := url.URL{Scheme: "file", Path: p}
		return template.URL(u.String())
	case windowsDrive.MatchString(p):
		u := url.URL{Scheme: "file", Path: "/" + p}
		return template.URL(u.String())
	}
	u := url.URL{Path: p}
	return template.URL(u.String())
}

var windowsDrive = regexp.MustCompile(`^[A-Za-z]:/`)
