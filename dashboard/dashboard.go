// Package dashboard serves the report pages.
//
// Every request to a dashboard route is one render pass: the dataset
// is loaded, filtered by the song query parameter and rendered from
// scratch. Nothing computed survives the request.
//
// Exposure Routes:
//   - GET  /: the configured dataset file
//   - GET  /upload: upload form
//   - POST /upload: store a CSV, redirect to its dashboard
//   - GET  /datasets/:id: a stored upload
//   - GET  /library: the configured audio library
package dashboard

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"trackdash/datastore"
	"trackdash/model"
	"trackdash/report"
	"trackdash/table"

	"github.com/cdfmlr/crud/log"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

var logger = log.ZoneLogger("trackdash/dashboard")

//go:embed templates/*.html
var templatesFS embed.FS

const pageTitle = "Track Data Exploration Dashboard"

// Options of a Dashboard.
type Options struct {
	// DatasetPath is the CSV served on /. Empty: / redirects to the
	// upload form.
	DatasetPath string
	// LibraryDir is the audio library served on /library. Empty: no
	// library route.
	LibraryDir string
	// Footer is the status text at the bottom of every page.
	Footer string
	// MaxUploadBytes limits the size of an uploaded CSV. 0: no limit.
	MaxUploadBytes int64
}

// Dashboard renders report pages for the configured data sources.
type Dashboard struct {
	Options
	Store *datastore.Store // nil disables uploads

	tmpl *template.Template
}

// NewDashboard parses the page templates and registers the routes on
// router.
func NewDashboard(opts Options, store *datastore.Store, router gin.IRouter) (*Dashboard, error) {
	tmpl, err := template.New("").
		Funcs(template.FuncMap{
			"pngURL": pngURL,
			"join":   strings.Join,
		}).
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("NewDashboard: parse templates failed: %w", err)
	}

	d := &Dashboard{
		Options: opts,
		Store:   store,
		tmpl:    tmpl,
	}

	d.registerRoutes(router)

	return d, nil
}

// pngURL inlines a PNG chart as a data URL.
func pngURL(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// view is the data of every page template.
type view struct {
	Title    string
	Source   string
	Action   string // where the song filter form submits to
	Footer   string
	Page     *report.Page
	Datasets []model.Dataset
	Error    string
}

func (d *Dashboard) html(c *gin.Context, code int, name string, v view) {
	if v.Title == "" {
		v.Title = pageTitle
	}
	v.Footer = d.Footer
	c.Render(code, render.HTML{Template: d.tmpl, Name: name, Data: v})
}

func (d *Dashboard) errorPage(c *gin.Context, code int, err error) {
	d.html(c, code, "error", view{Error: err.Error()})
}

// renderTable is one render pass over t.
func (d *Dashboard) renderTable(c *gin.Context, t *table.Table, source string) {
	page := report.Render(t, c.Query("song"))

	logger.WithField("source", source).
		WithField("song", page.Selection).
		WithField("rows", page.Rows).
		WithField("cards", len(page.Cards)).
		Debug("renderTable: done")

	d.html(c, http.StatusOK, "dashboard", view{
		Source: source,
		Action: c.Request.URL.Path,
		Page:   page,
	})
}
