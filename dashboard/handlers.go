package dashboard

// this file implements the controllers of the dashboard routes.

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"trackdash/catalog"
	"trackdash/datastore"
	"trackdash/table"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

var (
	errUploadDisabled = errors.New("uploads are not enabled on this server")
	errNoLibrary      = errors.New("no audio library is configured")
)

func (d *Dashboard) registerRoutes(r gin.IRouter) {
	r.GET("/", d.GetIndex)

	r.GET("/upload", d.GetUpload)
	r.POST("/upload", d.PostUpload)
	r.GET("/datasets/:id", d.GetDataset)

	r.GET("/library", d.GetLibrary)
}

// GetIndex handles: GET /
//
// Query:
//
//   - song: song name to filter on, "All" or absent for every row
//
// Renders the configured dataset file. A file that cannot be read is a
// 500 with the error on the page. Without a configured file, redirects
// to the upload form.
func (d *Dashboard) GetIndex(c *gin.Context) {
	if d.DatasetPath == "" {
		c.Redirect(http.StatusFound, "/upload")
		return
	}

	t, err := table.Load(d.DatasetPath)
	if err != nil {
		logger.WithError(err).Error("GetIndex: load dataset failed")
		d.errorPage(c, http.StatusInternalServerError, err)
		return
	}

	d.renderTable(c, t, filepath.Base(d.DatasetPath))
}

// GetUpload handles: GET /upload
//
// Shows the upload form, awaiting a file.
func (d *Dashboard) GetUpload(c *gin.Context) {
	d.uploadForm(c, http.StatusOK, "")
}

// PostUpload handles: POST /upload
//
// Body: multipart/form-data
//
//   - file: the CSV file: curl -F 'file=@tracks.csv'
//
// The file is stored and catalogued, then the client is redirected to
// its dashboard. On any failure, the upload form is shown again with
// the error, so that the user can retry.
//
//   - 303: See Other: /datasets/{id}
//   - 400: no file given
//   - 413: file too large
//   - 422: not a csv, or not a readable table
//   - 500: storing failed
func (d *Dashboard) PostUpload(c *gin.Context) {
	if d.Store == nil {
		d.uploadForm(c, http.StatusServiceUnavailable, errUploadDisabled.Error())
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		d.uploadForm(c, http.StatusBadRequest, "no file given: choose a CSV file to upload")
		return
	}

	if code, err := checkUpload(fh, d.MaxUploadBytes); err != nil {
		d.uploadForm(c, code, err.Error())
		return
	}

	f, err := fh.Open()
	if err != nil {
		d.uploadForm(c, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	ds, err := d.Store.Save(c, fh.Filename, f)
	switch {
	case errors.Is(err, datastore.ErrInvalidCSV):
		d.uploadForm(c, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		logger.WithField("file", fh.Filename).
			WithError(err).
			Error("PostUpload: Save failed")
		d.uploadForm(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/datasets/%d", ds.ID))
}

// checkUpload returns the status code and error for an unacceptable
// upload, or 0, nil.
func checkUpload(fh *multipart.FileHeader, maxBytes int64) (int, error) {
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".csv" {
		return http.StatusUnprocessableEntity,
			fmt.Errorf("%q is not a .csv file", fh.Filename)
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return http.StatusRequestEntityTooLarge,
			fmt.Errorf("file is %s, the limit is %s",
				humanize.Bytes(uint64(fh.Size)), humanize.Bytes(uint64(maxBytes)))
	}
	return 0, nil
}

func (d *Dashboard) uploadForm(c *gin.Context, code int, errMsg string) {
	v := view{Title: "Upload a dataset", Error: errMsg}
	if d.Store != nil {
		ds, err := catalog.ListDatasets(c)
		if err != nil {
			logger.WithError(err).Warn("uploadForm: ListDatasets failed")
		}
		v.Datasets = ds
	}
	d.html(c, code, "upload", v)
}

// GetDataset handles: GET /datasets/:id
//
// Query:
//
//   - song: song name to filter on, "All" or absent for every row
//
// Response:
//
//   - 200: the dashboard of the stored dataset
//   - 400: bad id
//   - 404: unknown dataset
//   - 500: stored file unreadable
func (d *Dashboard) GetDataset(c *gin.Context) {
	if d.Store == nil {
		d.errorPage(c, http.StatusNotFound, errUploadDisabled)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		d.errorPage(c, http.StatusBadRequest, fmt.Errorf("bad dataset id %q", c.Param("id")))
		return
	}

	t, ds, err := d.Store.Open(c, uint(id))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		d.errorPage(c, http.StatusNotFound, err)
		return
	case err != nil:
		logger.WithField("id", id).WithError(err).Error("GetDataset: Open failed")
		d.errorPage(c, http.StatusInternalServerError, err)
		return
	}

	d.renderTable(c, t, ds.Name)
}

// GetLibrary handles: GET /library
//
// Renders the table read from the tags of the audio library.
func (d *Dashboard) GetLibrary(c *gin.Context) {
	if d.LibraryDir == "" {
		d.errorPage(c, http.StatusNotFound, errNoLibrary)
		return
	}

	t, err := datastore.LibraryTable(d.LibraryDir)
	if err != nil {
		logger.WithError(err).Error("GetLibrary: LibraryTable failed")
		d.errorPage(c, http.StatusInternalServerError, err)
		return
	}

	d.renderTable(c, t, "audio library "+filepath.Base(d.LibraryDir))
}
