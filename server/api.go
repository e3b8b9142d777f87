package server

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dataprep/dataset"
	apperrors "github.com/kbukum/dataprep/errors"
	"github.com/kbukum/dataprep/format"
	"github.com/kbukum/dataprep/logger"
	"github.com/kbukum/dataprep/observability"
	"github.com/kbukum/dataprep/preparation"
	"github.com/kbukum/dataprep/server/endpoint"
	"github.com/kbukum/dataprep/transform"
	"github.com/kbukum/dataprep/validation"
)

// Response headers set by POST /api/v1/transform.
const (
	HeaderStepID   = "X-Step-Id"
	HeaderRows     = "X-Rows"
	HeaderCanceled = "X-Canceled-Actions"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// API binds the transformation service to HTTP routes.
type API struct {
	svc      *transform.Service
	loader   preparation.Loader
	checkers []observability.HealthChecker
	name     string
	version  string
	log      *logger.Logger
}

// APIOption configures an API.
type APIOption func(*API)

// WithLoader resolves the preparation query parameter to a stored preparation.
func WithLoader(l preparation.Loader) APIOption {
	return func(a *API) { a.loader = l }
}

// WithHealthCheckers adds components reported by /health.
func WithHealthCheckers(checkers ...observability.HealthChecker) APIOption {
	return func(a *API) { a.checkers = append(a.checkers, checkers...) }
}

// NewAPI creates the route set of the service.
func NewAPI(svc *transform.Service, serviceName, serviceVersion string, opts ...APIOption) *API {
	a := &API{svc: svc, name: serviceName, version: serviceVersion, log: logger.Get("server")}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register mounts every route on r.
func (a *API) Register(r gin.IRouter) {
	r.GET("/health", endpoint.Health(a.name, a.version, a.checkers...))
	r.GET("/version", endpoint.Version())

	v1 := r.Group("/api/v1")
	v1.POST("/transform", a.transform)
	v1.GET("/actions", a.actions)
	v1.GET("/metadata/:stepId", a.metadata)
}

// transformQuery holds the query parameters of POST /api/v1/transform.
type transformQuery struct {
	format      string
	preparation string
	separator   string
	noHeader    bool
	analyze     bool
	preview     bool
}

func parseTransformQuery(c *gin.Context) (transformQuery, error) {
	q := transformQuery{
		format:      strings.ToLower(c.Query("format")),
		preparation: c.Query("preparation"),
		separator:   c.Query("separator"),
	}
	v := validation.New().
		OneOf("format", q.format, []string{formatJSON, formatCSV}).
		Pattern("preparation", q.preparation, `^[A-Za-z0-9_-]+$`).
		Custom(len([]rune(q.separator)) <= 1, "separator", "must be a single character")
	flags := []struct {
		name string
		dst  *bool
	}{{"analyze", &q.analyze}, {"preview", &q.preview}, {"noHeader", &q.noHeader}}
	for _, f := range flags {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		v.Custom(err == nil, f.name, "must be a boolean")
		*f.dst = b
	}
	if appErr := v.Validate(); appErr != nil {
		return q, appErr
	}
	return q, nil
}

// transform runs a preparation. The dataset is either the request body or,
// for multipart requests, the "dataset" file part; a multipart request may
// carry the preparation inline in a "preparation" part. The envelope is
// buffered so failures still produce an error body.
func (a *API) transform(c *gin.Context) {
	q, err := parseTransformQuery(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	body, filename, err := a.openDataSet(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	defer body.Close()

	prep, err := a.resolvePreparation(c, q)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	ds, err := readDataSet(body, detectFormat(q, filename, c.ContentType()), q)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	var res *transform.Result
	if q.preview {
		res, err = a.svc.Preview(c.Request.Context(), ds, prep, nil, &buf)
	} else {
		res, err = a.svc.Transform(c.Request.Context(), transform.Request{
			DataSet:     ds,
			Preparation: prep,
			Output:      &buf,
			Analyze:     q.analyze,
		})
	}
	if err != nil {
		a.log.Warn("transformation failed", logger.ErrorFields("transform", err))
		RespondWithError(c, err)
		return
	}

	c.Header(HeaderStepID, res.StepID)
	c.Header(HeaderRows, strconv.FormatInt(res.Rows, 10))
	if len(res.Canceled) > 0 {
		c.Header(HeaderCanceled, strings.Join(res.Canceled, ","))
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

func (a *API) openDataSet(c *gin.Context) (io.ReadCloser, string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return io.NopCloser(c.Request.Body), "", nil
	}
	fh, err := c.FormFile("dataset")
	if err != nil {
		return nil, "", apperrors.InvalidInput("dataset", "is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", apperrors.Parse("dataset", err)
	}
	return f, fh.Filename, nil
}

func (a *API) resolvePreparation(c *gin.Context, q transformQuery) (*preparation.Preparation, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if inline := c.PostForm("preparation"); inline != "" {
			return preparation.Parse([]byte(inline))
		}
	}
	if q.preparation == "" {
		return nil, nil
	}
	if a.loader == nil {
		return nil, apperrors.NotFound("preparation", q.preparation)
	}
	return a.loader.Load(q.preparation)
}

// detectFormat prefers the explicit query parameter, then the file
// extension, then the content type. JSON is the default.
func detectFormat(q transformQuery, filename, contentType string) string {
	switch {
	case q.format != "":
		return q.format
	case strings.EqualFold(filepath.Ext(filename), ".csv"):
		return formatCSV
	case contentType == "text/csv":
		return formatCSV
	}
	return formatJSON
}

func readDataSet(r io.Reader, f string, q transformQuery) (*dataset.DataSet, error) {
	if f == formatCSV {
		opts := format.CSVOptions{NoHeader: q.noHeader}
		if q.separator != "" {
			opts.Separator = []rune(q.separator)[0]
		}
		return format.ReadCSV(r, opts)
	}
	return format.ReadJSON(r)
}

func (a *API) actions(c *gin.Context) {
	RespondOK(c, a.svc.Registry().Describe())
}

func (a *API) metadata(c *gin.Context) {
	stepID := c.Param("stepId")
	if _, err := validation.ValidateUUID("stepId", stepID); err != nil {
		RespondWithError(c, err)
		return
	}
	md, err := a.svc.CachedMetadata(c.Request.Context(), stepID)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, md)
}
