// Package webview serves the enriched dataset over HTTP.
package webview

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"textqa-enrich/internal/dataset"
	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/pipeline"
	"textqa-enrich/internal/processor"
	"textqa-enrich/internal/types"
	"textqa-enrich/internal/viewer"
)

const defaultProcessTimeout = 40 * time.Second

// Server reads the dataset on every request so a run that finishes while the server is up
// shows immediately.
type Server struct {
	path   string
	driver *pipeline.Driver
}

// New returns a server for the dataset at path. driver may be nil, which disables /process.
func New(path string, driver *pipeline.Driver) *Server {
	return &Server{path: path, driver: driver}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	funcs := template.FuncMap{"inc": func(i int) int { return i + 1 }}
	r.SetHTMLTemplate(template.Must(template.New("index").Funcs(funcs).Parse(indexHTML)))

	r.GET("/", s.IndexPage)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/process", s.Process)

	api := r.Group("/api")
	{
		api.GET("/rows", s.ListRows)
		api.GET("/rows/:n", s.GetRow)
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.New().WithRequest(c.Request).WithFields(map[string]interface{}{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	}
}

func (s *Server) load(c *gin.Context) (types.Dataset, error) {
	ds, err := dataset.Load(c.Request.Context(), s.path)
	if err != nil {
		logger.New().WithRequest(c.Request).WithError(err).Warn("dataset load failed")
	}
	return ds, err
}

func loadStatus(err error) int {
	if errors.Is(err, dataset.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

type indexData struct {
	Error    string
	Titles   []string
	Selected int
	Doc      *viewer.Document
	Total    int
}

// IndexPage renders the selector and the chosen document (?doc=N, 1-based).
func (s *Server) IndexPage(c *gin.Context) {
	ds, err := s.load(c)
	if err != nil {
		c.HTML(loadStatus(err), "index", indexData{Error: "Could not load dataset: " + err.Error()})
		return
	}
	data := indexData{Titles: viewer.Titles(ds), Total: ds.Len()}
	n := 1
	if v := c.Query("doc"); v != "" {
		if parsed, perr := strconv.Atoi(v); perr == nil {
			n = parsed
		}
	}
	if doc, ok := viewer.Build(ds, n-1); ok {
		data.Selected = n
		data.Doc = &doc
	}
	c.HTML(http.StatusOK, "index", data)
}

func (s *Server) ListRows(c *gin.Context) {
	ds, err := s.load(c)
	if err != nil {
		c.JSON(loadStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_rows": ds.Len(),
		"columns":    ds.Columns,
		"documents":  viewer.Titles(ds),
		"summary":    dataset.Summarize(ds),
	})
}

// GetRow returns document n (1-based).
func (s *Server) GetRow(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row number must be an integer"})
		return
	}
	ds, err := s.load(c)
	if err != nil {
		c.JSON(loadStatus(err), gin.H{"error": err.Error()})
		return
	}
	doc, ok := viewer.Build(ds, n-1)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such document"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Process enriches ?text= on its own. The dataset file is only read, for comparison.
func (s *Server) Process(c *gin.Context) {
	reqLog := logger.New().WithRequest(c.Request).WithField("handler", "process")
	if s.driver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "enrichment is not configured"})
		return
	}
	text := c.Query("text")
	if text == "" {
		reqLog.Warn("missing text")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing text"})
		return
	}
	timeout := defaultProcessTimeout
	if t, err := strconv.Atoi(c.Query("timeout_sec")); err == nil && t > 0 {
		timeout = time.Duration(t) * time.Second
	}

	var summary dataset.DatasetSummary
	if ds, err := dataset.Load(c.Request.Context(), s.path); err == nil {
		summary = dataset.Summarize(ds)
	}

	res, err := processor.ProcessText(c.Request.Context(), s.driver, text, timeout, summary)
	reqLog.WithField("duration_ms", res.DurationMs).Info("processor finished")
	if err != nil {
		reqLog.WithError(err).Warn("processor returned error")
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
