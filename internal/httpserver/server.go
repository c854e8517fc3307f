package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tracepulse/tracepulse/internal/history"
	"github.com/tracepulse/tracepulse/internal/model"
)

// AnalysisStore is the narrow store contract required by the HTTP API.
type AnalysisStore interface {
	List(limit int) ([]history.Summary, error)
	Search(term string) ([]history.Summary, error)
	Get(name string) (*model.Report, error)
	Delete(name string) error
	Count() (int64, error)
}

// Server provides an HTTP API over stored trace analyses.
type Server struct {
	addr      string
	store     AnalysisStore
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store AnalysisStore) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		store:  store,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s.registerRoutes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/analyses", s.handleList)
	r.GET("/api/analyses/:name", s.handleGet)
	r.GET("/api/analyses/:name/report", s.handleReport)
	r.DELETE("/api/analyses/:name", s.handleDelete)
}

func (s *Server) handleHealth(c *gin.Context) {
	count, err := s.store.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime":         time.Since(s.startTime).String(),
		"analysis_count": count,
	})
}

func (s *Server) handleList(c *gin.Context) {
	var (
		summaries []history.Summary
		err       error
	)
	if term := c.Query("q"); term != "" {
		summaries, err = s.store.Search(term)
	} else {
		summaries, err = s.store.List(50)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analyses"})
		return
	}

	if summaries == nil {
		summaries = []history.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{
		"analyses": summaries,
		"count":    len(summaries),
	})
}

func (s *Server) handleGet(c *gin.Context) {
	report, ok := s.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metadata":        report.Metadata,
		"metrics":         report.Metrics,
		"complexityScore": report.ComplexityScore,
		"recommendations": report.Recommendations,
	})
}

func (s *Server) handleReport(c *gin.Context) {
	report, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleDelete(c *gin.Context) {
	name := c.Param("name")
	err := s.store.Delete(name)
	if errors.Is(err, history.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis named " + name})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}

func (s *Server) lookup(c *gin.Context) (*model.Report, bool) {
	name := c.Param("name")
	report, err := s.store.Get(name)
	if errors.Is(err, history.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis named " + name})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis"})
		return nil, false
	}
	return report, true
}
