package http

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/climate-viz/internal/adapter/http/web"
	"github.com/couchcryptid/climate-viz/internal/config"
	"github.com/couchcryptid/climate-viz/internal/dataset"
	"github.com/couchcryptid/climate-viz/internal/domain"
	"github.com/couchcryptid/climate-viz/internal/observability"
	"github.com/couchcryptid/climate-viz/internal/report"
	"github.com/couchcryptid/climate-viz/internal/storefront"
)

// PageStore holds the rendered report pages.
type PageStore interface {
	File(name string) ([]byte, bool)
	Pages() []report.PageInfo
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Ready    sharedobs.ReadinessChecker
	Pages    PageStore
	Explorer report.Explorer
	Store    *storefront.Store
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// Server serves the fruit store, the rendered charts, and health, readiness
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Logger))

	tmpl, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	limiter := rate.NewLimiter(rate.Limit(cfg.CheckoutRateLimit), cfg.CheckoutBurst)
	deps.Store.Register(router, rateLimit(limiter, deps.Metrics))

	charts := &chartHandler{pages: deps.Pages, explorer: deps.Explorer, logger: deps.Logger}
	router.GET("/charts", charts.index)
	router.GET("/charts/:file", charts.file)
	router.GET("/explore/:dataset/:column", charts.explore)

	router.GET("/healthz", gin.WrapF(sharedobs.LivenessHandler()))
	router.GET("/readyz", gin.WrapF(sharedobs.ReadinessHandler(deps.Ready)))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: deps.Logger,
	}, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type chartHandler struct {
	pages    PageStore
	explorer report.Explorer
	logger   *slog.Logger
}

func (h *chartHandler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "charts.html", gin.H{
		"Title": "Charts",
		"Pages": h.pages.Pages(),
	})
}

func (h *chartHandler) file(c *gin.Context) {
	name := c.Param("file")
	data, ok := h.pages.File(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "chart not found"})
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Data(http.StatusOK, contentType, data)
}

func (h *chartHandler) explore(c *gin.Context) {
	page, err := h.explorer.Explore(c.Request.Context(), c.Param("dataset"), c.Param("column"))
	switch {
	case err == nil:
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	case errors.Is(err, report.ErrUnknownDataset), errors.Is(err, dataset.ErrUnknownColumn):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptySeries):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("explore failed", "dataset", c.Param("dataset"), "column", c.Param("column"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
	}
}

// rateLimit rejects requests beyond the limiter's budget with 429.
func rateLimit(limiter *rate.Limiter, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			metrics.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"duration", time.Since(start),
		)
	}
}
