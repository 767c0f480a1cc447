package site

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/danmuck/markview/internal/observability"
	"github.com/danmuck/markview/internal/views"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Site serves the marking views over HTTP.
type Site struct {
	Name     string
	Addr     string
	Appeared time.Time

	renderer *Renderer
	router   *gin.Engine
}

func Appear(name, addr string, corsOrigins []string, renderer *Renderer) *Site {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Site{
		Name:     name,
		Addr:     addr,
		Appeared: time.Now(),
		renderer: renderer,
		router:   r,
	}
}

func (s *Site) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Site) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": "0.0.1",
		})
	})

	static, err := fs.Sub(views.ContentFS, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("embedded static assets missing")
	}
	s.router.StaticFS("/static", http.FS(static))

	s.router.NoRoute(s.handlePage)
}

// handlePage is the display adapter: every path outside the fixed routes goes
// through the view dispatch table.
func (s *Site) handlePage(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Set(observability.ViewKey, "method_not_allowed")
		c.Status(http.StatusMethodNotAllowed)
		return
	}
	// Resolve decodes ids itself, so it gets the raw path.
	page := s.renderer.RenderPath(c.Request.Context(), c.Request.URL.EscapedPath(), c.Request.URL.Query())
	c.Set(observability.ViewKey, page.View.String())

	doc, err := s.renderer.Views().Document(page)
	if err != nil {
		log.Error().
			Str("path", c.Request.URL.Path).
			Err(err).
			Msg("document_render_failed")
		c.String(http.StatusInternalServerError, views.FailureMessage(page.View))
		return
	}
	c.Data(page.Status, "text/html; charset=utf-8", doc)
}

func (s *Site) Serve() error {
	s.RegisterRoutes()
	return s.router.Run(s.Addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
