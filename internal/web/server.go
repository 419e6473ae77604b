package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/abhisek/glucoguard/internal/risk"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const shutdownTimeout = 10 * time.Second

// Options configures the HTTP server.
type Options struct {
	Env    string // "prod"/"production" switches gin to release mode
	Logger zerolog.Logger
}

// Server serves the HTML form, the JSON scoring API and a health probe.
type Server struct {
	scorer *risk.Scorer
	engine *gin.Engine
	logger zerolog.Logger
}

// New builds a server scoring with s.
func New(s *risk.Scorer, opts Options) (*Server, error) {
	if opts.Env == "prod" || opts.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	srv := &Server{
		scorer: s,
		engine: gin.New(),
		logger: opts.Logger,
	}
	srv.engine.SetHTMLTemplate(tmpl)
	srv.engine.Use(requestID(), accessLogger(srv.logger), gin.Recovery())
	srv.routes()
	return srv, nil
}

func (s *Server) routes() {
	s.engine.GET("/health/self", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "true"})
	})

	s.engine.GET("/", s.index)
	s.engine.POST("/", s.submit)

	api := s.engine.Group("/api/v1")
	api.POST("/score", s.score)
	api.GET("/bundle", s.bundleInfo)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
