// Package server exposes the attribution pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/config"
	"github.com/sonwamoh/perfomance-attribution/date"
	"github.com/sonwamoh/perfomance-attribution/logger"
	"github.com/sonwamoh/perfomance-attribution/metrics"
)

// Server is the HTTP API.
type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
	src    attribution.PriceSource
	logger *zap.Logger
	today  func() date.Date
}

// New returns a server reading prices from src. Metrics are recorded in m,
// and /metrics serves gatherer when it is not nil.
func New(cfg config.ServerConfig, src attribution.PriceSource, m *metrics.Metrics, gatherer prometheus.Gatherer, l *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		engine: gin.New(),
		src:    src,
		logger: logger.OrNop(l).Named("server"),
		today:  date.Today,
	}
	s.engine.Use(gin.Recovery(), requestID(), observe(s.logger, m))
	s.Register(s.engine)
	if gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return s
}

// Register adds the API routes to r.
func (s *Server) Register(r gin.IRoutes) {
	r.GET("/healthz", s.health)
	r.POST("/build-portfolio", s.build)
	r.POST("/portfolio-returns", s.returns)
	r.POST("/portfolio-attribution", s.attribute)
	r.POST("/link", s.link)
}

// Handler returns the http.Handler of the API.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on cfg.HTTPAddr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
