package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/server/endpoint"
	"github.com/kbukum/voicy/server/middleware"
)

// shutdownGrace caps Stop when the caller's context has a later deadline.
const shutdownGrace = 5 * time.Second

// Server serves Gin over HTTP/1.1 and cleartext HTTP/2.
type Server struct {
	cfg    Config
	engine *gin.Engine
	http   *http.Server
	log    *logger.Logger

	mu       sync.RWMutex
	listener net.Addr
}

// New builds a Server with an empty engine. Call ApplyDefaults before
// mounting application routes so the middleware wraps them.
func New(cfg Config, log *logger.Logger) *Server {
	mode := gin.ReleaseMode
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)

	engine := gin.New()
	h2 := &http2.Server{MaxConcurrentStreams: 250, IdleTimeout: 2 * time.Minute}
	return &Server{
		cfg:    cfg,
		engine: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           h2c.NewHandler(engine, h2),
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		log: log.WithComponent("server"),
	}
}

// Engine exposes the Gin engine for route registration.
func (s *Server) Engine() *gin.Engine { return s.engine }

// ApplyDefaults installs the middleware chain and the probe endpoints:
// recovery, request id, body limit and request logging, then /health,
// /ready, /alive and /version.
func (s *Server) ApplyDefaults(serviceName string, checker endpoint.HealthChecker) {
	chain := []gin.HandlerFunc{middleware.Recovery(s.log), middleware.RequestID()}
	if s.cfg.MaxBodyBytes > 0 {
		chain = append(chain, middleware.BodySizeLimit(s.cfg.MaxBodyBytes))
	}
	s.engine.Use(append(chain, middleware.RequestLogger(s.log))...)

	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/ready", endpoint.Readiness(serviceName, checker))
	s.engine.GET("/alive", endpoint.Liveness(serviceName))
	s.engine.GET("/version", endpoint.Version())
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln.Addr()
	s.mu.Unlock()

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("http serve failed")
		}
	}()
	s.log.Info("http server listening", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop lets in-flight requests finish, within shutdownGrace at most.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()
	s.log.Info("http server stopped")
	return nil
}

// Listening reports whether Start has bound a port.
func (s *Server) Listening() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listener != nil
}

// Addr is the bound address after Start, the configured one otherwise.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.String()
	}
	return s.http.Addr
}
