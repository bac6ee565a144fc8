// Package web exposes the hours-log service over HTTP.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/hourslog/internal/config"
	"github.com/JonMunkholm/hourslog/internal/core"
	"github.com/JonMunkholm/hourslog/internal/web/middleware"
)

// Server is the HTTP front of a core.Service.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	limiter *rateLimiter
	server  *http.Server
}

// NewServer wires routes and middleware for service.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.limiter = newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.NotFound(handleNotFound)
	s.router.MethodNotAllowed(handleMethodNotAllowed)

	s.router.Get("/list-sheets", s.handleListSheets)
	s.router.Get("/status", s.handleStatus)
	s.router.Get("/openapi.yaml", handleOpenAPI)

	// {owner} is kept for URL compatibility with existing consumers.
	s.router.Route("/hours-log/{owner}", func(r chi.Router) {
		r.Get("/sheet/{dateRange}.json", s.handleSheetByPath)
		r.Post("/sheet.json", s.handleSheetByBody)
		r.Get("/sheet/all-data/{dateRange}.json", s.handleAllDataByPath)
		r.Post("/sheet/all-data.json", s.handleAllDataByBody)
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
