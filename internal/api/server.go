// Package api exposes the connectors over HTTP for hosts that are not
// driven by a workflow engine.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentry-taiga/internal/common/logger"
	"sentry-taiga/internal/common/metrics"
	"sentry-taiga/internal/items"
)

const requestIDHeader = "X-Request-ID"

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type Dependencies struct {
	Items       *items.Service
	Logger      logger.Logger
	ReadyChecks map[string]ReadyCheck
	// MetricsHandler defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

type Server struct {
	items       *items.Service
	logger      logger.Logger
	readyChecks map[string]ReadyCheck
	router      chi.Router
}

func NewServer(deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	s := &Server{
		items:       deps.Items,
		logger:      log,
		readyChecks: deps.ReadyChecks,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimw.RealIP)
	r.Use(s.recoverer)
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1/plugins", func(r chi.Router) {
		r.Get("/", s.listPlugins)
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", s.getPlugin)
			r.Route("/projects/{projectID}", func(r chi.Router) {
				r.Get("/configured", s.getConfigured)
				r.Get("/options", s.getOptions)
				r.Put("/options", s.putOptions)
				r.Post("/items", s.createItem)
				r.Get("/items/{ref}", s.getItem)
			})
		})
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestID propagates X-Request-ID, minting a uuid when absent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("Panic while serving request", map[string]interface{}{
					"panic":     rec,
					"path":      r.URL.Path,
					"requestId": r.Header.Get(requestIDHeader),
				})
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.APIRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()

		s.logger.Debug("HTTP request", map[string]interface{}{
			"method":     r.Method,
			"route":      route,
			"status":     status,
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  r.Header.Get(requestIDHeader),
		})
	})
}
