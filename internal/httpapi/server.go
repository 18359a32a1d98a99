// Package httpapi is the JSON boundary of the dashboard. Handlers validate
// input, call into the ledger and calculators, and render plain JSON; no
// business rule lives here.
package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"budgeteer/internal/ledger"
	applog "budgeteer/internal/log"
	"budgeteer/internal/metrics"
	"budgeteer/internal/reminder"
	"budgeteer/internal/taxonomy"
	"budgeteer/internal/weather"
)

type Server struct {
	http.Server
	mux *http.ServeMux

	ledger     *ledger.Ledger
	reminders  *reminder.Store
	categories *taxonomy.Categories
	weather    *weather.Poller
	metrics    *metrics.Set

	defaultState string
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

type Option func(*Server)

// WithWeather attaches a running poller; without it the weather endpoint
// reports unavailable.
func WithWeather(p *weather.Poller) Option {
	return func(s *Server) { s.weather = p }
}

func WithMetrics(m *metrics.Set, handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = m
		if handler != nil {
			s.mux.Handle("GET /metrics", handler)
		}
	}
}

func WithDefaultState(state string) Option {
	return func(s *Server) { s.defaultState = state }
}

// WithLogger threads a request-scoped component logger through every
// handler's context.
func WithLogger(logger *applog.Logger) Option {
	return func(s *Server) {
		s.Server.Handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(s.Server.Handler)
	}
}

// NewServer configures all routes and returns a ready-to-run server.
func NewServer(addr string, l *ledger.Ledger, rem *reminder.Store, cats *taxonomy.Categories, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server:       http.Server{Addr: addr, Handler: mux},
		mux:          mux,
		ledger:       l,
		reminders:    rem,
		categories:   cats,
		defaultState: "California",
		rateLimiter:  newRateLimiter(60),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.guard(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.guard(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.guard(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.guard(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/goals", s.guard(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.guard(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.guard(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.guard(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/contribute", s.guard(s.handleContribute))
	mux.HandleFunc("POST /api/goals/{id}/progress", s.guard(s.handleSetProgress))
	mux.HandleFunc("GET /api/goals/{id}/projection", s.guard(s.handleProjection))
	mux.HandleFunc("GET /api/goals/{id}/rebalance", s.guard(s.handleRebalance))

	mux.HandleFunc("GET /api/strategies", s.guard(s.handleListStrategies))
	mux.HandleFunc("POST /api/strategies/recommend", s.guard(s.handleRecommend))

	mux.HandleFunc("GET /api/reminders", s.guard(s.handleListReminders))
	mux.HandleFunc("POST /api/reminders", s.guard(s.handleCreateReminder))
	mux.HandleFunc("DELETE /api/reminders/{id}", s.guard(s.handleDeleteReminder))

	mux.HandleFunc("GET /api/balance", s.guard(s.handleBalance))
	mux.HandleFunc("GET /api/categories", s.guard(s.handleCategories))
	mux.HandleFunc("GET /api/insights", s.guard(s.handleInsights))
	mux.HandleFunc("GET /api/overview", s.guard(s.handleOverview))
	mux.HandleFunc("GET /api/tax/estimate", s.guard(s.handleTaxEstimate))
	mux.HandleFunc("GET /api/weather", s.guard(s.handleWeather))

	return s
}

// guard adds security headers, rate limiting on mutations, request logging,
// and metrics to a handler.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := r.Context()
		logger := applog.FromContext(ctx).With(applog.FieldRequestID, requestID)

		logger.InfoContext(ctx, "Request started",
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			s.metrics.RecordRequest(r.URL.Path, strconv.Itoa(http.StatusTooManyRequests))
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		logger.InfoContext(ctx, "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
		s.metrics.RecordRequest(r.URL.Path, strconv.Itoa(rw.statusCode))
	}
}

// Shutdown stops the rate limiter's cleanup goroutine before draining the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
