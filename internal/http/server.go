package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"depenses/internal/amqp"
	"depenses/internal/core"
	applog "depenses/internal/log"
)

// ExpenseStore is the persistence surface the handlers need. The concrete
// implementation is the pgx-backed storage.Store.
type ExpenseStore interface {
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	CreateExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error)
	UpdateExpense(ctx context.Context, u core.ExpenseUpdate) (core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) (core.Expense, error)
	CurrentMonthTotal(ctx context.Context) (float64, error)
}

// EventPublisher emits expense mutation events. A nil publisher disables
// events entirely.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, eventType amqp.EventType, id int64) error
}

type Server struct {
	http.Server
	store       ExpenseStore
	events      EventPublisher
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server. events may
// be nil.
func NewServer(addr string, store ExpenseStore, events EventPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		events:      events,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/getExpenses", s.withRequestHandling(s.handleGetExpenses))
	mux.HandleFunc("/getMonthlyEstimate", s.withRequestHandling(s.handleGetMonthlyEstimate))
	mux.HandleFunc("/createExpense", s.withRequestHandling(s.handleCreateExpense))
	mux.HandleFunc("/updateExpense", s.withRequestHandling(s.handleUpdateExpense))
	mux.HandleFunc("/deleteExpense", s.withRequestHandling(s.handleDeleteExpense))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// withRequestHandling wraps a handler with CORS, pre-flight short-circuit,
// rate limiting on mutations, request id assignment and request logging.
func (s *Server) withRequestHandling(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		setCORSHeaders(w)

		// Pre-flight requests succeed with no content before any
		// business logic runs.
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
			applog.FieldUserAgent, r.UserAgent())

		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "Too many requests", "")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.CurrentMonthTotal(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// publishEvent emits a mutation event best-effort; a broker failure never
// affects the HTTP response.
func (s *Server) publishEvent(ctx context.Context, eventType amqp.EventType, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, eventType, id); err != nil {
		slog.WarnContext(ctx, "Failed to publish expense event",
			applog.FieldError, err, applog.FieldEventType, eventType, applog.FieldExpenseID, id)
	}
}
