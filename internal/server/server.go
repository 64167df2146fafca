package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/astralis-app/astralis/internal/gacha"
	"github.com/astralis-app/astralis/internal/handler"
	"github.com/astralis-app/astralis/internal/limits"
	"github.com/astralis-app/astralis/internal/logger"
	"github.com/astralis-app/astralis/internal/metrics"
	"github.com/astralis-app/astralis/internal/rewards"
	"github.com/astralis-app/astralis/internal/session"
	"github.com/astralis-app/astralis/internal/sse"
)

type Server struct {
	httpServer     *http.Server
	db             *sql.DB
	sessionService session.Service
	rewardsService rewards.Service
	gachaService   gacha.Service
	limitsService  limits.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, db *sql.DB, sessionService session.Service, rewardsService rewards.Service, gachaService gacha.Service, limitsService limits.Service, sseHub *sse.Hub) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(db))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Live event stream for the UI
	r.Get("/events", sse.Handler(sseHub))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Session routes
		sessionHandler := handler.NewSessionHandler(sessionService)
		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.HandleSessionStatus)
			r.Post("/start", sessionHandler.HandleStartSession)
			r.Post("/quit", sessionHandler.HandleRequestQuit)
			r.Post("/quit/confirm", sessionHandler.HandleConfirmQuit)
			r.Post("/resume", sessionHandler.HandleResume)
			r.Post("/foreground", sessionHandler.HandleForeground)
		})

		// Economy and progress routes
		rewardsHandler := handler.NewRewardsHandler(rewardsService)
		r.Get("/balance", rewardsHandler.HandleBalance)
		r.Get("/progress", rewardsHandler.HandleProgress)
		r.Get("/milestones", rewardsHandler.HandleMilestones)

		// Collection routes
		r.Route("/collection", func(r chi.Router) {
			r.Get("/", rewardsHandler.HandleCollection)
			r.Post("/purchase", rewardsHandler.HandlePurchaseStyle)
			r.Post("/equip", rewardsHandler.HandleEquipStyle)
			r.Post("/unlock", rewardsHandler.HandleUnlockStyle)
			r.Post("/upgrade", rewardsHandler.HandleUpgradeStyle)
		})

		// Gacha routes
		gachaHandler := handler.NewGachaHandler(gachaService)
		r.Route("/gacha", func(r chi.Router) {
			r.Post("/pull", gachaHandler.HandlePull)
			r.Post("/pull10", gachaHandler.HandleTenPull)
			r.Get("/history", gachaHandler.HandlePullHistory)
			r.Get("/rates", gachaHandler.HandleRates)
		})

		// Limit and schedule routes
		limitsHandler := handler.NewLimitsHandler(limitsService)
		r.Route("/limits", func(r chi.Router) {
			r.Get("/", limitsHandler.HandleListLimits)
			r.Post("/", limitsHandler.HandleCreateLimit)
			r.Put("/{id}", limitsHandler.HandleUpdateLimit)
			r.Delete("/{id}", limitsHandler.HandleDeleteLimit)
			r.Post("/{id}/usage", limitsHandler.HandleRecordUsage)
		})
		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", limitsHandler.HandleListSchedules)
			r.Post("/", limitsHandler.HandleCreateSchedule)
			r.Put("/{id}", limitsHandler.HandleUpdateSchedule)
			r.Delete("/{id}", limitsHandler.HandleDeleteSchedule)
			r.Post("/{id}/enabled", limitsHandler.HandleSetScheduleEnabled)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		db:             db,
		sessionService: sessionService,
		rewardsService: rewardsService,
		gachaService:   gachaService,
		limitsService:  limitsService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
