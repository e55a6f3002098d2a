package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capitalize-ai/travel-concierge/internal/middleware"
	"github.com/capitalize-ai/travel-concierge/internal/service"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
)

// RouterConfig collects what the HTTP API needs.
type RouterConfig struct {
	Service *service.ConciergeService
	// Events enables the conversation event stream when set.
	Events EventSource
	Checks map[string]Check
	Logger *logger.Logger

	JWTSecret         string
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the API routes.
func NewRouter(cfg RouterConfig) http.Handler {
	healthHandler := NewHealthHandler(cfg.Checks, cfg.Logger)
	messageHandler := NewMessageHandler(cfg.Service, cfg.Logger)
	conversationHandler := NewConversationHandler(cfg.Service, cfg.Logger)
	streamHandler := NewStreamHandler(cfg.Service, cfg.Events, cfg.Logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/ai", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.UserRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/chat", messageHandler.Chat)
		r.Post("/analyze", messageHandler.Analyze)

		r.Route("/conversation", func(r chi.Router) {
			r.Post("/", conversationHandler.Save)
			r.Get("/list", conversationHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", conversationHandler.Get)
				r.Delete("/", conversationHandler.Delete)
				r.Post("/complete", conversationHandler.Complete)
				r.Get("/events", streamHandler.Stream)
			})
		})
	})

	return r
}
