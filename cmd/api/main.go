// Package main is the entry point for the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-concierge/internal/config"
	"github.com/capitalize-ai/travel-concierge/internal/handler"
	"github.com/capitalize-ai/travel-concierge/internal/llm"
	natsclient "github.com/capitalize-ai/travel-concierge/internal/nats"
	"github.com/capitalize-ai/travel-concierge/internal/service"
	"github.com/capitalize-ai/travel-concierge/internal/session"
	"github.com/capitalize-ai/travel-concierge/internal/store"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
	"github.com/capitalize-ai/travel-concierge/pkg/tracing"
)

func main() {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.NewForEnv(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	log.Info("starting concierge API server", zap.String("store", cfg.StoreBackend))

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, "travel-concierge", cfg.TracingEndpoint, cfg.TracingEnabled)
	if err != nil {
		log.Warn("failed to initialize tracing", zap.Error(err))
	} else {
		defer shutdownTracing(context.Background())
	}

	// NATS backs the event stream and optionally the conversation store.
	var (
		natsClient    *natsclient.Client
		streamManager *natsclient.StreamManager
	)
	if cfg.NeedsNATS() {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()
	}
	if cfg.EventsEnabled {
		streamManager = natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			log.Fatal("failed to ensure stream", zap.Error(err))
		}
	}

	st, closeStore, err := openStore(ctx, cfg, natsClient)
	if err != nil {
		log.Fatal("failed to open conversation store", zap.Error(err))
	}
	defer closeStore()

	// Replies come from templates unless an LLM key is configured.
	var responder service.Responder
	if llmClient := newLLMClient(cfg, log); llmClient != nil {
		responder = service.NewLLMResponder(llmClient, cfg.LLMModel, log)
		log.Info("LLM replies enabled", zap.String("provider", llmClient.Name()))
	}

	var (
		publisher service.EventPublisher
		events    handler.EventSource
	)
	if streamManager != nil {
		publisher, events = streamManager, streamManager
	}

	svc := service.NewConciergeService(st, session.NewRegistry(cfg.SessionTTL), responder, publisher, log,
		service.WithDefaultPlatform(cfg.DefaultPlatform),
		service.WithTypingDelay(cfg.TypingDelay),
		service.WithTracer(tracing.Tracer("travel-concierge/service")),
	)

	checks := map[string]handler.Check{"store": svc.Ping}
	if natsClient != nil {
		checks["nats"] = func(context.Context) error {
			if !natsClient.IsConnected() {
				return errors.New("NATS not connected")
			}
			return nil
		}
	}
	if streamManager != nil {
		checks["events"] = streamManager.Check
	}

	router := handler.NewRouter(handler.RouterConfig{
		Service:           svc,
		Events:            events,
		Checks:            checks,
		Logger:            log,
		JWTSecret:         cfg.JWTSecret,
		CORSOrigins:       cfg.CORSOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go svc.RunJanitor(janitorCtx, cfg.SweepInterval, cfg.AbandonAfter)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	stopJanitor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// openStore builds the configured conversation store wrapped with metrics.
func openStore(ctx context.Context, cfg *config.Config, nc *natsclient.Client) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.StoreRedis:
		s, err := store.NewRedisStoreFromURL(ctx, cfg.RedisURL, "")
		if err != nil {
			return nil, nil, err
		}
		return store.Instrumented(cfg.StoreBackend, s), func() { s.Close() }, nil

	case config.StorePostgres:
		s, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store.Instrumented(cfg.StoreBackend, s), s.Close, nil

	case config.StoreNATS:
		s, err := natsclient.NewKVStore(ctx, nc)
		if err != nil {
			return nil, nil, err
		}
		return store.Instrumented(cfg.StoreBackend, s), noop, nil

	case config.StoreHTTP:
		var opts []store.HTTPOption
		if cfg.ConversationAPIToken != "" {
			opts = append(opts, store.WithBearerToken(cfg.ConversationAPIToken))
		}
		return store.Instrumented(cfg.StoreBackend, store.NewHTTPStore(cfg.ConversationAPIURL, opts...)), noop, nil
	}
	return store.Instrumented(config.StoreMemory, store.NewMemoryStore()), noop, nil
}

// newLLMClient returns the configured provider or nil when no key is set.
func newLLMClient(cfg *config.Config, log *logger.Logger) llm.Client {
	keys := map[llm.Provider]string{
		llm.ProviderAnthropic: cfg.AnthropicAPIKey,
		llm.ProviderOpenAI:    cfg.OpenAIAPIKey,
	}
	order := []llm.Provider{llm.Provider(cfg.DefaultLLM), llm.ProviderAnthropic, llm.ProviderOpenAI}

	for _, p := range order {
		key := keys[p]
		if key == "" {
			continue
		}
		c, err := llm.NewClient(p, key)
		if err != nil {
			log.Warn("failed to create LLM client, trying next provider", zap.String("provider", string(p)), zap.Error(err))
			continue
		}
		return c
	}
	return nil
}
