package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flarelabs/whatsapp-relay/internal/ai"
	"github.com/flarelabs/whatsapp-relay/internal/api/router"
	appconfig "github.com/flarelabs/whatsapp-relay/internal/config"
	"github.com/flarelabs/whatsapp-relay/internal/http/handlers"
	"github.com/flarelabs/whatsapp-relay/internal/messaging"
	"github.com/flarelabs/whatsapp-relay/internal/observability/metrics"
	"github.com/flarelabs/whatsapp-relay/internal/relay"
	"github.com/flarelabs/whatsapp-relay/pkg/logging"
)

func main() {
	// Load .env if present; real deployments use environment variables.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	if cfg.Env == "development" {
		logger = logging.NewText(cfg.LogLevel)
	}
	logger.Info("starting whatsapp-relay API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	backend, backendName, closeBackend, err := buildAIBackend(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize AI backend", "error", err)
		os.Exit(1)
	}
	logger.Info("AI backend initialized", "backend", backendName)

	sender := messaging.NewTwilioSender(messaging.TwilioSenderConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		From:       cfg.TwilioFromAddress,
		BaseURL:    cfg.TwilioAPIBaseURL,
		Timeout:    cfg.TwilioSendTimeout,
		Logger:     logger,
	})

	relayMetrics := metrics.NewRelayMetrics(nil)
	relayService := relay.New(relay.Config{
		Backend:            backend,
		Sender:             sender,
		Logger:             logger,
		Metrics:            relayMetrics,
		ChatTimeout:        cfg.AIBackendTimeout,
		SendTimeout:        cfg.TwilioSendTimeout,
		MaxConcurrentSends: cfg.MaxConcurrentSends,
	})

	webhookHandler := handlers.NewRelayWebhookHandler(handlers.RelayWebhookConfig{
		Relay:           relayService,
		Logger:          logger,
		AuthToken:       cfg.TwilioAuthToken,
		VerifySignature: cfg.VerifyTwilioSig,
		PublicBaseURL:   cfg.PublicBaseURL,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		RelayWebhook:       webhookHandler,
		MetricsHandler:     promhttp.Handler(),
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := closeBackend(); err != nil {
		logger.Error("failed to close AI backend", "error", err)
	}

	logger.Info("server stopped")
}

// buildAIBackend picks the chat backend from configuration. A configured
// HTTP chat endpoint is the primary; an OpenAI key, else a Gemini key,
// provides the fallback provider. With no HTTP endpoint the direct provider
// becomes primary. The returned close func releases provider resources and
// must be called on shutdown.
func buildAIBackend(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (ai.Backend, string, func() error, error) {
	noop := func() error { return nil }

	var primary ai.Backend
	name := ""

	if cfg.AIBackendURL != "" {
		client, err := ai.NewClient(ai.ClientConfig{
			BaseURL:  cfg.AIBackendURL,
			ChatPath: cfg.AIBackendChatPath,
			APIKey:   cfg.AIBackendAPIKey,
			Timeout:  cfg.AIBackendTimeout,
		})
		if err != nil {
			return nil, "", noop, err
		}
		primary = client
		name = "http"
	}

	var direct ai.Backend
	directName := ""
	closer := noop
	if cfg.OpenAIAPIKey != "" {
		b, err := ai.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.SystemPrompt)
		if err != nil {
			return nil, "", noop, err
		}
		direct = b
		directName = "openai"
	} else if cfg.GeminiAPIKey != "" {
		b, err := ai.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SystemPrompt)
		if err != nil {
			return nil, "", noop, err
		}
		direct = b
		directName = "gemini"
		closer = b.Close
	}

	switch {
	case primary != nil && direct != nil:
		return ai.NewFallbackBackend(primary, direct, logger), name + "+" + directName, closer, nil
	case primary != nil:
		return primary, name, closer, nil
	case direct != nil:
		return direct, directName, closer, nil
	default:
		return nil, "", noop, errors.New("no AI backend configured: set AI_BACKEND_URL, OPENAI_API_KEY, or GEMINI_API_KEY")
	}
}
