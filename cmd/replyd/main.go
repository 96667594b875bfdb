// Command replyd is the reference reply service: it answers chat requests
// for one player by asking an OpenAI-compatible model.
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

	"github.com/go-chi/cors"

	"github.com/okian/crickdash/internal/adapters/http/chatapi"
	"github.com/okian/crickdash/internal/adapters/llm"
	"github.com/okian/crickdash/internal/config"
	"github.com/okian/crickdash/internal/domain/assistant"
	"github.com/okian/crickdash/pkg/logger"
)

const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get().Named("replyd")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}
	if cfg.LLMAPIKey == "" {
		log.Warn(ctx, "llm_api_key is empty; upstream calls will likely be rejected")
	}

	srv := &http.Server{
		Addr:        cfg.ReplyAddr,
		Handler:     newHandler(cfg),
		ReadTimeout: readTimeout,
		// Replies wait on the upstream model.
		WriteTimeout:      time.Duration(cfg.LLMTimeoutMS)*time.Millisecond + readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting reply service",
			logger.String("addr", cfg.ReplyAddr),
			logger.String("model", cfg.LLMModel),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "reply service stopped")
	return nil
}

// newHandler wires the model client, the responder and the routes.
func newHandler(cfg *config.Config) http.Handler {
	model := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     time.Duration(cfg.LLMTimeoutMS) * time.Millisecond,
	})

	mux := http.NewServeMux()
	chatapi.NewHandler(assistant.NewResponder(model)).Register(mux)

	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})(mux)
}
