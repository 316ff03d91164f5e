package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/ican-capital/treasury-ai/internal/api/handlers"
	"github.com/ican-capital/treasury-ai/internal/api/middleware"
	"github.com/ican-capital/treasury-ai/internal/config"
	"github.com/ican-capital/treasury-ai/internal/llm"
	"github.com/ican-capital/treasury-ai/internal/llm/gemini"
	"github.com/ican-capital/treasury-ai/internal/llm/openai"
	"github.com/ican-capital/treasury-ai/internal/logger"
	"github.com/ican-capital/treasury-ai/internal/pipeline"
	"github.com/ican-capital/treasury-ai/internal/retry"
)

func main() {
	log := logger.New("treasury-ai")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// The provider is chosen once at startup; nothing re-reads the
	// environment at call time.
	var gen llm.Generator
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		gen, err = gemini.New(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
	case config.ProviderOpenAI:
		gen = openai.New(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIBaseURL, cfg.AI.OpenAIModel)
	default:
		log.Fatal().Str("provider", string(cfg.AI.Provider)).Msg("Unknown AI provider")
	}

	retryCfg := retry.Config{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay,
		MaxDelay:   cfg.Retry.MaxDelay,
		Jitter:     true,
	}

	parser := pipeline.NewTransactionParser(gen, retryCfg, cfg.AI.TextTimeout, log)
	analyzer := pipeline.NewContractAnalyzer(gen, retryCfg, cfg.AI.TextTimeout, cfg.AI.DocumentTimeout, log)

	healthHandler := handlers.NewHealthHandler(gen.Name(), gen.Model(), log)
	transactionsHandler := handlers.NewTransactionsHandler(parser, log)
	contractsHandler := handlers.NewContractsHandler(analyzer, log)
	selfTestHandler := handlers.NewSelfTestHandler(parser, log)

	router := mux.NewRouter()
	router.HandleFunc("/api/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/ai/parse_transaction", transactionsHandler.ParseTransaction).Methods(http.MethodPost)
	router.HandleFunc("/api/ai/vet_contract", contractsHandler.VetContract).Methods(http.MethodPost)
	router.HandleFunc("/api/ai/contract_summary", contractsHandler.ContractSummary).Methods(http.MethodPost)
	router.HandleFunc("/api/test", selfTestHandler.SelfTest).Methods(http.MethodPost)

	// RequestID must wrap Logger so the access log sees the assigned id.
	handler := middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(router),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("provider", gen.Name()).
			Str("model", gen.Model()).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
