package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"quiz-forge/internal/adapter"
	"quiz-forge/internal/adapter/quizgen"
	"quiz-forge/internal/cache"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/metrics"
	"quiz-forge/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Core is the wired generation pipeline shared by the API server and the CLI.
type Core struct {
	Controller *service.GenerationController
	Gate       *service.LanguageGate
	Models     []string
}

// NewPreferenceStore returns a Redis-backed store when an address is configured, otherwise
// an in-memory one. The returned client is nil for the in-memory store.
func NewPreferenceStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.PreferenceStore, *redis.Client, error) {
	if cfg.Redis.Address == "" {
		logger.Info("No Redis address configured, keeping preferences in memory")
		return adapter.NewMemoryPreferenceStore(nil), nil, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	return adapter.NewRedisPreferenceStore(client, cfg.Preferences.Namespace), client, nil
}

// NewModelCaller builds the upstream client for cfg.LLM.Provider.
// Callers that hold SDK clients also implement io.Closer.
func NewModelCaller(cfg *config.Config, prefs domain.PreferenceStore, logger *zap.Logger) (domain.ModelCaller, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		logger.Info("Initializing Gemini caller", zap.String("endpoint", cfg.LLM.Gemini.Endpoint))
		return quizgen.NewGeminiCaller(cfg.LLM.Gemini, prefs, logger), nil
	case "ollama", "openai":
		logger.Info("Initializing LangchainGo caller", zap.String("provider", cfg.LLM.Provider))
		httpClient := &http.Client{Timeout: cfg.Generation.RequestTimeout + 10*time.Second}
		return quizgen.NewLangchainCaller(cfg.LLM, cfg.Generation.Models[0], httpClient, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
}

// BuildCore wires the fallback client, batch orchestrator, language gate and controller.
// r receives every progress, prompt and result callback.
func BuildCore(cfg *config.Config, caller domain.ModelCaller, prefs domain.PreferenceStore, r domain.Renderer, m *metrics.Metrics, logger *zap.Logger) (*Core, error) {
	client, err := quizgen.NewModelFallbackClient(caller, cfg.Generation.Models, cfg.Generation.RequestTimeout, r, m, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model fallback client: %w", err)
	}

	orchestrator := service.NewBatchOrchestrator(
		client,
		service.NewResponseParser(logger, m),
		r,
		service.BatchOptions{
			BatchSize:        cfg.Generation.BatchSize,
			DefaultTimeLimit: cfg.Generation.DefaultTimeLimit,
			Temperature:      cfg.Generation.Temperature,
		},
		m,
		logger,
	)

	gate := service.NewLanguageGate(r, cfg.Generation.LanguagePromptTimeout, logger)
	controller := service.NewGenerationController(orchestrator, gate, r, prefs, service.ControllerOptions{
		DefaultLanguage:   cfg.Generation.DefaultLanguage,
		AlternateLanguage: cfg.Generation.AlternateLanguage,
	}, m, logger)

	logger.Info("Generation core initialized",
		zap.Strings("models", client.Models()),
		zap.Int("batch_size", cfg.Generation.BatchSize))

	return &Core{Controller: controller, Gate: gate, Models: client.Models()}, nil
}
