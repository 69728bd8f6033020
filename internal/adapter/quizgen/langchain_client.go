package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// LangchainCaller reaches Ollama or OpenAI-compatible upstreams through langchaingo.
// These providers have no response-schema field, so the schema travels in the system message.
type LangchainCaller struct {
	llm      llms.Model
	provider string
	logger   *zap.Logger
}

// NewLangchainCaller builds the langchaingo client selected by cfg.Provider.
func NewLangchainCaller(cfg config.LLMConfig, defaultModel string, httpClient *http.Client, logger *zap.Logger) (*LangchainCaller, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var (
		llm llms.Model
		err error
	)
	switch cfg.Provider {
	case "ollama":
		if cfg.Ollama.ServerURL == "" {
			return nil, fmt.Errorf("ollama server URL cannot be empty")
		}
		llm, err = ollama.New(
			ollama.WithModel(defaultModel),
			ollama.WithServerURL(cfg.Ollama.ServerURL),
			ollama.WithHTTPClient(httpClient),
		)
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		opts := []openai.Option{
			openai.WithToken(cfg.OpenAI.APIKey),
			openai.WithModel(defaultModel),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		llm, err = openai.New(opts...)
	default:
		return nil, fmt.Errorf("provider %q is not served by langchaingo", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo %s client: %w", cfg.Provider, err)
	}
	return NewLangchainCallerWithModel(llm, cfg.Provider, logger), nil
}

// NewLangchainCallerWithModel wraps an existing langchaingo model.
func NewLangchainCallerWithModel(llm llms.Model, provider string, logger *zap.Logger) *LangchainCaller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LangchainCaller{llm: llm, provider: provider, logger: logger}
}

// GenerateContent implements domain.ModelCaller.
func (l *LangchainCaller) GenerateContent(ctx context.Context, model string, payload *domain.UpstreamPayload) (string, error) {
	messages, err := buildMessages(payload)
	if err != nil {
		return "", err
	}

	resp, err := l.llm.GenerateContent(ctx, messages,
		llms.WithModel(model),
		llms.WithTemperature(payload.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("%s call failed: %w", l.provider, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("%s returned no choices", l.provider)
	}

	l.logger.Debug("Received langchaingo response",
		zap.String("provider", l.provider),
		zap.String("model", model),
		zap.String("stop_reason", resp.Choices[0].StopReason))
	return resp.Choices[0].Content, nil
}

func buildMessages(p *domain.UpstreamPayload) ([]llms.MessageContent, error) {
	system := p.SystemInstruction
	if len(p.Schema) > 0 {
		schema, err := json.Marshal(p.Schema)
		if err != nil {
			return nil, fmt.Errorf("failed to encode response schema: %w", err)
		}
		system += "\nThe JSON array must match this schema:\n" + string(schema)
	}

	human := llms.MessageContent{
		Role:  schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: p.Prompt}},
	}
	for _, img := range p.Images {
		human.Parts = append(human.Parts, llms.BinaryPart(img.MimeType, img.Data))
	}

	return []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		human,
	}, nil
}

var _ domain.ModelCaller = (*LangchainCaller)(nil)
