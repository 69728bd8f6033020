package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// geminiBackend sends one generateContent call to a model prepared by configure.
type geminiBackend interface {
	Generate(ctx context.Context, apiKey, model string, configure func(*genai.GenerativeModel), parts []genai.Part) (*genai.GenerateContentResponse, error)
	Close() error
}

// clientPool keeps one genai client per API key so a key entered at runtime gets its own client.
type clientPool struct {
	mu      sync.Mutex
	opts    []option.ClientOption
	clients map[string]*genai.Client
}

func newClientPool(opts ...option.ClientOption) *clientPool {
	return &clientPool{opts: opts, clients: make(map[string]*genai.Client)}
}

func (p *clientPool) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[apiKey]; ok {
		return c, nil
	}
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, p.opts...)
	// Clients outlive the attempt that created them.
	c, err := genai.NewClient(context.WithoutCancel(ctx), opts...)
	if err != nil {
		return nil, err
	}
	p.clients[apiKey] = c
	return c, nil
}

func (p *clientPool) Generate(ctx context.Context, apiKey, model string, configure func(*genai.GenerativeModel), parts []genai.Part) (*genai.GenerateContentResponse, error) {
	client, err := p.client(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	configure(m)
	return m.GenerateContent(ctx, parts...)
}

func (p *clientPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for key, c := range p.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.clients, key)
	}
	return errors.Join(errs...)
}

// GeminiCaller calls Gemini models through the generative-ai-go SDK.
type GeminiCaller struct {
	apiKey  string
	prefs   domain.PreferenceStore
	backend geminiBackend
	logger  *zap.Logger
}

// NewGeminiCaller creates a caller. The API key stored in prefs takes precedence over the
// configured one and is read on every call, so a key entered at runtime applies immediately.
func NewGeminiCaller(cfg config.GeminiConfig, prefs domain.PreferenceStore, logger *zap.Logger) *GeminiCaller {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	return newGeminiCaller(cfg.APIKey, prefs, newClientPool(opts...), logger)
}

func newGeminiCaller(apiKey string, prefs domain.PreferenceStore, backend geminiBackend, logger *zap.Logger) *GeminiCaller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiCaller{apiKey: apiKey, prefs: prefs, backend: backend, logger: logger}
}

// GenerateContent implements domain.ModelCaller.
func (g *GeminiCaller) GenerateContent(ctx context.Context, model string, payload *domain.UpstreamPayload) (string, error) {
	key := g.credential(ctx)
	if key == "" {
		return "", fmt.Errorf("API key is not configured")
	}

	resp, err := g.backend.Generate(ctx, key, model, func(m *genai.GenerativeModel) {
		configureModel(m, payload)
	}, requestParts(payload))
	if err != nil {
		return "", describeGeminiError(model, err, key)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("response contained no candidates")
	}
	text := responseText(resp.Candidates[0])
	if text == "" {
		return "", fmt.Errorf("response contained no text")
	}

	g.logger.Debug("Received generateContent response", zap.String("model", model), zap.Int("bytes", len(text)))
	return text, nil
}

// Close releases the SDK clients.
func (g *GeminiCaller) Close() error {
	return g.backend.Close()
}

func (g *GeminiCaller) credential(ctx context.Context) string {
	if g.prefs != nil {
		v, err := g.prefs.Get(ctx, domain.PrefAPIKey)
		switch {
		case err == nil && strings.TrimSpace(v) != "":
			return strings.TrimSpace(v)
		case err != nil && !errors.Is(err, domain.ErrPreferenceNotSet):
			g.logger.Warn("Failed to read API key preference, using configured key", zap.Error(err))
		}
	}
	return g.apiKey
}

func configureModel(m *genai.GenerativeModel, p *domain.UpstreamPayload) {
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = toGenaiSchema(p.Schema)
	if p.SystemInstruction != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(p.SystemInstruction)}}
	}
	if p.Temperature > 0 {
		m.SetTemperature(float32(p.Temperature))
	}
}

func requestParts(p *domain.UpstreamPayload) []genai.Part {
	parts := []genai.Part{genai.Text(p.Prompt)}
	for _, img := range p.Images {
		parts = append(parts, genai.Blob{MIMEType: img.MimeType, Data: img.Data})
	}
	return parts
}

func responseText(c *genai.Candidate) string {
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range c.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// toGenaiSchema converts the map form of a response schema. Unknown keys are ignored.
func toGenaiSchema(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{
		Type:     schemaType(m["type"]),
		Required: stringList(m["required"]),
		Enum:     stringList(m["enum"]),
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = toGenaiSchema(items)
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if pm, ok := prop.(map[string]any); ok {
				s.Properties[name] = toGenaiSchema(pm)
			}
		}
	}
	return s
}

func schemaType(v any) genai.Type {
	t, _ := v.(string)
	switch strings.ToUpper(t) {
	case "STRING":
		return genai.TypeString
	case "NUMBER":
		return genai.TypeNumber
	case "INTEGER":
		return genai.TypeInteger
	case "BOOLEAN":
		return genai.TypeBoolean
	case "ARRAY":
		return genai.TypeArray
	case "OBJECT":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// describeGeminiError keeps the upstream message the fallback client reports to the user.
func describeGeminiError(model string, err error, key string) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("request blocked: %s", blockReason(blocked))
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		return fmt.Errorf("HTTP %d: %s", apiErr.Code, msg)
	}

	return fmt.Errorf("request to %s failed: %w", model, redactKey(err, key))
}

func blockReason(b *genai.BlockedError) string {
	switch {
	case b.PromptFeedback != nil:
		return b.PromptFeedback.BlockReason.String()
	case b.Candidate != nil:
		return b.Candidate.FinishReason.String()
	default:
		return "unknown reason"
	}
}

// redactKey keeps the credential out of transport errors, which may quote the request URL.
func redactKey(err error, key string) error {
	msg := err.Error()
	escaped := url.QueryEscape(key)
	if key == "" || (!strings.Contains(msg, key) && !strings.Contains(msg, escaped)) {
		return err
	}
	msg = strings.ReplaceAll(msg, escaped, "REDACTED")
	return errors.New(strings.ReplaceAll(msg, key, "REDACTED"))
}

var (
	_ domain.ModelCaller = (*GeminiCaller)(nil)
	_ geminiBackend      = (*clientPool)(nil)
)
