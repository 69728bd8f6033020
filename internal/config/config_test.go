package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "quiz-forge", cfg.App.Name)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultBatchSize, cfg.Generation.BatchSize)
	assert.Equal(t, DefaultDebounce, cfg.Generation.Debounce)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash-002"}, cfg.Generation.Models)
	assert.Equal(t, "zh-TW", cfg.Generation.DefaultLanguage)
	assert.Equal(t, "en", cfg.Generation.AlternateLanguage)
	assert.Equal(t, DefaultTimeLimit, cfg.Generation.DefaultTimeLimit)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Gemini.Endpoint)
	assert.Empty(t, cfg.Redis.Address)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("GENERATION_BATCH_SIZE", "4")
	t.Setenv("LLM_PROVIDER", "OLLAMA")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Generation.BatchSize)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "env-key", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestLoad_FlagsOverrideDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("provider", "gemini", "")
	flags.StringSlice("models", nil, "")
	require.NoError(t, flags.Parse([]string{"--provider", "openai", "--models", "gpt-4o-mini,gpt-4o"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("llm.provider", flags.Lookup("provider")))
	require.NoError(t, v.BindPFlag("generation.models", flags.Lookup("models")))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, []string{"gpt-4o-mini", "gpt-4o"}, cfg.Generation.Models)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Generation: GenerationConfig{Models: []string{"m"}, BatchSize: 8, Debounce: time.Second},
			LLM:        LLMConfig{Provider: "gemini"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no models", mutate: func(c *Config) { c.Generation.Models = nil }, wantErr: "generation.models must list at least one model"},
		{name: "zero batch size", mutate: func(c *Config) { c.Generation.BatchSize = 0 }, wantErr: "generation.batch_size must be positive, got 0"},
		{name: "zero debounce", mutate: func(c *Config) { c.Generation.Debounce = 0 }, wantErr: "generation.debounce must be positive, got 0s"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "claude" }, wantErr: `unsupported llm.provider "claude"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
