package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Server      ServerConfig
	Generation  GenerationConfig
	LLM         LLMConfig
	Redis       RedisConfig
	Preferences PreferencesConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type LoggerConfig struct {
	Level string
	Env   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

// GenerationConfig holds the knobs of the orchestration core.
type GenerationConfig struct {
	Models                []string
	BatchSize             int
	Debounce              time.Duration
	RequestTimeout        time.Duration
	LanguagePromptTimeout time.Duration
	DefaultLanguage       string
	AlternateLanguage     string
	DefaultTimeLimit      int
	Temperature           float64
}

type LLMConfig struct {
	Provider string // gemini, ollama or openai
	Gemini   GeminiConfig
	Ollama   OllamaConfig
	OpenAI   OpenAIConfig
}

// GeminiConfig leaves Endpoint empty to use the SDK's default host.
type GeminiConfig struct {
	Endpoint string
	APIKey   string
}

type OllamaConfig struct {
	ServerURL string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PreferencesConfig struct {
	Namespace string
}

const (
	DefaultBatchSize = 8
	DefaultDebounce  = 800 * time.Millisecond
	DefaultTimeLimit = 30
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "quiz-forge")
	v.SetDefault("app.env", "development")
	v.SetDefault("logger.level", "info")

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("server.body_limit", 20*1024*1024)

	v.SetDefault("generation.models", []string{
		"gemini-2.5-flash",
		"gemini-2.0-flash",
		"gemini-1.5-flash-002",
	})
	v.SetDefault("generation.batch_size", DefaultBatchSize)
	v.SetDefault("generation.debounce", DefaultDebounce)
	v.SetDefault("generation.request_timeout", 90*time.Second)
	v.SetDefault("generation.language_prompt_timeout", 2*time.Minute)
	v.SetDefault("generation.default_language", "zh-TW")
	v.SetDefault("generation.alternate_language", "en")
	v.SetDefault("generation.default_time_limit", DefaultTimeLimit)
	v.SetDefault("generation.temperature", 0.4)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.ollama.server_url", "http://localhost:11434")

	v.SetDefault("preferences.namespace", "default")
}

// LoadConfig reads config.yaml (optional) and environment overrides into a Config.
func LoadConfig() (*Config, error) {
	return Load(viper.New())
}

// Load builds a Config from v. Callers may bind flags into v before calling.
func Load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("app.env"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: v.GetDuration("server.write_timeout") * time.Second,
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Generation: GenerationConfig{
			Models:                v.GetStringSlice("generation.models"),
			BatchSize:             v.GetInt("generation.batch_size"),
			Debounce:              v.GetDuration("generation.debounce"),
			RequestTimeout:        v.GetDuration("generation.request_timeout"),
			LanguagePromptTimeout: v.GetDuration("generation.language_prompt_timeout"),
			DefaultLanguage:       v.GetString("generation.default_language"),
			AlternateLanguage:     v.GetString("generation.alternate_language"),
			DefaultTimeLimit:      v.GetInt("generation.default_time_limit"),
			Temperature:           v.GetFloat64("generation.temperature"),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			Gemini: GeminiConfig{
				Endpoint: v.GetString("llm.gemini.endpoint"),
				APIKey:   v.GetString("llm.gemini.api_key"),
			},
			Ollama: OllamaConfig{
				ServerURL: v.GetString("llm.ollama.server_url"),
			},
			OpenAI: OpenAIConfig{
				APIKey:  v.GetString("llm.openai.api_key"),
				BaseURL: v.GetString("llm.openai.base_url"),
			},
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Preferences: PreferencesConfig{
			Namespace: v.GetString("preferences.namespace"),
		},
	}

	// Conventional provider env names win over the yaml keys.
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		cfg.LLM.Gemini.APIKey = apiKey
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		cfg.LLM.OpenAI.APIKey = openAIKey
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		cfg.Redis.Address = redisAddress
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the generation settings the core cannot run without.
func (c *Config) Validate() error {
	if len(c.Generation.Models) == 0 {
		return fmt.Errorf("generation.models must list at least one model")
	}
	if c.Generation.BatchSize <= 0 {
		return fmt.Errorf("generation.batch_size must be positive, got %d", c.Generation.BatchSize)
	}
	if c.Generation.Debounce <= 0 {
		return fmt.Errorf("generation.debounce must be positive, got %s", c.Generation.Debounce)
	}
	switch c.LLM.Provider {
	case "gemini", "ollama", "openai":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	return nil
}
