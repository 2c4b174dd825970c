package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/notequiz/backend/internal/models"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Generation GenerationConfig `mapstructure:"generation"`
	Log        LogConfig        `mapstructure:"log"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LLMConfig struct {
	Provider          string        `mapstructure:"provider"`
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Temperature       float64       `mapstructure:"temperature"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
	// CLIPath is the executable used by the cli provider.
	CLIPath           string        `mapstructure:"cli_path"`
}

type GenerationConfig struct {
	MaxQuestions   int           `mapstructure:"max_questions"`
	MinNotesLength int           `mapstructure:"min_notes_length"`
	BatchDelay     time.Duration `mapstructure:"batch_delay"`
	BatchRetries   int           `mapstructure:"batch_retries"`
	BatchSizes     BatchSizes    `mapstructure:"batch_sizes"`
	TopicsPerBatch int           `mapstructure:"topics_per_batch"`
	AvoidLimit     int           `mapstructure:"avoid_limit"`
}

// BatchSizes caps how many questions of each type one model call may
// produce. Matching and essay output is long, so those stay small.
type BatchSizes struct {
	MCQ      int `mapstructure:"mcq"`
	TF       int `mapstructure:"tf"`
	Matching int `mapstructure:"matching"`
	Essay    int `mapstructure:"essay"`
}

func (b BatchSizes) For(t models.QuestionType) int {
	switch t {
	case models.TypeMCQ:
		return b.MCQ
	case models.TypeTF:
		return b.TF
	case models.TypeMatching:
		return b.Matching
	case models.TypeEssay:
		return b.Essay
	}
	return 1
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
	ServiceName       string `mapstructure:"service_name"`
}

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderCLI       = "cli"
	ProviderMock      = "mock"
)

var defaultModels = map[string]string{
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
	ProviderOpenAI:    "gpt-4o",
	ProviderOllama:    "llama3.1",
	ProviderCLI:       "",
	ProviderMock:      "mock",
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		LLM: LLMConfig{
			Provider:          ProviderAnthropic,
			MaxTokens:         8192,
			Temperature:       0.7,
			RequestsPerSecond: 2,
			Burst:             1,
			Timeout:           90 * time.Second,
			CLIPath:           "claude",
		},
		Generation: GenerationConfig{
			MaxQuestions:   50,
			MinNotesLength: 100,
			BatchDelay:     750 * time.Millisecond,
			BatchRetries:   0,
			BatchSizes:     BatchSizes{MCQ: 5, TF: 5, Matching: 2, Essay: 2},
			TopicsPerBatch: 5,
			AvoidLimit:     40,
		},
		Log: LogConfig{Level: "info"},
		Tracing: TracingConfig{
			ServiceName: "notequiz",
		},
	}
}

// Load reads config.yaml from path (optional), a .env file in the working
// directory (optional) and the environment, in increasing precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("server.port", "QUIZ_SERVER_PORT", "PORT")
	v.BindEnv("server.allowed_origins", "QUIZ_SERVER_ALLOWED_ORIGINS", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("llm.provider", "QUIZ_LLM_PROVIDER", "LLM_PROVIDER")
	v.BindEnv("llm.model", "QUIZ_LLM_MODEL", "LLM_MODEL")
	v.BindEnv("llm.base_url", "QUIZ_LLM_BASE_URL", "LLM_BASE_URL")
	v.BindEnv("log.level", "QUIZ_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("tracing.enabled", "QUIZ_TRACING_ENABLED", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "QUIZ_TRACING_COLLECTOR_ENDPOINT", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if os.Getenv("MOCK_GENERATOR") == "true" {
		cfg.LLM.Provider = ProviderMock
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerAPIKey(cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Bounds for the generation pacing knobs. The mock provider may use any
// non-negative delay.
const (
	MinBatchDelay   = 500 * time.Millisecond
	MaxBatchDelay   = time.Second
	MaxBatchRetries = 10
)

func (c *Config) Validate() error {
	var errs []error

	if _, ok := defaultModels[c.LLM.Provider]; !ok {
		errs = append(errs, fmt.Errorf("llm.provider must be one of anthropic, openai, ollama, cli, mock; got %q", c.LLM.Provider))
	}
	if (c.LLM.Provider == ProviderAnthropic || c.LLM.Provider == ProviderOpenAI) && c.LLM.APIKey == "" {
		errs = append(errs, fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider))
	}
	if c.LLM.Provider == ProviderCLI && c.LLM.CLIPath == "" {
		errs = append(errs, errors.New("llm.cli_path is required for provider \"cli\""))
	}
	if c.Generation.MaxQuestions <= 0 {
		errs = append(errs, errors.New("generation.max_questions must be positive"))
	}
	switch {
	case c.Generation.BatchDelay < 0:
		errs = append(errs, errors.New("generation.batch_delay must not be negative"))
	case c.LLM.Provider != ProviderMock &&
		(c.Generation.BatchDelay < MinBatchDelay || c.Generation.BatchDelay > MaxBatchDelay):
		errs = append(errs, fmt.Errorf("generation.batch_delay must be between %v and %v, got %v",
			MinBatchDelay, MaxBatchDelay, c.Generation.BatchDelay))
	}
	if c.Generation.BatchRetries < 0 || c.Generation.BatchRetries > MaxBatchRetries {
		errs = append(errs, fmt.Errorf("generation.batch_retries must be between 0 and %d", MaxBatchRetries))
	}
	for _, t := range models.QuestionTypes {
		if c.Generation.BatchSizes.For(t) <= 0 {
			errs = append(errs, fmt.Errorf("generation.batch_sizes.%s must be positive", strings.ToLower(string(t))))
		}
	}
	if c.Tracing.Enabled && c.Tracing.CollectorEndpoint == "" {
		errs = append(errs, errors.New("tracing.collector_endpoint is required when tracing is enabled"))
	}

	return errors.Join(errs...)
}

func providerAPIKey(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	}
	return ""
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.requests_per_second", d.LLM.RequestsPerSecond)
	v.SetDefault("llm.burst", d.LLM.Burst)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.cli_path", d.LLM.CLIPath)

	v.SetDefault("generation.max_questions", d.Generation.MaxQuestions)
	v.SetDefault("generation.min_notes_length", d.Generation.MinNotesLength)
	v.SetDefault("generation.batch_delay", d.Generation.BatchDelay)
	v.SetDefault("generation.batch_retries", d.Generation.BatchRetries)
	v.SetDefault("generation.batch_sizes.mcq", d.Generation.BatchSizes.MCQ)
	v.SetDefault("generation.batch_sizes.tf", d.Generation.BatchSizes.TF)
	v.SetDefault("generation.batch_sizes.matching", d.Generation.BatchSizes.Matching)
	v.SetDefault("generation.batch_sizes.essay", d.Generation.BatchSizes.Essay)
	v.SetDefault("generation.topics_per_batch", d.Generation.TopicsPerBatch)
	v.SetDefault("generation.avoid_limit", d.Generation.AvoidLimit)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.collector_endpoint", d.Tracing.CollectorEndpoint)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}
