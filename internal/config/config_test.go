package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/notequiz/backend/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QUIZ_LLM_PROVIDER", "mock")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.LLM.Model != "mock" {
		t.Errorf("model = %q, want mock", cfg.LLM.Model)
	}
	if cfg.Generation.MaxQuestions != 50 || cfg.Generation.MinNotesLength != 100 {
		t.Errorf("generation limits = %d/%d", cfg.Generation.MaxQuestions, cfg.Generation.MinNotesLength)
	}
	if cfg.Generation.BatchDelay != 750*time.Millisecond {
		t.Errorf("batch delay = %v", cfg.Generation.BatchDelay)
	}
	if got := cfg.Generation.BatchSizes.For(models.TypeMatching); got != 2 {
		t.Errorf("matching batch size = %d, want 2", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MOCK_GENERATOR", "true")
	t.Setenv("QUIZ_GENERATION_BATCH_DELAY", "500ms")
	t.Setenv("QUIZ_GENERATION_BATCH_SIZES_MCQ", "3")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.LLM.Provider != ProviderMock {
		t.Errorf("provider = %q, want mock", cfg.LLM.Provider)
	}
	if cfg.Generation.BatchDelay != 500*time.Millisecond {
		t.Errorf("batch delay = %v, want 500ms", cfg.Generation.BatchDelay)
	}
	if cfg.Generation.BatchSizes.MCQ != 3 {
		t.Errorf("mcq batch size = %d, want 3", cfg.Generation.BatchSizes.MCQ)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "llm:\n  provider: ollama\n  base_url: http://localhost:11434\ngeneration:\n  batch_retries: 2\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.Provider != ProviderOllama || cfg.LLM.Model != "llama3.1" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Generation.BatchRetries != 2 {
		t.Errorf("batch retries = %d, want 2", cfg.Generation.BatchRetries)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults with key", func(c *Config) {}, false},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "bard" }, true},
		{"missing api key", func(c *Config) { c.LLM.APIKey = "" }, true},
		{"ollama without key", func(c *Config) { c.LLM.Provider = ProviderOllama; c.LLM.APIKey = "" }, false},
		{"cli without path", func(c *Config) { c.LLM.Provider = ProviderCLI; c.LLM.CLIPath = "" }, true},
		{"cli with default path", func(c *Config) { c.LLM.Provider = ProviderCLI }, false},
		{"zero batch size", func(c *Config) { c.Generation.BatchSizes.Essay = 0 }, true},
		{"negative delay", func(c *Config) { c.Generation.BatchDelay = -time.Second }, true},
		{"delay below range", func(c *Config) { c.Generation.BatchDelay = 100 * time.Millisecond }, true},
		{"delay above range", func(c *Config) { c.Generation.BatchDelay = 2 * time.Second }, true},
		{"delay at bounds", func(c *Config) { c.Generation.BatchDelay = MaxBatchDelay }, false},
		{"mock without delay", func(c *Config) { c.LLM.Provider = ProviderMock; c.Generation.BatchDelay = 0 }, false},
		{"mock negative delay", func(c *Config) { c.LLM.Provider = ProviderMock; c.Generation.BatchDelay = -time.Second }, true},
		{"too many retries", func(c *Config) { c.Generation.BatchRetries = MaxBatchRetries + 1 }, true},
		{"max retries", func(c *Config) { c.Generation.BatchRetries = MaxBatchRetries }, false},
		{"tracing without endpoint", func(c *Config) { c.Tracing.Enabled = true }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.LLM.APIKey = "sk-test"
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
