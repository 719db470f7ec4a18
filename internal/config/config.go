package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/abelbrown/epiwatch/internal/model"
)

// Config is the persistent application configuration
type Config struct {
	// Path to the SQLite database
	DBPath string `json:"db_path"`

	// Information sources to ingest
	Sources []SourceConfig `json:"sources"`

	// AI Models for the generative extraction strategy
	Models ModelConfig `json:"models"`

	// Anomaly analysis settings
	Analysis AnalysisConfig `json:"analysis"`
}

// SourceConfig describes one information source.
type SourceConfig struct {
	Name    string           `json:"name"`
	URL     string           `json:"url"`
	Tier    int              `json:"tier"` // 1 = official/authoritative
	Type    model.SourceType `json:"type"` // "api" or "rss"
	Enabled bool             `json:"enabled"`
}

// ModelConfig holds AI model settings
type ModelConfig struct {
	Claude ModelSettings `json:"claude"`
	OpenAI ModelSettings `json:"openai"`
	Ollama ModelSettings `json:"ollama"`
}

// ModelSettings for a single AI provider
type ModelSettings struct {
	Enabled  bool   `json:"enabled"`
	APIKey   string `json:"api_key,omitempty"`
	Endpoint string `json:"endpoint,omitempty"` // For Ollama or custom endpoints
	Model    string `json:"model,omitempty"`    // Specific model to use
	Priority int    `json:"priority"`           // Lower = higher priority for fallback
}

// AnalysisConfig holds anomaly detection preferences
type AnalysisConfig struct {
	LookbackDays int `json:"lookback_days"` // Window for daily-count statistics
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath: filepath.Join(home, ".epiwatch", "epiwatch.db"),
		Sources: []SourceConfig{
			{
				Name:    "WHO Disease Outbreak News",
				URL:     "https://www.who.int/emergencies/disease-outbreak-news",
				Tier:    model.TierOfficial,
				Type:    model.SourceAPI,
				Enabled: true,
			},
			{
				Name:    "CIDRAP News",
				URL:     "https://www.cidrap.umn.edu/rss/all.xml",
				Tier:    model.TierSecondary,
				Type:    model.SourceRSS,
				Enabled: false,
			},
		},
		Models: ModelConfig{
			Claude: ModelSettings{
				Enabled:  true,
				Priority: 1,
				Model:    "claude-sonnet-4-5-20250929",
			},
			OpenAI: ModelSettings{
				Enabled:  false,
				Priority: 2,
				Model:    "gpt-5.2",
			},
			Ollama: ModelSettings{
				Enabled:  false,
				Priority: 3,
				Endpoint: "http://localhost:11434",
				// Model auto-detected from Ollama if not specified
			},
		},
		Analysis: AnalysisConfig{
			LookbackDays: 30,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".epiwatch", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults and try to auto-populate from environment
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.AutoPopulateFromEnv()
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultConfig().DBPath
	}
	if cfg.Analysis.LookbackDays <= 0 {
		cfg.Analysis.LookbackDays = 30
	}

	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && c.Models.Claude.APIKey == "" {
		c.Models.Claude.APIKey = key
	}
	if key := os.Getenv("CLAUDE_API_KEY"); key != "" && c.Models.Claude.APIKey == "" {
		c.Models.Claude.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.Models.OpenAI.APIKey == "" {
		c.Models.OpenAI.APIKey = key
	}
	if path := os.Getenv("EPIWATCH_DB"); path != "" {
		c.DBPath = path
	}
}

// EnabledSources returns the sources that should be ingested.
func (c *Config) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
