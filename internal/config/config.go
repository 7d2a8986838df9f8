// Package config loads projectheap settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "projectheap.yaml"

// Config holds all projectheap configuration.
type Config struct {
	GitHub     GitHubConfig     `yaml:"github"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Session    SessionConfig    `yaml:"session"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GitHubConfig configures the repository fetch.
type GitHubConfig struct {
	Username      string  `yaml:"username"`
	Token         string  `yaml:"token"`
	BaseURL       string  `yaml:"base_url"`
	Timeout       string  `yaml:"timeout"`
	IncludeReadme bool    `yaml:"include_readme"`
	RatePerSecond float64 `yaml:"rate_per_second"` // 0 disables throttling
	Concurrency   int     `yaml:"concurrency"`     // parallel README fetches
	MaxRepos      int     `yaml:"max_repos"`       // 0 keeps everything
}

// ClassifierConfig lists the keywords that promote a project to the flagged tier.
type ClassifierConfig struct {
	Phrases []string `yaml:"phrases"` // substring match
	Tokens  []string `yaml:"tokens"`  // word-boundary match
}

// SessionConfig configures the heap/stack session.
type SessionConfig struct {
	Strict bool `yaml:"strict"` // verify invariants after every operation
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty means stderr
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			BaseURL:       "https://api.github.com",
			Timeout:       "15s",
			IncludeReadme: false,
			RatePerSecond: 10,
			Concurrency:   4,
		},
		Classifier: ClassifierConfig{
			Phrases: []string{"deep learning", "machine learning", "chat", "chatbot", "neural", "transformer", "gpt", "langchain"},
			Tokens:  []string{"ai", "ml", "llm"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if user := os.Getenv("PROJECTHEAP_GITHUB_USER"); user != "" {
		c.GitHub.Username = user
	}
	if level := os.Getenv("PROJECTHEAP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks the configuration for obviously bad values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.GitHub.Timeout); err != nil {
		return fmt.Errorf("invalid github.timeout %q: %w", c.GitHub.Timeout, err)
	}
	if c.GitHub.RatePerSecond < 0 {
		return fmt.Errorf("github.rate_per_second must not be negative")
	}
	if c.GitHub.Concurrency < 1 {
		return fmt.Errorf("github.concurrency must be at least 1")
	}
	if c.GitHub.MaxRepos < 0 {
		return fmt.Errorf("github.max_repos must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	return nil
}

// GetGitHubTimeout returns the GitHub request timeout.
func (c *Config) GetGitHubTimeout() time.Duration {
	d, err := time.ParseDuration(c.GitHub.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}
