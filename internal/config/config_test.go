package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projectheap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("PROJECTHEAP_GITHUB_USER", "")
	t.Setenv("PROJECTHEAP_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 15*time.Second, cfg.GetGitHubTimeout())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("PROJECTHEAP_GITHUB_USER", "")
	t.Setenv("PROJECTHEAP_LOG_LEVEL", "")

	path := writeConfig(t, `
github:
  username: octocat
  timeout: 3s
  include_readme: true
  max_repos: 20
classifier:
  tokens: [go, k8s]
session:
  strict: true
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "octocat", cfg.GitHub.Username)
	assert.Equal(t, 3*time.Second, cfg.GetGitHubTimeout())
	assert.True(t, cfg.GitHub.IncludeReadme)
	assert.Equal(t, 20, cfg.GitHub.MaxRepos)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL, "unset keys keep defaults")
	assert.Equal(t, []string{"go", "k8s"}, cfg.Classifier.Tokens)
	assert.NotEmpty(t, cfg.Classifier.Phrases)
	assert.True(t, cfg.Session.Strict)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("PROJECTHEAP_GITHUB_USER", "from-env")
	t.Setenv("PROJECTHEAP_LOG_LEVEL", "warn")

	path := writeConfig(t, "github:\n  username: from-file\n  token: file-token\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.GitHub.Token)
	assert.Equal(t, "from-env", cfg.GitHub.Username)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PROJECTHEAP_LOG_LEVEL", "")

	testCases := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "github: [unclosed"},
		{name: "bad timeout", body: "github:\n  timeout: soon\n"},
		{name: "negative rate", body: "github:\n  rate_per_second: -1\n"},
		{name: "zero concurrency", body: "github:\n  concurrency: 0\n"},
		{name: "negative max repos", body: "github:\n  max_repos: -3\n"},
		{name: "bad level", body: "logging:\n  level: loud\n"},
		{name: "bad format", body: "logging:\n  format: xml\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}
