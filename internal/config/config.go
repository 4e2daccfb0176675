// Package config provides hierarchical configuration management for shiplog
// using koanf. Configuration is loaded with priority: environment variables >
// project config (.shiplog/config.yml) > user config (~/.config/shiplog/config.yml)
// > defaults. YAML is the native format; JSON config files are accepted by
// extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the shiplog CLI tool configuration.
type Configuration struct {
	// Model names the chat-completions model used for summarization.
	// Can be set via SHIPLOG_MODEL.
	Model string `koanf:"model" yaml:"model"`

	// Temperature is the sampling temperature for summaries.
	Temperature float64 `koanf:"temperature" yaml:"temperature"`

	// MaxSummaryTokens caps the generated summary length, not the prompt.
	MaxSummaryTokens int `koanf:"max_summary_tokens" yaml:"max_summary_tokens"`

	// BaseURL overrides the chat-completions endpoint, e.g. for a local
	// OpenAI-compatible server. Empty means the public OpenAI endpoint.
	BaseURL string `koanf:"base_url" yaml:"base_url"`

	// Timeout is the per-request LLM timeout in seconds.
	Timeout int `koanf:"timeout" yaml:"timeout"`

	// PromptFile points at a custom prompt template. Empty uses the
	// embedded default template.
	PromptFile string `koanf:"prompt_file" yaml:"prompt_file"`

	// Concurrency bounds how many commits are summarized in flight at once.
	Concurrency int `koanf:"concurrency" yaml:"concurrency"`

	// RepoName is the project name substituted into the prompt template.
	// Empty falls back to the repository directory name.
	RepoName string `koanf:"repo_name" yaml:"repo_name"`
}

// LLMTimeout returns the configured timeout as a duration.
func (c *Configuration) LLMTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Load loads configuration from user config, project config, and environment.
// projectConfigPath overrides the project config location when non-empty
// (used by tests and the --config flag).
func Load(projectConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		k.Set(key, value)
	}

	userPath, _ := UserConfigPath()
	if err := loadFileIfExists(k, userPath, "user"); err != nil {
		return nil, err
	}

	projectPath := ProjectConfigPath()
	if projectConfigPath != "" {
		projectPath = projectConfigPath
	}
	if err := loadFileIfExists(k, projectPath, "project"); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("SHIPLOG_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	cfg.PromptFile = expandHomePath(cfg.PromptFile)
	return &cfg, nil
}

// loadFileIfExists loads a config file when present, picking the parser by
// file extension. A missing file is not an error.
func loadFileIfExists(k *koanf.Koanf, path, configType string) error {
	if path == "" || !fileExists(path) {
		return nil
	}

	parser := parserFor(path)
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("loading %s config %s: %w", configType, path, err)
	}
	return nil
}

// parserFor selects the koanf parser by file extension. YAML is the default.
func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return yaml.Parser()
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: SHIPLOG_MAX_SUMMARY_TOKENS -> max_summary_tokens
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "SHIPLOG_"))
}

// expandHomePath expands ~ to the user's home directory.
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
