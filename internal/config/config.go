// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides settings management for pr-insights with
// support for multiple sources and a well-defined precedence order.
//
// Settings sources (in precedence order, highest to lowest):
//  1. Command-line flags (applied by the binaries)
//  2. Environment variables, including those loaded from .env
//  3. Repository-specific settings
//  4. Settings file
//  5. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cli/go-gh/pkg/auth"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
)

// LoadConfig loads settings from all sources. If configPath is provided it
// loads that file; otherwise it searches, in order:
//   - .pr-insights.yaml (current directory)
//   - .pr-insights.yml (current directory)
//   - ~/.sirseer/pr-insights.yaml
//   - ~/.sirseer/pr-insights.yml
//
// A .env file in the current directory is loaded into the environment first
// without overriding variables that are already set.
//
// Returns an error if the specified file cannot be loaded, but succeeds
// with defaults if no file is found in the standard locations.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home := os.Getenv("HOME")
		defaultPaths := []string{
			".pr-insights.yaml",
			".pr-insights.yml",
			filepath.Join(home, ".sirseer", "pr-insights.yaml"),
			filepath.Join(home, ".sirseer", "pr-insights.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Defaults.StateDir = expandPath(cfg.Defaults.StateDir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML settings file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to cfg
func applyEnvOverrides(cfg *Config) error {
	if baseURL := firstEnv("PR_INSIGHTS_BASE_URL", "OPENAI_BASE_URL"); baseURL != "" {
		cfg.Assistant.BaseURL = baseURL
	}
	if model := os.Getenv("PR_INSIGHTS_MODEL"); model != "" {
		cfg.Assistant.Model = model
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}
	if delay := os.Getenv("PR_INSIGHTS_TASK_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("%w: PR_INSIGHTS_TASK_DELAY: %v", insightserrors.ErrInvalidConfig, err)
		}
		cfg.Defaults.TaskDelay = d
	}
	if stateDir := os.Getenv("PR_INSIGHTS_STATE_DIR"); stateDir != "" {
		cfg.Defaults.StateDir = stateDir
	}
	if level := os.Getenv("PR_INSIGHTS_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// GetModel returns the effective model for a repository, taking
// repository-specific overrides into account.
func (c *Config) GetModel(repo string) string {
	if repoConfig, ok := c.Repositories[repo]; ok && repoConfig.Model != "" {
		return repoConfig.Model
	}
	return c.Assistant.Model
}

// APIKey returns the assistant API key from the configured variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Assistant.APIKeyEnv)
}

// GitHubToken returns the token for the pull-request tools: the configured
// variable first, then whatever the gh CLI has stored for github.com.
func (c *Config) GitHubToken() string {
	if c.GitHub.TokenEnv != "" {
		if token := os.Getenv(c.GitHub.TokenEnv); token != "" {
			return token
		}
	}
	token, _ := auth.TokenForHost("github.com")
	return token
}

// Validate checks that settings are usable before any session is created.
func (c *Config) Validate() error {
	if c.Assistant.BaseURL == "" {
		return fmt.Errorf("%w: assistant base URL cannot be empty", insightserrors.ErrInvalidConfig)
	}
	if c.Assistant.Model == "" {
		return fmt.Errorf("%w: assistant model cannot be empty", insightserrors.ErrInvalidConfig)
	}
	if c.Assistant.MaxToolRounds <= 0 {
		return fmt.Errorf("%w: max tool rounds must be positive, got: %d", insightserrors.ErrInvalidConfig, c.Assistant.MaxToolRounds)
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("%w: GitHub GraphQL endpoint cannot be empty", insightserrors.ErrInvalidConfig)
	}
	if c.GitHub.PageSize <= 0 || c.GitHub.PageSize > 100 {
		return fmt.Errorf("%w: page size %d outside GitHub API range 1-100", insightserrors.ErrInvalidConfig, c.GitHub.PageSize)
	}
	if c.Defaults.TaskDelay < 0 {
		return fmt.Errorf("%w: task delay cannot be negative, got: %s", insightserrors.ErrInvalidConfig, c.Defaults.TaskDelay)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", insightserrors.ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}
