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

// Package config types define the settings structures used by both
// pr-insights binaries. Settings come from YAML files, a .env file,
// environment variables, and command-line flags.
package config

import "time"

// Config represents the complete settings for a run. It consolidates
// values from the sources listed in LoadConfig.
type Config struct {
	Assistant    AssistantConfig       `yaml:"assistant"`
	GitHub       GitHubConfig          `yaml:"github"`
	Defaults     DefaultsConfig        `yaml:"defaults"`
	Repositories map[string]RepoConfig `yaml:"repositories"`
	Logging      LoggingConfig         `yaml:"logging"`
}

// AssistantConfig selects the OpenAI-compatible endpoint that hosts the
// assistant session and the model it runs.
type AssistantConfig struct {
	BaseURL       string `yaml:"base_url"`
	APIKeyEnv     string `yaml:"api_key_env"`
	Model         string `yaml:"model"`
	MaxToolRounds int    `yaml:"max_tool_rounds"`
}

// GitHubConfig contains the settings used by the pull-request tools the
// assistant calls. Custom endpoints allow GitHub Enterprise deployments.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
	PageSize        int    `yaml:"page_size"`
}

// DefaultsConfig contains defaults for flags and batch pacing.
type DefaultsConfig struct {
	OutputDir string `yaml:"output_dir"`
	// TaskDelay is the pause between batch analyses. Zero disables it.
	TaskDelay time.Duration `yaml:"task_delay"`
	// StateDir receives run metadata after a batch run. Empty disables it.
	StateDir string `yaml:"state_dir"`
}

// RepoConfig contains repository-specific overrides.
type RepoConfig struct {
	Model string `yaml:"model"`
}

// LoggingConfig controls the diagnostics logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with defaults suitable for public
// GitHub.com and the OpenAI API.
func DefaultConfig() *Config {
	return &Config{
		Assistant: AssistantConfig{
			BaseURL:       "https://api.openai.com/v1",
			APIKeyEnv:     "OPENAI_API_KEY",
			Model:         "gpt-5",
			MaxToolRounds: 25,
		},
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
			PageSize:        50,
		},
		Defaults: DefaultsConfig{
			OutputDir: "./advanced-output",
			TaskDelay: time.Second,
		},
		Repositories: make(map[string]RepoConfig),
		Logging: LoggingConfig{
			Level: "error",
		},
	}
}
