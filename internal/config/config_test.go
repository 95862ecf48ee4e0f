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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
	"github.com/sirseerhq/pr-insights/internal/repository"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assistant.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %s, want https://api.openai.com/v1", cfg.Assistant.BaseURL)
	}
	if cfg.Assistant.Model != "gpt-5" {
		t.Errorf("Model = %s, want gpt-5", cfg.Assistant.Model)
	}
	if cfg.Assistant.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnv = %s, want OPENAI_API_KEY", cfg.Assistant.APIKeyEnv)
	}
	if cfg.GitHub.GraphQLEndpoint != "https://api.github.com/graphql" {
		t.Errorf("GraphQLEndpoint = %s, want https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	}
	if cfg.Defaults.OutputDir != "./advanced-output" {
		t.Errorf("OutputDir = %s, want ./advanced-output", cfg.Defaults.OutputDir)
	}
	if cfg.Defaults.TaskDelay != time.Second {
		t.Errorf("TaskDelay = %s, want 1s", cfg.Defaults.TaskDelay)
	}
	if cfg.Defaults.StateDir != "" {
		t.Errorf("StateDir = %s, want empty", cfg.Defaults.StateDir)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Level = %s, want error", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"PR_INSIGHTS_BASE_URL", "OPENAI_BASE_URL", "PR_INSIGHTS_MODEL",
		"GITHUB_GRAPHQL_ENDPOINT", "PR_INSIGHTS_TASK_DELAY",
		"PR_INSIGHTS_STATE_DIR", "PR_INSIGHTS_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `
assistant:
  base_url: https://llm.internal.example.com/v1
  api_key_env: INTERNAL_LLM_KEY
  model: gpt-4.1
  max_tool_rounds: 10

github:
  graphql_endpoint: https://github.enterprise.com/api/graphql
  token_env: GITHUB_ENTERPRISE_TOKEN
  page_size: 25

defaults:
  output_dir: ./reports
  task_delay: 250ms
  state_dir: /custom/state

repositories:
  "org/repo":
    model: gpt-4o-mini

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Assistant.BaseURL != "https://llm.internal.example.com/v1" {
		t.Errorf("BaseURL = %s", cfg.Assistant.BaseURL)
	}
	if cfg.Assistant.APIKeyEnv != "INTERNAL_LLM_KEY" {
		t.Errorf("APIKeyEnv = %s", cfg.Assistant.APIKeyEnv)
	}
	if cfg.Assistant.MaxToolRounds != 10 {
		t.Errorf("MaxToolRounds = %d, want 10", cfg.Assistant.MaxToolRounds)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_ENTERPRISE_TOKEN" {
		t.Errorf("TokenEnv = %s", cfg.GitHub.TokenEnv)
	}
	if cfg.GitHub.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.GitHub.PageSize)
	}
	if cfg.Defaults.TaskDelay != 250*time.Millisecond {
		t.Errorf("TaskDelay = %s, want 250ms", cfg.Defaults.TaskDelay)
	}
	if cfg.Defaults.OutputDir != "./reports" {
		t.Errorf("OutputDir = %s", cfg.Defaults.OutputDir)
	}
	if repoConfig, ok := cfg.Repositories["org/repo"]; !ok {
		t.Error("Repository org/repo not found")
	} else if repoConfig.Model != "gpt-4o-mini" {
		t.Errorf("Repository Model = %s, want gpt-4o-mini", repoConfig.Model)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadConfig with a missing explicit file succeeded")
	}
}

func TestLoadConfig_HomeFile(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".sirseer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pr-insights.yaml"), []byte("assistant:\n  model: from-home\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Assistant.Model != "from-home" {
		t.Errorf("Model = %s, want from-home", cfg.Assistant.Model)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PR_INSIGHTS_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("PR_INSIGHTS_MODEL", "env-model")
	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", "https://custom.graphql.com")
	t.Setenv("PR_INSIGHTS_TASK_DELAY", "0s")
	t.Setenv("PR_INSIGHTS_STATE_DIR", "/env/state")
	t.Setenv("PR_INSIGHTS_LOG_LEVEL", "info")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("assistant:\n  model: file-model\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Assistant.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("BaseURL = %s", cfg.Assistant.BaseURL)
	}
	if cfg.Assistant.Model != "env-model" {
		t.Errorf("Model = %s, want env-model (env beats file)", cfg.Assistant.Model)
	}
	if cfg.GitHub.GraphQLEndpoint != "https://custom.graphql.com" {
		t.Errorf("GraphQLEndpoint = %s", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.Defaults.TaskDelay != 0 {
		t.Errorf("TaskDelay = %s, want 0", cfg.Defaults.TaskDelay)
	}
	if cfg.Defaults.StateDir != "/env/state" {
		t.Errorf("StateDir = %s", cfg.Defaults.StateDir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %s", cfg.Logging.Level)
	}
}

func TestEnvironmentOverrides_OpenAIBaseURLFallback(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_BASE_URL", "http://fallback/v1")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Assistant.BaseURL != "http://fallback/v1" {
		t.Errorf("BaseURL = %s", cfg.Assistant.BaseURL)
	}
}

func TestEnvironmentOverrides_BadDelay(t *testing.T) {
	isolate(t)
	t.Setenv("PR_INSIGHTS_TASK_DELAY", "soon")

	_, err := LoadConfig("")
	if !errors.Is(err, insightserrors.ErrInvalidConfig) {
		t.Errorf("LoadConfig error = %v, want ErrInvalidConfig", err)
	}
}

func TestGetModel(t *testing.T) {
	cfg := &Config{
		Assistant: AssistantConfig{Model: "default-model"},
		Repositories: map[string]RepoConfig{
			"org/repo1": {Model: "special"},
			"org/repo2": {Model: ""},
		},
	}

	tests := []struct {
		repo string
		want string
	}{
		{"org/repo1", "special"},
		{"org/repo2", "default-model"},
		{"org/repo3", "default-model"},
	}

	for _, tt := range tests {
		if got := cfg.GetModel(tt.repo); got != tt.want {
			t.Errorf("GetModel(%s) = %s, want %s", tt.repo, got, tt.want)
		}
	}
}

func TestAPIKeyAndToken(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Assistant.APIKeyEnv = "TEST_PR_INSIGHTS_KEY"
	cfg.GitHub.TokenEnv = "TEST_PR_INSIGHTS_TOKEN"
	t.Setenv("TEST_PR_INSIGHTS_KEY", "sk-test")
	t.Setenv("TEST_PR_INSIGHTS_TOKEN", "ghp-test")

	if got := cfg.APIKey(); got != "sk-test" {
		t.Errorf("APIKey() = %q", got)
	}
	if got := cfg.GitHubToken(); got != "ghp-test" {
		t.Errorf("GitHubToken() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return DefaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "empty base url", mutate: func(c *Config) { c.Assistant.BaseURL = "" }, wantErr: "base URL cannot be empty"},
		{name: "empty model", mutate: func(c *Config) { c.Assistant.Model = "" }, wantErr: "model cannot be empty"},
		{name: "zero tool rounds", mutate: func(c *Config) { c.Assistant.MaxToolRounds = 0 }, wantErr: "max tool rounds must be positive"},
		{name: "empty GraphQL endpoint", mutate: func(c *Config) { c.GitHub.GraphQLEndpoint = "" }, wantErr: "GraphQL endpoint cannot be empty"},
		{name: "page size too large", mutate: func(c *Config) { c.GitHub.PageSize = 150 }, wantErr: "outside GitHub API range"},
		{name: "negative delay", mutate: func(c *Config) { c.Defaults.TaskDelay = -time.Second }, wantErr: "task delay cannot be negative"},
		{name: "zero delay allowed", mutate: func(c *Config) { c.Defaults.TaskDelay = 0 }},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %s", err, tt.wantErr)
			}
			if !errors.Is(err, insightserrors.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandPath(tt.input); got != tt.want {
			t.Errorf("expandPath(%s) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseAnalysisList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"velocity-trends", []string{"velocity-trends"}},
		{"velocity-trends,label-analysis", []string{"velocity-trends", "label-analysis"}},
		{" velocity-trends , ,label-analysis,", []string{"velocity-trends", "label-analysis"}},
		{"a,b,a", []string{"a", "b"}},
	}

	for _, tt := range tests {
		got := ParseAnalysisList(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("ParseAnalysisList(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewRunConfig(t *testing.T) {
	repo := repository.Repository{Owner: "github", Name: "copilot-sdk"}
	analyses := []string{"velocity-trends"}

	run, err := NewRunConfig(RunOptions{
		Repository: repo,
		OutputDir:  "./out",
		Analyses:   analyses,
		WorkDir:    "/work",
	})
	if err != nil {
		t.Fatalf("NewRunConfig: %v", err)
	}

	analyses[0] = "mutated"
	if got := run.Analyses(); got[0] != "velocity-trends" {
		t.Errorf("RunConfig shares caller slice: %v", got)
	}
	got := run.Analyses()
	got[0] = "mutated"
	if run.Analyses()[0] != "velocity-trends" {
		t.Error("Analyses() exposes internal slice")
	}
	if run.Repository() != repo {
		t.Errorf("Repository() = %v", run.Repository())
	}
	if run.OutputDir() != "./out" || run.WorkDir() != "/work" {
		t.Errorf("paths = %s %s", run.OutputDir(), run.WorkDir())
	}

	if _, err := NewRunConfig(RunOptions{}); !errors.Is(err, insightserrors.ErrMissingRepository) {
		t.Errorf("NewRunConfig without repo error = %v, want ErrMissingRepository", err)
	}
	if _, err := NewRunConfig(RunOptions{Repository: repository.Repository{Owner: "a/b", Name: "c"}}); !errors.Is(err, insightserrors.ErrInvalidRepository) {
		t.Errorf("NewRunConfig with bad repo error = %v, want ErrInvalidRepository", err)
	}
}
