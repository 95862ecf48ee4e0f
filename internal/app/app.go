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

// Package app holds the wiring shared by the pr-insights and
// advanced-analysis commands: settings, logging, the assistant client and
// its tools, and the optional transcript.
package app

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/sirseerhq/pr-insights/internal/assistant"
	"github.com/sirseerhq/pr-insights/internal/assistant/chat"
	"github.com/sirseerhq/pr-insights/internal/config"
	"github.com/sirseerhq/pr-insights/internal/github"
	"github.com/sirseerhq/pr-insights/internal/logging"
	"github.com/sirseerhq/pr-insights/internal/output"
	"github.com/sirseerhq/pr-insights/internal/tools"
)

// IO is the process's standard streams.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ClientFactory builds the assistant client for a run. Tools write below
// toolRoot.
type ClientFactory func(cfg *config.Config, toolRoot string, logger *zap.Logger) assistant.Client

// LoadSettings loads and validates settings. A non-empty model overrides
// the configured one.
func LoadSettings(configPath, model string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if model != "" {
		cfg.Assistant.Model = model
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ModelFor returns the model for repo: the flag value when set, else the
// per-repository setting, else the default.
func ModelFor(cfg *config.Config, repo, flagModel string) string {
	if flagModel != "" {
		return flagModel
	}
	return cfg.GetModel(repo)
}

// NewLogger builds the diagnostics logger for cfg.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.Level)
}

// NewToolRegistry builds the session tools. Without a GitHub token the
// repository tools are left out and a warning is written to warn.
func NewToolRegistry(cfg *config.Config, root string, warn io.Writer) *tools.Registry {
	opts := tools.Options{Root: root, PageSize: cfg.GitHub.PageSize}
	if token := cfg.GitHubToken(); token != "" {
		opts.GitHub = github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint)
	} else {
		fmt.Fprintf(warn, "⚠️  No GitHub token found (set %s or run `gh auth login`); pull request tools are disabled.\n", cfg.GitHub.TokenEnv)
	}
	return tools.Default(opts)
}

// ChatClientFactory returns the ClientFactory for the OpenAI-compatible
// backend. Warnings go to warn.
func ChatClientFactory(warn io.Writer) ClientFactory {
	return func(cfg *config.Config, toolRoot string, logger *zap.Logger) assistant.Client {
		return chat.New(chat.Config{
			BaseURL:       cfg.Assistant.BaseURL,
			APIKey:        cfg.APIKey(),
			Model:         cfg.Assistant.Model,
			MaxToolRounds: cfg.Assistant.MaxToolRounds,
			Tools:         NewToolRegistry(cfg, toolRoot, warn),
			Logger:        logger,
		})
	}
}

// OpenTranscript opens the NDJSON transcript at path, or returns
// output.Discard when path is empty.
func OpenTranscript(path string) (output.RecordWriter, error) {
	if path == "" {
		return output.Discard, nil
	}
	return output.CreateFile(path)
}
