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

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sirseerhq/pr-insights/internal/app"
	"github.com/sirseerhq/pr-insights/internal/assistant"
	"github.com/sirseerhq/pr-insights/internal/config"
	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
	"github.com/sirseerhq/pr-insights/internal/prompts"
	"github.com/sirseerhq/pr-insights/internal/repository"
	"github.com/sirseerhq/pr-insights/internal/session"
)

// inputError is an answer typed at a prompt that was rejected. Its message
// is shown as is, without the generic error prefix.
type inputError struct {
	msg string
	err error
}

func (e *inputError) Error() string { return e.msg }
func (e *inputError) Unwrap() error { return e.err }

type dashboardFlags struct {
	repo           string
	nonInteractive bool
	configPath     string
	transcript     string
	model          string
}

// detectorsFunc returns the repository detectors tried when --repo is
// absent. Tests replace it to keep the host checkout out of the result.
type detectorsFunc func(logger *zap.Logger) []repository.Detector

func defaultDetectors(logger *zap.Logger) []repository.Detector {
	return []repository.Detector{
		&repository.GitRemoteDetector{Logger: logger},
		&repository.GHDetector{Logger: logger},
	}
}

func newRootCommand(streams app.IO, newClient app.ClientFactory) *cobra.Command {
	return newRootCommandWithDetectors(streams, newClient, defaultDetectors)
}

func newRootCommandWithDetectors(streams app.IO, newClient app.ClientFactory, detectors detectorsFunc) *cobra.Command {
	var flags dashboardFlags

	cmd := &cobra.Command{
		Use:   "pr-insights",
		Short: "Explore a repository's pull requests with an AI assistant",
		Long: `PR-insights opens an assistant session about a GitHub repository's pull
requests. The assistant charts the age of open pull requests, then answers
follow-up questions typed on standard input. Type exit or quit to leave
at once. At end of input, questions already sent are answered first, so
questions can be piped in.

Without --repo the repository is detected from the current checkout's
GitHub remote, or asked for on standard input.

The assistant API key is read from OPENAI_API_KEY (see assistant.api_key_env).
GitHub data is fetched with GITHUB_TOKEN or the gh CLI's stored token.`,
		Example: `  pr-insights
  pr-insights --repo golang/go
  pr-insights --repo golang/go --non-interactive`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), streams, newClient, detectors, flags)
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	cmd.Flags().StringVar(&flags.repo, "repo", "", "GitHub repository in owner/repo form (default: detected)")
	cmd.Flags().BoolVar(&flags.nonInteractive, "non-interactive", false, "Print the initial analysis and exit without follow-up questions")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Settings file (default: .pr-insights.yaml or ~/.sirseer/pr-insights.yaml)")
	cmd.Flags().StringVar(&flags.transcript, "transcript", "", "Write every session event to this NDJSON file")
	cmd.Flags().StringVar(&flags.model, "model", "", "Assistant model (overrides settings)")

	return cmd
}

func runDashboard(ctx context.Context, streams app.IO, newClient app.ClientFactory, detectors detectorsFunc, flags dashboardFlags) (err error) {
	out := streams.Out

	cfg, err := app.LoadSettings(flags.configPath, "")
	if err != nil {
		return err
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fmt.Fprintln(out, "🚀 PR Insights Dashboard")
	fmt.Fprintln(out)

	// The prompt and the question loop share one reader so no buffered
	// input is lost between them.
	in := bufio.NewReader(streams.In)

	repo, err := resolveRepository(ctx, flags.repo, in, out, detectors(logger))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n📊 Analyzing: %s\n\n", repo)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	run, err := config.NewRunConfig(config.RunOptions{
		Repository:     repo,
		Interactive:    !flags.nonInteractive,
		WorkDir:        workDir,
		TranscriptPath: flags.transcript,
	})
	if err != nil {
		return err
	}
	model := app.ModelFor(cfg, repo.String(), flags.model)
	logger.Debug("interactive run configured", zap.Stringer("run", run), zap.String("model", model))

	transcript, err := app.OpenTranscript(run.TranscriptPath())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, transcript.Close()) }()

	return session.Run(ctx, session.Options{
		Client: newClient(cfg, run.WorkDir(), logger),
		Session: assistant.SessionOptions{
			Model:         model,
			SystemMessage: prompts.InteractiveSystemMessage(run.Repository(), run.WorkDir()),
		},
		Mode:       session.ModeInteractive,
		Out:        out,
		Transcript: transcript,
		Logger:     logger,
	}, &session.Interactive{
		In:            in,
		InitialPrompt: prompts.InitialPrompt,
		Suggestions:   prompts.FollowUpSuggestions,
		FollowUp:      run.Interactive(),
		Logger:        logger,
	})
}

// resolveRepository picks the repository from the flag, then the
// detectors, then a prompt on in.
func resolveRepository(ctx context.Context, flag string, in *bufio.Reader, out io.Writer, detectors []repository.Detector) (repository.Repository, error) {
	if strings.TrimSpace(flag) != "" {
		return repository.Parse(flag)
	}

	if repo, ok := repository.Detect(ctx, detectors...); ok {
		fmt.Fprintf(out, "📦 Auto-detected: %s\n", repo)
		return repo, nil
	}

	repo, err := repository.Prompt(in, out)
	if err != nil {
		if errors.Is(err, insightserrors.ErrInvalidRepository) {
			err = &inputError{msg: "Invalid format. Expected: owner/repo", err: err}
		}
		return repository.Repository{}, err
	}
	return repo, nil
}
