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
	"github.com/sirseerhq/pr-insights/internal/metadata"
	"github.com/sirseerhq/pr-insights/internal/prompts"
	"github.com/sirseerhq/pr-insights/internal/report"
	"github.com/sirseerhq/pr-insights/internal/repository"
	"github.com/sirseerhq/pr-insights/internal/session"
)

// requiredFlagError reports a missing mandatory flag.
type requiredFlagError struct {
	flag string
	err  error
}

func (e *requiredFlagError) Error() string { return e.flag + " is required" }
func (e *requiredFlagError) Unwrap() error { return e.err }

type batchFlags struct {
	repo       string
	outputDir  string
	analyses   string
	configPath string
	transcript string
	model      string
}

func newRootCommand(streams app.IO, newClient app.ClientFactory) *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "advanced-analysis",
		Short: "Run a series of AI pull request analyses and write reports",
		Long: `Advanced-analysis runs a fixed series of pull request analyses against a
GitHub repository through an AI assistant and writes charts and Markdown
reports to the output directory, finishing with a summary report.

Available analyses:
  ` + strings.Join(prompts.Names(), "\n  ") + `

The assistant API key is read from OPENAI_API_KEY (see assistant.api_key_env).
GitHub data is fetched with GITHUB_TOKEN or the gh CLI's stored token.`,
		Example: `  advanced-analysis --repo golang/go
  advanced-analysis --repo golang/go --output ./reports --analysis velocity-trends,review-patterns`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				flags.outputDir = ""
			}
			return runBatch(cmd, streams, newClient, flags)
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	cmd.Flags().StringVar(&flags.repo, "repo", "", "GitHub repository in owner/repo form (required)")
	cmd.Flags().StringVar(&flags.outputDir, "output", config.DefaultConfig().Defaults.OutputDir, "Directory for generated reports and charts")
	cmd.Flags().StringVar(&flags.analyses, "analysis", "", "Comma-separated analyses to run (default: all)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Settings file (default: .pr-insights.yaml or ~/.sirseer/pr-insights.yaml)")
	cmd.Flags().StringVar(&flags.transcript, "transcript", "", "Write every session event to this NDJSON file")
	cmd.Flags().StringVar(&flags.model, "model", "", "Assistant model (overrides settings)")

	return cmd
}

func runBatch(cmd *cobra.Command, streams app.IO, newClient app.ClientFactory, flags batchFlags) (err error) {
	ctx := cmd.Context()
	out := streams.Out

	if strings.TrimSpace(flags.repo) == "" {
		return &requiredFlagError{flag: "--repo", err: insightserrors.ErrMissingRepository}
	}
	repo, err := repository.Parse(flags.repo)
	if err != nil {
		return err
	}

	cfg, err := app.LoadSettings(flags.configPath, "")
	if err != nil {
		return err
	}
	model := app.ModelFor(cfg, repo.String(), flags.model)

	outputDir := flags.outputDir
	if outputDir == "" {
		outputDir = cfg.Defaults.OutputDir
	}

	run, err := config.NewRunConfig(config.RunOptions{
		Repository:     repo,
		OutputDir:      outputDir,
		Analyses:       config.ParseAnalysisList(flags.analyses),
		TranscriptPath: flags.transcript,
	})
	if err != nil {
		return err
	}
	tasks, err := prompts.Select(run.Analyses())
	if err != nil {
		return err
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("batch run configured", zap.Stringer("run", run), zap.String("model", model))

	fmt.Fprintln(out, "🚀 Advanced PR Analysis Tool")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "📦 Repository: %s\n", run.Repository())
	fmt.Fprintf(out, "📁 Output: %s\n", run.OutputDir())
	if cfg.Defaults.StateDir != "" {
		printPreviousRun(out, cfg.Defaults.StateDir, run.Repository().String(), logger)
	}
	fmt.Fprintln(out)

	if err := os.MkdirAll(run.OutputDir(), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	transcript, err := app.OpenTranscript(run.TranscriptPath())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, transcript.Close()) }()

	tracker := metadata.New(metadata.RunParams{
		Repository: run.Repository().String(),
		Model:      model,
		OutputDir:  run.OutputDir(),
	})
	logger.Debug("run started", zap.String("run_id", tracker.RunID()))

	runErr := session.Run(ctx, session.Options{
		Client: newClient(cfg, run.OutputDir(), logger),
		Session: assistant.SessionOptions{
			Model:         model,
			SystemMessage: prompts.BatchSystemMessage(run.Repository(), run.OutputDir()),
		},
		Mode:       session.ModeBatch,
		Out:        out,
		Transcript: transcript,
		Logger:     logger,
	}, &session.Batch{
		Tasks:   tasks,
		Summary: prompts.SummaryPrompt,
		Delay:   cfg.Defaults.TaskDelay,
		Tracker: tracker,
		Logger:  logger,
	})

	if cfg.Defaults.StateDir != "" {
		path, saveErr := metadata.SaveMetadata(tracker.Generate(runErr), cfg.Defaults.StateDir)
		if saveErr != nil {
			logger.Warn("failed to save run metadata", zap.Error(saveErr))
		} else {
			logger.Debug("run metadata saved", zap.String("path", path))
		}
	}

	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(out, "\n✅ Analysis complete!")
	fmt.Fprintf(out, "📂 Reports available in: %s\n\n", run.OutputDir())

	return report.PrintDir(out, run.OutputDir())
}

// printPreviousRun shows when the last recorded run for repo happened and
// how long it took. Unreadable state is logged and skipped.
func printPreviousRun(out io.Writer, stateDir, repo string, logger *zap.Logger) {
	prev, err := metadata.LoadLatestMetadata(stateDir, repo)
	if err != nil {
		logger.Warn("failed to read previous run metadata", zap.Error(err))
		return
	}
	if prev == nil {
		return
	}
	fmt.Fprintf(out, "⏱️  Previous run: %s, took %s (%s)\n",
		prev.StartedAt.Local().Format("2006-01-02 15:04"), prev.Duration, prev.Status)
}
