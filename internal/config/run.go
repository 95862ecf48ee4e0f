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
	"fmt"
	"slices"
	"strings"

	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
	"github.com/sirseerhq/pr-insights/internal/repository"
)

// RunOptions carries the resolved inputs of one invocation.
type RunOptions struct {
	Repository     repository.Repository
	OutputDir      string
	Analyses       []string
	Interactive    bool
	WorkDir        string
	TranscriptPath string
}

// RunConfig is the read-only configuration of one invocation. It is built
// once after flag parsing and passed by value to the session driver.
type RunConfig struct {
	repo           repository.Repository
	outputDir      string
	analyses       []string
	interactive    bool
	workDir        string
	transcriptPath string
}

// NewRunConfig validates opts and freezes them into a RunConfig.
func NewRunConfig(opts RunOptions) (RunConfig, error) {
	if opts.Repository.IsZero() {
		return RunConfig{}, insightserrors.ErrMissingRepository
	}
	if _, err := repository.Parse(opts.Repository.String()); err != nil {
		return RunConfig{}, err
	}

	return RunConfig{
		repo:           opts.Repository,
		outputDir:      opts.OutputDir,
		analyses:       slices.Clone(opts.Analyses),
		interactive:    opts.Interactive,
		workDir:        opts.WorkDir,
		transcriptPath: opts.TranscriptPath,
	}, nil
}

// Repository returns the repository under analysis.
func (r RunConfig) Repository() repository.Repository { return r.repo }

// OutputDir returns the directory batch artifacts are written to.
func (r RunConfig) OutputDir() string { return r.outputDir }

// Analyses returns a copy of the selected analysis names. Empty means all.
func (r RunConfig) Analyses() []string { return slices.Clone(r.analyses) }

// Interactive reports whether the follow-up question loop runs.
func (r RunConfig) Interactive() bool { return r.interactive }

// WorkDir returns the working directory the interactive session reports.
func (r RunConfig) WorkDir() string { return r.workDir }

// TranscriptPath returns the NDJSON transcript path, or "" when disabled.
func (r RunConfig) TranscriptPath() string { return r.transcriptPath }

// String summarizes the run for diagnostics.
func (r RunConfig) String() string {
	return fmt.Sprintf("repo=%s output=%s analyses=%v interactive=%t", r.repo, r.outputDir, r.analyses, r.interactive)
}

// ParseAnalysisList splits a comma-separated --analysis value. Entries are
// trimmed, empty entries dropped, and duplicates collapsed keeping the
// first occurrence.
func ParseAnalysisList(value string) []string {
	var names []string
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(part)
		if name == "" || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}
