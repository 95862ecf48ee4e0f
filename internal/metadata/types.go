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

// Package metadata types define the record written after a batch analysis
// run: what was analysed, with which model, and how long each task took.
package metadata

import (
	"time"
)

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunMetadata is the complete record for one batch run.
type RunMetadata struct {
	RunID       string       `json:"run_id"`
	Repository  string       `json:"repository"`
	Model       string       `json:"model"`
	OutputDir   string       `json:"output_dir"`
	Tasks       []TaskResult `json:"tasks"`
	Status      string       `json:"status"`
	Error       string       `json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
	Duration    string       `json:"duration"`
}

// TaskResult records a single prompt of the run, including the summary.
type TaskResult struct {
	Name        string    `json:"name"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	Error       string    `json:"error,omitempty"`
}

// RunParams identifies what a run is about.
type RunParams struct {
	Repository string
	Model      string
	OutputDir  string
}
