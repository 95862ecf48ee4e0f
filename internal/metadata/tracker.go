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

// Package metadata tracks batch analysis runs and persists a JSON record of
// each run to a state directory, so repeated runs against the same
// repository can be compared.
//
// Metadata files are named run-{unix seconds}-{run id prefix}.json and are
// written atomically.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker collects per-task timing during a run. It is safe for concurrent
// use.
type Tracker struct {
	mu      sync.Mutex
	now     func() time.Time
	runID   string
	params  RunParams
	started time.Time
	tasks   []TaskResult
	open    map[string]int
}

// New creates a tracker and starts the run clock.
func New(params RunParams) *Tracker {
	return newTracker(params, time.Now)
}

func newTracker(params RunParams, now func() time.Time) *Tracker {
	return &Tracker{
		now:     now,
		runID:   uuid.NewString(),
		params:  params,
		started: now().UTC(),
		open:    make(map[string]int),
	}
}

// RunID returns the run identifier.
func (t *Tracker) RunID() string {
	return t.runID
}

// StartTask records that the named task began.
func (t *Tracker) StartTask(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.open[name] = len(t.tasks)
	t.tasks = append(t.tasks, TaskResult{Name: name, StartedAt: t.now().UTC()})
}

// FinishTask records the end of the named task. A task that was never
// started is ignored.
func (t *Tracker) FinishTask(name string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.open[name]
	if !ok {
		return
	}
	delete(t.open, name)

	task := &t.tasks[i]
	task.CompletedAt = t.now().UTC()
	task.Duration = task.CompletedAt.Sub(task.StartedAt).String()
	if err != nil {
		task.Error = err.Error()
	}
}

// Generate builds the run record. runErr marks the run as failed.
func (t *Tracker) Generate(runErr error) *RunMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completed := t.now().UTC()
	meta := &RunMetadata{
		RunID:       t.runID,
		Repository:  t.params.Repository,
		Model:       t.params.Model,
		OutputDir:   t.params.OutputDir,
		Tasks:       append([]TaskResult(nil), t.tasks...),
		Status:      StatusCompleted,
		StartedAt:   t.started,
		CompletedAt: completed,
		Duration:    completed.Sub(t.started).String(),
	}
	if runErr != nil {
		meta.Status = StatusFailed
		meta.Error = runErr.Error()
	}
	return meta
}

// Filename returns the file name SaveMetadata uses for meta.
func Filename(meta *RunMetadata) string {
	id := meta.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("run-%d-%s.json", meta.StartedAt.Unix(), id)
}

// SaveMetadata writes meta into stateDir using a temporary file and rename.
// It returns the path of the written file.
func SaveMetadata(meta *RunMetadata, stateDir string) (string, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}

	path := filepath.Join(stateDir, Filename(meta))
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(meta, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}

// LoadLatestMetadata returns the most recent run record for repo in
// stateDir, or nil if there is none. Unreadable files are skipped.
func LoadLatestMetadata(stateDir, repo string) (*RunMetadata, error) {
	files, err := filepath.Glob(filepath.Join(stateDir, "run-*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var latest *RunMetadata
	for _, file := range files {
		meta, err := readMetadata(file)
		if err != nil || meta.Repository != repo {
			continue
		}
		if latest == nil || meta.StartedAt.After(latest.StartedAt) {
			latest = meta
		}
	}
	return latest, nil
}

func readMetadata(path string) (*RunMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var meta RunMetadata
	if err := json.NewDecoder(file).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &meta, nil
}

// WriteMetadataToWriter serializes metadata as indented JSON.
func WriteMetadataToWriter(meta *RunMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(meta)
}
