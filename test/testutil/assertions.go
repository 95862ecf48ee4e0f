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

package testutil

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ReadTranscript parses an NDJSON session transcript and returns the event
// kinds in order. Every line must be an event with kind and session_id.
func ReadTranscript(t *testing.T, filePath string) []string {
	t.Helper()

	file, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("Failed to open transcript: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var kinds []string
	line := 0
	for scanner.Scan() {
		line++
		if scanner.Text() == "" {
			continue
		}

		var event map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Errorf("Line %d: invalid JSON: %v", line, err)
			continue
		}

		for _, field := range []string{"kind", "session_id"} {
			if _, ok := event[field]; !ok {
				t.Errorf("Line %d: missing required field '%s'", line, field)
			}
		}
		kind, _ := event["kind"].(string)
		kinds = append(kinds, kind)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading transcript: %v", err)
	}
	return kinds
}

// AssertMetadataFile validates the run record written to dir for repo
func AssertMetadataFile(t *testing.T, dir, repo, status string) map[string]interface{} {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "run-*.json"))
	if err != nil {
		t.Fatalf("Failed to glob metadata files: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("No metadata file found")
	}

	var metadata map[string]interface{}
	ReadJSON(t, matches[len(matches)-1], &metadata)

	requiredFields := []string{"run_id", "repository", "model", "output_dir", "tasks", "status", "started_at", "completed_at", "duration"}
	for _, field := range requiredFields {
		if _, ok := metadata[field]; !ok {
			t.Errorf("Missing required metadata field: %s", field)
		}
	}
	if metadata["repository"] != repo {
		t.Errorf("Metadata repository = %v, want %s", metadata["repository"], repo)
	}
	if metadata["status"] != status {
		t.Errorf("Metadata status = %v, want %s", metadata["status"], status)
	}
	return metadata
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertOrdered checks that the needles appear in haystack in order
func AssertOrdered(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	rest := haystack
	for _, needle := range needles {
		i := strings.Index(rest, needle)
		if i < 0 {
			t.Errorf("Expected %q in order, output:\n%s", needle, haystack)
			return
		}
		rest = rest[i+len(needle):]
	}
}

// AssertDirExists checks that a directory exists
func AssertDirExists(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Expected directory to exist: %s", path)
		}
		t.Fatalf("Failed to stat directory: %v", err)
	}

	if !info.IsDir() {
		t.Fatalf("Expected %s to be a directory", path)
	}
}
