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
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// Command names under cmd/.
const (
	AdvancedAnalysis = "advanced-analysis"
	PRInsights       = "pr-insights"
)

type build struct {
	once sync.Once
	path string
	err  error
	log  []byte
}

var (
	buildsMu sync.Mutex
	builds   = map[string]*build{}
)

// BuildBinary builds cmd/<name> once per test run
func BuildBinary(t *testing.T, name string) string {
	t.Helper()

	buildsMu.Lock()
	b, ok := builds[name]
	if !ok {
		b = &build{}
		builds[name] = b
	}
	buildsMu.Unlock()

	b.once.Do(func() {
		// Create a persistent temp directory, not tied to test cleanup
		tmpDir, err := os.MkdirTemp("", "pr-insights-test")
		if err != nil {
			b.err = err
			return
		}
		b.path = filepath.Join(tmpDir, name)

		projectRoot, err := findProjectRoot()
		if err != nil {
			b.err = err
			return
		}

		cmd := exec.Command("go", "build", "-o", b.path, "./cmd/"+name)
		cmd.Dir = projectRoot
		b.log, b.err = cmd.CombinedOutput()
	})

	if b.err != nil {
		t.Fatalf("Failed to build %s: %v\nBuild output: %s", name, b.err, b.log)
	}

	return b.path
}

// CLIResult contains the result of running a CLI command
type CLIResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// CLIRun describes one invocation of a built binary
type CLIRun struct {
	Args  []string
	Env   map[string]string
	Stdin string
	// Dir is the working directory. Empty means a fresh temp directory so
	// no settings or .env file from the repository is picked up.
	Dir string
}

// RunCLI executes the named binary. The environment is reduced to PATH
// plus run.Env so host credentials never leak into a test.
func RunCLI(t *testing.T, name string, run CLIRun) CLIResult {
	t.Helper()

	binary := BuildBinary(t, name)

	cmd := exec.Command(binary, run.Args...)
	cmd.Dir = run.Dir
	if cmd.Dir == "" {
		cmd.Dir = t.TempDir()
	}

	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + t.TempDir(),
		"GH_CONFIG_DIR=" + t.TempDir(),
	}
	for k, v := range run.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	cmd.Stdin = strings.NewReader(run.Stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		exitCode = -1
	}

	return CLIResult{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}
}

// AssistantEnv returns the environment that points a binary at a mock
// assistant and, when github is set, a mock GitHub API.
func AssistantEnv(chat *ChatServer, github *GitHubServer) map[string]string {
	env := map[string]string{
		"OPENAI_API_KEY":         "test-key",
		"PR_INSIGHTS_BASE_URL":   chat.BaseURL(),
		"PR_INSIGHTS_TASK_DELAY": "0s",
	}
	if github != nil {
		env["GITHUB_TOKEN"] = "test-token"
		env["GITHUB_GRAPHQL_ENDPOINT"] = github.Endpoint()
	}
	return env
}

// AssertCLISuccess checks that the CLI command succeeded
func AssertCLISuccess(t *testing.T, result CLIResult) {
	t.Helper()

	if result.Err != nil {
		t.Fatalf("Command failed: %v\nStdout: %s\nStderr: %s", result.Err, result.Stdout, result.Stderr)
	}
}

// AssertCLIError checks that the CLI command failed with expected error
func AssertCLIError(t *testing.T, result CLIResult, expectedError string) {
	t.Helper()

	if result.Err == nil {
		t.Fatal("Expected command to fail, but it succeeded")
	}

	if expectedError != "" && !strings.Contains(result.Stderr, expectedError) {
		t.Errorf("Expected error containing %q, got: %s", expectedError, result.Stderr)
	}
}

// AssertExitCode checks the command exit code
func AssertExitCode(t *testing.T, result CLIResult, expected int) {
	t.Helper()

	if result.ExitCode != expected {
		t.Errorf("Expected exit code %d, got %d\nStderr: %s", expected, result.ExitCode, result.Stderr)
	}
}

// findProjectRoot finds the project root by looking for go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
