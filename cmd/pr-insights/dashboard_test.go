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
	"bytes"
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sirseerhq/pr-insights/internal/app"
	"github.com/sirseerhq/pr-insights/internal/assistant"
	"github.com/sirseerhq/pr-insights/internal/assistant/assistanttest"
	"github.com/sirseerhq/pr-insights/internal/config"
	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
	"github.com/sirseerhq/pr-insights/internal/prompts"
	"github.com/sirseerhq/pr-insights/internal/repository"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GH_CONFIG_DIR", t.TempDir())
	for _, key := range []string{
		"PR_INSIGHTS_BASE_URL", "OPENAI_BASE_URL", "PR_INSIGHTS_MODEL",
		"PR_INSIGHTS_STATE_DIR", "PR_INSIGHTS_LOG_LEVEL", "PR_INSIGHTS_TASK_DELAY",
	} {
		t.Setenv(key, "")
	}
}

func noDetectors(*zap.Logger) []repository.Detector { return nil }

func fixedDetector(repo string) detectorsFunc {
	return func(*zap.Logger) []repository.Detector {
		return []repository.Detector{
			repository.DetectorFunc(func(context.Context) (repository.Repository, bool) { return repository.Repository{}, false }),
			repository.DetectorFunc(func(context.Context) (repository.Repository, bool) {
				r, err := repository.Parse(repo)
				return r, err == nil
			}),
		}
	}
}

type harness struct {
	stub     *assistanttest.Client
	out      bytes.Buffer
	roots    []string
	creating int
}

func (h *harness) factory(cfg *config.Config, root string, logger *zap.Logger) assistant.Client {
	h.creating++
	h.roots = append(h.roots, root)
	return h.stub
}

func (h *harness) execute(stdin string, detectors detectorsFunc, args ...string) error {
	var errOut bytes.Buffer
	cmd := newRootCommandWithDetectors(app.IO{In: strings.NewReader(stdin), Out: &h.out, Err: &errOut}, h.factory, detectors)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRootCommand_FollowUpLoop(t *testing.T) {
	isolate(t)
	h := &harness{stub: assistanttest.NewClient(nil)}

	err := h.execute("Which PRs are oldest?\n\nEXIT\nnever sent\n", noDetectors, "--repo", "acme/widgets")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	session := h.stub.Sessions()[0]
	want := []assistanttest.Call{
		{Prompt: prompts.InitialPrompt},
		{Prompt: "Which PRs are oldest?"},
	}
	if got := session.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %+v, want %+v", got, want)
	}
	if !h.stub.Stopped() || session.Destroyed() == 0 {
		t.Error("session and client must be torn down")
	}

	wd, _ := os.Getwd()
	if !reflect.DeepEqual(h.roots, []string{wd}) {
		t.Errorf("tool roots = %v, want [%s]", h.roots, wd)
	}
	if msg := h.stub.Options()[0].SystemMessage; !strings.Contains(msg, "acme/widgets") {
		t.Errorf("system message missing repository: %q", msg)
	}

	out := h.out.String()
	for _, want := range []string{
		"🚀 PR Insights Dashboard",
		"📊 Analyzing: acme/widgets",
		"💡 Ask follow-up questions",
		"👋 Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q\n%s", want, out)
		}
	}
}

func TestRootCommand_NonInteractive(t *testing.T) {
	isolate(t)
	h := &harness{stub: assistanttest.NewClient(nil)}

	if err := h.execute("ignored\n", noDetectors, "--repo", "acme/widgets", "--non-interactive"); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []assistanttest.Call{{Prompt: prompts.InitialPrompt, Wait: true}}
	if got := h.stub.Sessions()[0].Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %+v, want %+v", got, want)
	}
	out := h.out.String()
	if !strings.Contains(out, "reply: "+prompts.InitialPrompt) {
		t.Errorf("reply not printed before completion:\n%s", out)
	}
	if !strings.Contains(out, "✅ Analysis complete!") {
		t.Errorf("stdout missing completion:\n%s", out)
	}
}

func TestRootCommand_RepositoryResolution(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		detectors detectorsFunc
		want      string
		printed   string
	}{
		{"detected", "exit\n", fixedDetector("acme/detected"), "acme/detected", "📦 Auto-detected: acme/detected"},
		{"prompted", "acme/prompted\nexit\n", noDetectors, "acme/prompted", repository.PromptText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			h := &harness{stub: assistanttest.NewClient(nil)}

			if err := h.execute(tt.stdin, tt.detectors); err != nil {
				t.Fatalf("run: %v", err)
			}
			out := h.out.String()
			if !strings.Contains(out, tt.printed) {
				t.Errorf("stdout missing %q\n%s", tt.printed, out)
			}
			if !strings.Contains(out, "📊 Analyzing: "+tt.want) {
				t.Errorf("analyzed wrong repository:\n%s", out)
			}
		})
	}
}

func TestRootCommand_InvalidPromptedRepository(t *testing.T) {
	isolate(t)
	h := &harness{stub: assistanttest.NewClient(nil)}

	err := h.execute("widgets\n", noDetectors)
	if !errors.Is(err, insightserrors.ErrInvalidRepository) {
		t.Fatalf("error = %v, want ErrInvalidRepository", err)
	}
	if mapErrorToExitCode(err) != 1 {
		t.Error("invalid repository must exit 1")
	}
	if strings.Contains(h.out.String(), "Invalid format") {
		t.Errorf("rejection must only be reported once, on stderr; stdout = %q", h.out.String())
	}
	if got := errorLine(err); got != "❌ Invalid format. Expected: owner/repo" {
		t.Errorf("errorLine = %q", got)
	}
	if h.creating != 0 {
		t.Error("no client should be created for an invalid repository")
	}
}

func TestRootCommand_CreateSessionFailure(t *testing.T) {
	isolate(t)
	stub := assistanttest.NewClient(nil)
	stub.CreateErr = insightserrors.ErrNetworkFailure
	h := &harness{stub: stub}

	err := h.execute("", noDetectors, "--repo", "acme/widgets")
	if !errors.Is(err, insightserrors.ErrNetworkFailure) {
		t.Fatalf("error = %v, want ErrNetworkFailure", err)
	}
	if !stub.Stopped() {
		t.Error("client must be stopped when session creation fails")
	}
}

func TestRootCommand_Help(t *testing.T) {
	isolate(t)
	h := &harness{stub: assistanttest.NewClient(nil)}

	if err := h.execute("", noDetectors, "-h"); err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(h.out.String(), "--non-interactive") {
		t.Errorf("help output missing --non-interactive:\n%s", h.out.String())
	}
	if h.creating != 0 {
		t.Error("help should not create a client")
	}
}

func TestErrorLine(t *testing.T) {
	if got := errorLine(errors.New("failed to start assistant client: boom")); got != "❌ Error: failed to start assistant client: boom" {
		t.Errorf("errorLine = %q", got)
	}
}
