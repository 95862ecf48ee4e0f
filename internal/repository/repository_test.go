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

package repository

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input     string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{input: "golang/go", wantOwner: "golang", wantName: "go"},
		{input: "github/copilot-sdk", wantOwner: "github", wantName: "copilot-sdk"},
		{input: "  facebook/react \n", wantOwner: "facebook", wantName: "react"},
		{input: "vercel/next.js", wantOwner: "vercel", wantName: "next.js"},
		{input: "invalid", wantErr: true},
		{input: "org/repo/extra", wantErr: true},
		{input: "/repo", wantErr: true},
		{input: "org/", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tt.input, got)
				}
				if !errors.Is(err, insightserrors.ErrInvalidRepository) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidRepository", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got.Owner != tt.wantOwner || got.Name != tt.wantName {
				t.Errorf("Parse(%q) = %s/%s, want %s/%s", tt.input, got.Owner, got.Name, tt.wantOwner, tt.wantName)
			}
		})
	}
}

func TestParseMatchesFirstSlashSplit(t *testing.T) {
	for _, input := range []string{"a/b", "kubernetes/kubernetes", "x-y_z/q.r"} {
		repo, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		idx := strings.Index(input, "/")
		if repo.Owner != input[:idx] || repo.Name != input[idx+1:] {
			t.Errorf("Parse(%q) = %+v", input, repo)
		}
		if repo.String() != input {
			t.Errorf("String() = %q, want %q", repo.String(), input)
		}
	}
}

func TestFromRemoteURL(t *testing.T) {
	tests := []struct {
		remote string
		want   string
		ok     bool
	}{
		{"https://github.com/github/copilot-sdk.git", "github/copilot-sdk", true},
		{"https://github.com/github/copilot-sdk", "github/copilot-sdk", true},
		{"git@github.com:facebook/react.git\n", "facebook/react", true},
		{"ssh://git@github.com/microsoft/vscode", "microsoft/vscode", true},
		{"https://github.com/vercel/next.js.git", "vercel/next.js", true},
		{"https://github.com/owner/name/", "owner/name", true},
		{"https://gitlab.com/owner/name.git", "", false},
		{"https://github.com/owner", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			got, ok := FromRemoteURL(tt.remote)
			if ok != tt.ok {
				t.Fatalf("FromRemoteURL(%q) ok = %v, want %v", tt.remote, ok, tt.ok)
			}
			if ok && got.String() != tt.want {
				t.Errorf("FromRemoteURL(%q) = %s, want %s", tt.remote, got, tt.want)
			}
		})
	}
}

func TestDetect_FirstHitWins(t *testing.T) {
	var calls []string
	miss := DetectorFunc(func(context.Context) (Repository, bool) {
		calls = append(calls, "miss")
		return Repository{}, false
	})
	hit := DetectorFunc(func(context.Context) (Repository, bool) {
		calls = append(calls, "hit")
		return Repository{Owner: "o", Name: "n"}, true
	})
	never := DetectorFunc(func(context.Context) (Repository, bool) {
		calls = append(calls, "never")
		return Repository{Owner: "x", Name: "y"}, true
	})

	repo, ok := Detect(context.Background(), miss, hit, never)
	if !ok || repo.String() != "o/n" {
		t.Fatalf("Detect() = %v, %v", repo, ok)
	}
	if strings.Join(calls, ",") != "miss,hit" {
		t.Errorf("calls = %v", calls)
	}
}

func TestDetect_NoneFound(t *testing.T) {
	if _, ok := Detect(context.Background()); ok {
		t.Error("Detect() with no detectors reported a repository")
	}
}

func TestGitRemoteDetector(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	t.Run("not a checkout", func(t *testing.T) {
		d := &GitRemoteDetector{Dir: t.TempDir()}
		if repo, ok := d.Detect(context.Background()); ok {
			t.Errorf("Detect() = %v in an empty directory", repo)
		}
	})

	t.Run("origin remote", func(t *testing.T) {
		dir := t.TempDir()
		runGit(t, dir, "init", "-q")
		runGit(t, dir, "remote", "add", "origin", "git@github.com:golang/go.git")

		d := &GitRemoteDetector{Dir: dir}
		repo, ok := d.Detect(context.Background())
		if !ok {
			t.Fatal("Detect() found nothing")
		}
		if repo.String() != "golang/go" {
			t.Errorf("Detect() = %s, want golang/go", repo)
		}
	})

	t.Run("non-GitHub remote", func(t *testing.T) {
		dir := t.TempDir()
		runGit(t, dir, "init", "-q")
		runGit(t, dir, "remote", "add", "origin", "https://gitlab.com/a/b.git")

		d := &GitRemoteDetector{Dir: dir}
		if repo, ok := d.Detect(context.Background()); ok {
			t.Errorf("Detect() = %v for a GitLab remote", repo)
		}
	})
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid answer", input: "github/copilot-sdk\n", want: "github/copilot-sdk"},
		{name: "answer without newline", input: "golang/go", want: "golang/go"},
		{name: "missing slash", input: "react\n", wantErr: true},
		{name: "empty input", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			repo, err := Prompt(bufio.NewReader(strings.NewReader(tt.input)), &out)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Prompt() = %v, want error", repo)
				}
				return
			}
			if err != nil {
				t.Fatalf("Prompt() error: %v", err)
			}
			if repo.String() != tt.want {
				t.Errorf("Prompt() = %s, want %s", repo, tt.want)
			}
			if out.String() != PromptText {
				t.Errorf("prompt output = %q", out.String())
			}
		})
	}
}

func TestPrompt_LeavesRemainingInput(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("a/b\nnext line\n"))
	if _, err := Prompt(in, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	rest, _ := in.ReadString('\n')
	if rest != "next line\n" {
		t.Errorf("remaining input = %q", rest)
	}
}
