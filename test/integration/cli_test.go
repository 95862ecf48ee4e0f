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

package integration

import (
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sirseerhq/pr-insights/test/testutil"
)

func unusedChat(t *testing.T) *testutil.ChatServer {
	return testutil.NewChatServer(t, func(req openai.ChatCompletionRequest) (int, interface{}) {
		t.Errorf("unexpected chat request")
		return http.StatusInternalServerError, testutil.ErrorReply("unexpected", "")
	})
}

func TestCLI_Help(t *testing.T) {
	tests := []struct {
		binary string
		flag   string
		want   []string
	}{
		{testutil.AdvancedAnalysis, "--help", []string{"--repo", "--output", "--analysis", "velocity-trends", "size-complexity"}},
		{testutil.AdvancedAnalysis, "-h", []string{"Usage:"}},
		{testutil.PRInsights, "--help", []string{"--repo", "--non-interactive"}},
		{testutil.PRInsights, "-h", []string{"Usage:"}},
	}

	for _, tt := range tests {
		t.Run(tt.binary+" "+tt.flag, func(t *testing.T) {
			result := testutil.RunCLI(t, tt.binary, testutil.CLIRun{Args: []string{tt.flag}})
			testutil.AssertCLISuccess(t, result)
			testutil.AssertExitCode(t, result, 0)
			for _, want := range tt.want {
				testutil.AssertContainsString(t, result.Stdout, want)
			}
		})
	}
}

func TestCLI_Version(t *testing.T) {
	result := testutil.RunCLI(t, testutil.AdvancedAnalysis, testutil.CLIRun{Args: []string{"--version"}})
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stdout, "dev")
}

func TestCLI_BatchValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing repo",
			args:    []string{"--output", "reports"},
			wantErr: "--repo is required",
		},
		{
			name:    "missing slash",
			args:    []string{"--repo", "invalid-repo-format"},
			wantErr: "invalid repository format",
		},
		{
			name:    "too many slashes",
			args:    []string{"--repo", "org/repo/extra"},
			wantErr: "invalid repository format",
		},
		{
			name:    "unknown analysis",
			args:    []string{"--repo", "acme/widgets", "--analysis", "velocity-trends,bogus"},
			wantErr: "unknown analysis",
		},
		{
			name:    "unexpected argument",
			args:    []string{"acme/widgets"},
			wantErr: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := unusedChat(t)
			result := testutil.RunCLI(t, testutil.AdvancedAnalysis, testutil.CLIRun{
				Args: tt.args,
				Env:  testutil.AssistantEnv(chat, nil),
			})

			testutil.AssertCLIError(t, result, tt.wantErr)
			testutil.AssertExitCode(t, result, 1)
			testutil.AssertContainsString(t, result.Stderr, "❌ Error:")
			if len(chat.Requests()) != 0 {
				t.Errorf("chat requests = %d, want 0", len(chat.Requests()))
			}
		})
	}
}

func TestCLI_MissingRepoHint(t *testing.T) {
	result := testutil.RunCLI(t, testutil.AdvancedAnalysis, testutil.CLIRun{})
	testutil.AssertExitCode(t, result, 1)
	testutil.AssertContainsString(t, result.Stdout, "Use --help for usage information")
	testutil.AssertNotContainsString(t, result.Stdout, "Advanced PR Analysis Tool")
}

func TestCLI_MissingAPIKey(t *testing.T) {
	chat := unusedChat(t)
	env := testutil.AssistantEnv(chat, nil)
	delete(env, "OPENAI_API_KEY")

	result := testutil.RunCLI(t, testutil.AdvancedAnalysis, testutil.CLIRun{
		Args: []string{"--repo", "acme/widgets", "--output", "reports"},
		Env:  env,
	})
	testutil.AssertExitCode(t, result, 1)
	testutil.AssertContainsString(t, result.Stderr, "failed to start assistant client")
	testutil.AssertNotContainsString(t, result.Stdout, "Connected to assistant")
}

func TestCLI_InvalidSettings(t *testing.T) {
	chat := unusedChat(t)
	dir := t.TempDir()
	settings := testutil.WriteSettings(t, dir, "logging:\n  level: loud\n")

	result := testutil.RunCLI(t, testutil.PRInsights, testutil.CLIRun{
		Args: []string{"--repo", "acme/widgets", "--config", settings},
		Env:  testutil.AssistantEnv(chat, nil),
	})
	testutil.AssertExitCode(t, result, 1)
	testutil.AssertContainsString(t, result.Stderr, "unknown log level")
}
