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
	"context"
	"os/exec"
	"regexp"
	"strings"

	gh "github.com/cli/go-gh"
	"go.uber.org/zap"
)

// remotePattern matches https and ssh GitHub remotes, with or without .git.
var remotePattern = regexp.MustCompile(`github\.com[:/]([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`)

// Detector finds the repository for the current working directory.
// A detector that cannot find one returns ok == false; it never fails hard.
type Detector interface {
	Detect(ctx context.Context) (Repository, bool)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context) (Repository, bool)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context) (Repository, bool) {
	return f(ctx)
}

// FromRemoteURL extracts owner/name from a GitHub remote URL.
func FromRemoteURL(remote string) (Repository, bool) {
	match := remotePattern.FindStringSubmatch(strings.TrimSpace(remote))
	if match == nil {
		return Repository{}, false
	}
	repo, err := Parse(match[1] + "/" + match[2])
	if err != nil {
		return Repository{}, false
	}
	return repo, true
}

// GitRemoteDetector reads the URL of a git remote in Dir.
type GitRemoteDetector struct {
	// Dir is the checkout to inspect. Empty means the process working directory.
	Dir string
	// Remote defaults to "origin".
	Remote string
	// Logger receives the reason a detection attempt failed. May be nil.
	Logger *zap.Logger
}

// Detect runs `git remote get-url <remote>` and parses its output.
func (d *GitRemoteDetector) Detect(ctx context.Context) (Repository, bool) {
	remote := d.Remote
	if remote == "" {
		remote = "origin"
	}

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", remote)
	cmd.Dir = d.Dir
	out, err := cmd.Output()
	if err != nil {
		d.logger().Debug("git remote lookup failed", zap.String("remote", remote), zap.Error(err))
		return Repository{}, false
	}

	repo, ok := FromRemoteURL(string(out))
	if !ok {
		d.logger().Debug("remote is not a GitHub URL", zap.String("url", strings.TrimSpace(string(out))))
	}
	return repo, ok
}

func (d *GitRemoteDetector) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// GHDetector asks the gh CLI libraries for the current repository. This
// honours GH_REPO and every configured remote, not only origin.
type GHDetector struct {
	Logger *zap.Logger
}

// Detect resolves the current repository through go-gh.
func (d *GHDetector) Detect(_ context.Context) (Repository, bool) {
	current, err := gh.CurrentRepository()
	if err != nil {
		if d.Logger != nil {
			d.Logger.Debug("gh repository lookup failed", zap.Error(err))
		}
		return Repository{}, false
	}
	if current.Host() != "github.com" {
		return Repository{}, false
	}
	repo, err := Parse(current.Owner() + "/" + current.Name())
	if err != nil {
		return Repository{}, false
	}
	return repo, true
}

// Detect tries each detector in order and returns the first hit.
func Detect(ctx context.Context, detectors ...Detector) (Repository, bool) {
	for _, detector := range detectors {
		if repo, ok := detector.Detect(ctx); ok {
			return repo, true
		}
	}
	return Repository{}, false
}
