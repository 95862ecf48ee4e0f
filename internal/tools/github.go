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

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirseerhq/pr-insights/internal/github"
)

// Tool names exposed to the model.
const (
	RepositoryInfoName   = "get_repository_info"
	ListPullRequestsName = "list_pull_requests"
)

// MaxPullRequests bounds a single list_pull_requests call.
const MaxPullRequests = 500

const defaultPullRequestLimit = 100

var repoParams = map[string]any{
	"owner": map[string]any{"type": "string", "description": "Repository owner (user or organization)"},
	"repo":  map[string]any{"type": "string", "description": "Repository name"},
}

type repoArgs struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (a repoArgs) validate() error {
	if strings.TrimSpace(a.Owner) == "" || strings.TrimSpace(a.Repo) == "" {
		return fmt.Errorf("owner and repo are required")
	}
	return nil
}

// RepositoryInfo reports repository metadata and pull request totals.
type RepositoryInfo struct {
	Client github.Client
}

// Definition implements Tool.
func (t *RepositoryInfo) Definition() Definition {
	return Definition{
		Name:        RepositoryInfoName,
		Description: "Get repository metadata and pull request totals (open, merged, closed).",
		Parameters: map[string]any{
			"type":       "object",
			"properties": repoParams,
			"required":   []string{"owner", "repo"},
		},
	}
}

// Invoke implements Tool.
func (t *RepositoryInfo) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	var in repoArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if err := in.validate(); err != nil {
		return "", err
	}

	info, err := t.Client.GetRepositoryInfo(ctx, in.Owner, in.Repo)
	if err != nil {
		return "", err
	}

	return toJSON(struct {
		*github.RepositoryInfo
		Total int `json:"total_pull_requests"`
	}{info, info.TotalPullRequests()})
}

// ListPullRequests returns pull requests newest first, paging through the
// API until the limit is reached.
type ListPullRequests struct {
	Client   github.Client
	PageSize int
}

// Definition implements Tool.
func (t *ListPullRequests) Definition() Definition {
	props := map[string]any{
		"state": map[string]any{
			"type":        "string",
			"enum":        []string{"open", "merged", "closed", "all"},
			"description": "Pull request state filter. Defaults to all.",
		},
		"limit": map[string]any{
			"type":        "integer",
			"minimum":     1,
			"maximum":     MaxPullRequests,
			"description": fmt.Sprintf("Maximum number of pull requests to return. Defaults to %d.", defaultPullRequestLimit),
		},
	}
	for k, v := range repoParams {
		props[k] = v
	}
	return Definition{
		Name:        ListPullRequestsName,
		Description: "List pull requests with timing, size, labels and review data, newest first.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": props,
			"required":   []string{"owner", "repo"},
		},
	}
}

type listArgs struct {
	repoArgs
	State string `json:"state"`
	Limit int    `json:"limit"`
}

// pullRequestView is the per-PR record returned to the model.
type pullRequestView struct {
	Number        int        `json:"number"`
	Title         string     `json:"title"`
	State         string     `json:"state"`
	Author        string     `json:"author"`
	CreatedAt     time.Time  `json:"created_at"`
	MergedAt      *time.Time `json:"merged_at,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	FirstReviewAt *time.Time `json:"first_review_at,omitempty"`
	Additions     int        `json:"additions"`
	Deletions     int        `json:"deletions"`
	ChangedFiles  int        `json:"changed_files"`
	Labels        []string   `json:"labels,omitempty"`
	ReviewCount   int        `json:"review_count"`
}

// Invoke implements Tool.
func (t *ListPullRequests) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	var in listArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if err := in.validate(); err != nil {
		return "", err
	}

	states, err := parseState(in.State)
	if err != nil {
		return "", err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultPullRequestLimit
	}
	if limit > MaxPullRequests {
		limit = MaxPullRequests
	}

	prs := make([]pullRequestView, 0, limit)
	opts := github.FetchOptions{PageSize: t.PageSize, States: states}
	for len(prs) < limit {
		if remaining := limit - len(prs); opts.PageSize <= 0 || remaining < opts.PageSize {
			opts.PageSize = remaining
		}

		page, err := t.Client.FetchPullRequests(ctx, in.Owner, in.Repo, opts)
		if err != nil {
			return "", err
		}
		for _, pr := range page.PullRequests {
			if len(prs) == limit {
				break
			}
			prs = append(prs, viewOf(pr))
		}
		if !page.HasNextPage || page.EndCursor == "" {
			break
		}
		opts.After = page.EndCursor
	}

	return toJSON(prs)
}

func viewOf(pr github.PullRequest) pullRequestView {
	return pullRequestView{
		Number:        pr.Number,
		Title:         pr.Title,
		State:         strings.ToLower(pr.State),
		Author:        pr.Author.Login,
		CreatedAt:     pr.CreatedAt,
		MergedAt:      pr.MergedAt,
		ClosedAt:      pr.ClosedAt,
		FirstReviewAt: pr.FirstReviewAt,
		Additions:     pr.Additions,
		Deletions:     pr.Deletions,
		ChangedFiles:  pr.ChangedFiles,
		Labels:        pr.Labels,
		ReviewCount:   pr.ReviewCount,
	}
}

func parseState(s string) ([]github.PullRequestState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return nil, nil
	case "open":
		return []github.PullRequestState{github.StateOpen}, nil
	case "merged":
		return []github.PullRequestState{github.StateMerged}, nil
	case "closed":
		return []github.PullRequestState{github.StateClosed}, nil
	default:
		return nil, fmt.Errorf("invalid state %q: must be open, merged, closed or all", s)
	}
}
