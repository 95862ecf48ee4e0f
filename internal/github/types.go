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

// Package github provides types and interfaces for the GitHub data the
// assistant's pull-request tools expose.
package github

import "time"

// PullRequestState filters pull requests by state. The type name matches
// the GitHub GraphQL enum so it can be passed as a query variable.
type PullRequestState string

// Pull request states accepted by the GitHub API.
const (
	StateOpen   PullRequestState = "OPEN"
	StateMerged PullRequestState = "MERGED"
	StateClosed PullRequestState = "CLOSED"
)

// PullRequest is the pull request record handed to the assistant. It holds
// the fields the batch analyses need: timing, size, labels and reviews.
type PullRequest struct {
	Number        int        `json:"number"`
	Title         string     `json:"title"`
	State         string     `json:"state"`
	URL           string     `json:"url,omitempty"`
	Author        Author     `json:"author"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	MergedAt      *time.Time `json:"merged_at,omitempty"`
	Additions     int        `json:"additions"`
	Deletions     int        `json:"deletions"`
	ChangedFiles  int        `json:"changed_files"`
	Labels        []string   `json:"labels,omitempty"`
	ReviewCount   int        `json:"review_count"`
	FirstReviewAt *time.Time `json:"first_review_at,omitempty"`
}

// Author represents the author of a pull request.
type Author struct {
	Login string `json:"login"`
}

// PullRequestPage represents a page of pull requests from a GraphQL query
// plus the cursor needed to fetch the next page.
type PullRequestPage struct {
	PullRequests []PullRequest
	HasNextPage  bool
	EndCursor    string
}

// FetchOptions configures how pull requests are fetched.
type FetchOptions struct {
	// PageSize controls how many PRs to fetch per page.
	// Defaults to 50 if not specified. Maximum is 100 per GitHub's API limits.
	PageSize int

	// After is the cursor for pagination.
	// Empty string fetches from the beginning.
	After string

	// States restricts the result. Empty means every state.
	States []PullRequestState
}

// Default values for fetch operations
const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// RepositoryInfo contains basic repository metadata and pull request totals.
type RepositoryInfo struct {
	NameWithOwner      string `json:"name_with_owner"`
	Description        string `json:"description,omitempty"`
	OpenPullRequests   int    `json:"open_pull_requests"`
	MergedPullRequests int    `json:"merged_pull_requests"`
	ClosedPullRequests int    `json:"closed_pull_requests"`
}

// TotalPullRequests returns the sum over all states.
func (r RepositoryInfo) TotalPullRequests() int {
	return r.OpenPullRequests + r.MergedPullRequests + r.ClosedPullRequests
}
