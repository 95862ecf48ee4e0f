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

package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
type MockClient struct {
	mu sync.Mutex

	// PullRequests to return, newest first
	PullRequests []PullRequest

	// Description returned by GetRepositoryInfo
	Description string

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount int
	LastOwner string
	LastRepo  string
	LastOpts  FetchOptions
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		PullRequests: generateTestPRs(),
		Description:  "Test repository",
	}
}

func (m *MockClient) fail(owner, repo string) error {
	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", insightserrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", insightserrors.ErrNetworkFailure)
	}
	if m.ShouldFailNotFound || owner == "nonexistent" {
		return fmt.Errorf("repository '%s/%s' not found: %w", owner, repo, insightserrors.ErrRepoNotFound)
	}
	return m.Error
}

// FetchPullRequests implements the Client interface. The cursor is the
// decimal offset of the next pull request.
func (m *MockClient) FetchPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) (*PullRequestPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastOpts = opts

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.fail(owner, repo); err != nil {
		return nil, err
	}

	filtered := filterByState(m.PullRequests, opts.States)

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	start := 0
	if opts.After != "" {
		n, err := strconv.Atoi(opts.After)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid cursor %q", opts.After)
		}
		start = n
	}
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	page := &PullRequestPage{
		PullRequests: append([]PullRequest(nil), filtered[start:end]...),
		HasNextPage:  end < len(filtered),
	}
	if page.HasNextPage {
		page.EndCursor = strconv.Itoa(end)
	}
	return page, nil
}

// GetRepositoryInfo implements the Client interface, counting the configured
// pull requests per state.
func (m *MockClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.fail(owner, repo); err != nil {
		return nil, err
	}

	info := &RepositoryInfo{
		NameWithOwner: owner + "/" + repo,
		Description:   m.Description,
	}
	for _, pr := range m.PullRequests {
		switch PullRequestState(strings.ToUpper(pr.State)) {
		case StateOpen:
			info.OpenPullRequests++
		case StateMerged:
			info.MergedPullRequests++
		case StateClosed:
			info.ClosedPullRequests++
		}
	}
	return info, nil
}

func filterByState(prs []PullRequest, states []PullRequestState) []PullRequest {
	if len(states) == 0 {
		return prs
	}
	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		for _, s := range states {
			if strings.EqualFold(pr.State, string(s)) {
				out = append(out, pr)
				break
			}
		}
	}
	return out
}

// generateTestPRs creates sample pull request data for testing
func generateTestPRs() []PullRequest {
	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)
	reviewed := lastWeek.Add(3 * time.Hour)

	return []PullRequest{
		{
			Number:    1234,
			Title:     "Add new feature for data processing",
			State:     string(StateOpen),
			CreatedAt: yesterday,
			UpdatedAt: now,
			Author:    Author{Login: "alice"},
			Additions: 120,
			Deletions: 8,
			Labels:    []string{"enhancement"},
		},
		{
			Number:        1233,
			Title:         "Fix memory leak in parser",
			State:         string(StateMerged),
			CreatedAt:     lastWeek,
			UpdatedAt:     yesterday,
			ClosedAt:      &yesterday,
			MergedAt:      &yesterday,
			Author:        Author{Login: "bob"},
			Additions:     14,
			Deletions:     30,
			ChangedFiles:  2,
			Labels:        []string{"bug"},
			ReviewCount:   2,
			FirstReviewAt: &reviewed,
		},
		{
			Number:    1232,
			Title:     "Update documentation",
			State:     string(StateClosed),
			CreatedAt: lastWeek,
			UpdatedAt: yesterday,
			ClosedAt:  &yesterday,
			Author:    Author{Login: "charlie"},
			Additions: 3,
			Deletions: 1,
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPullRequests sets specific pull requests to return
func WithPullRequests(prs []PullRequest) MockClientOption {
	return func(m *MockClient) {
		m.PullRequests = prs
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
