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
	"io"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
	"github.com/sirseerhq/pr-insights/internal/apierror"
	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
)

// UserAgent identifies this tool to the GitHub API.
var UserAgent = "pr-insights"

// maxResponseBytes caps the size of a single GraphQL response body.
const maxResponseBytes = 10 * 1024 * 1024

// GraphQLClient implements the GitHub Client interface using GraphQL API.
type GraphQLClient struct {
	client    *graphql.Client
	inspector apierror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided token and endpoint.
// The client is configured with:
//   - Authentication via the provided token
//   - Custom GraphQL endpoint URL (e.g., for GitHub Enterprise)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
func NewGraphQLClient(token string, endpoint string) *GraphQLClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return newGraphQLClient(token, endpoint, transport)
}

func newGraphQLClient(token, endpoint string, base http.RoundTripper) *GraphQLClient {
	httpClient := &http.Client{
		Transport: &authTransport{
			token: token,
			base:  base,
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: apierror.NewInspector(),
	}
}

// GetRepositoryInfo retrieves the repository description and pull request
// totals for each state in one query.
func (c *GraphQLClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	var query struct {
		Repository struct {
			NameWithOwner graphql.String
			Description   graphql.String
			Open          struct {
				TotalCount graphql.Int
			} `graphql:"open: pullRequests(states: OPEN)"`
			Merged struct {
				TotalCount graphql.Int
			} `graphql:"merged: pullRequests(states: MERGED)"`
			Closed struct {
				TotalCount graphql.Int
			} `graphql:"closed: pullRequests(states: CLOSED)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	r := query.Repository
	return &RepositoryInfo{
		NameWithOwner:      string(r.NameWithOwner),
		Description:        string(r.Description),
		OpenPullRequests:   int(r.Open.TotalCount),
		MergedPullRequests: int(r.Merged.TotalCount),
		ClosedPullRequests: int(r.Closed.TotalCount),
	}, nil
}

// prNode is the per-pull-request selection set.
type prNode struct {
	Number       graphql.Int
	Title        graphql.String
	State        graphql.String
	URL          graphql.String
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClosedAt     *time.Time
	MergedAt     *time.Time
	Additions    graphql.Int
	Deletions    graphql.Int
	ChangedFiles graphql.Int
	Author       *struct {
		Login graphql.String
	}
	Labels struct {
		Nodes []struct {
			Name graphql.String
		}
	} `graphql:"labels(first: 20)"`
	Reviews struct {
		TotalCount graphql.Int
		Nodes      []struct {
			SubmittedAt *time.Time
		}
	} `graphql:"reviews(first: 1)"`
}

// FetchPullRequests fetches a page of pull requests from the specified repository,
// newest first. Pass the returned EndCursor as opts.After to fetch the next page.
func (c *GraphQLClient) FetchPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) (*PullRequestPage, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	states := opts.States
	if len(states) == 0 {
		states = []PullRequestState{StateOpen, StateMerged, StateClosed}
	}

	var query struct {
		Repository struct {
			PullRequests struct {
				PageInfo struct {
					HasNextPage graphql.Boolean
					EndCursor   graphql.String
				}
				Nodes []prNode
			} `graphql:"pullRequests(first: $first, after: $after, states: $states, orderBy: {field: CREATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	var after *graphql.String
	if opts.After != "" {
		after = graphql.NewString(graphql.String(opts.After))
	}

	variables := map[string]interface{}{
		"owner":  graphql.String(owner),
		"repo":   graphql.String(repo),
		"first":  graphql.Int(int32(pageSize)), // #nosec G115 - pageSize is capped at 100
		"after":  after,
		"states": states,
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	page := &PullRequestPage{
		HasNextPage:  bool(query.Repository.PullRequests.PageInfo.HasNextPage),
		EndCursor:    string(query.Repository.PullRequests.PageInfo.EndCursor),
		PullRequests: make([]PullRequest, 0, len(query.Repository.PullRequests.Nodes)),
	}
	for i := range query.Repository.PullRequests.Nodes {
		page.PullRequests = append(page.PullRequests, convertNode(&query.Repository.PullRequests.Nodes[i]))
	}

	return page, nil
}

func convertNode(n *prNode) PullRequest {
	pr := PullRequest{
		Number:       int(n.Number),
		Title:        string(n.Title),
		State:        string(n.State),
		URL:          string(n.URL),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
		ClosedAt:     n.ClosedAt,
		MergedAt:     n.MergedAt,
		Additions:    int(n.Additions),
		Deletions:    int(n.Deletions),
		ChangedFiles: int(n.ChangedFiles),
		ReviewCount:  int(n.Reviews.TotalCount),
	}

	// Deleted accounts come back as a null author.
	if n.Author != nil {
		pr.Author.Login = string(n.Author.Login)
	} else {
		pr.Author.Login = "ghost"
	}

	for _, label := range n.Labels.Nodes {
		pr.Labels = append(pr.Labels, string(label.Name))
	}

	if len(n.Reviews.Nodes) > 0 {
		pr.FirstReviewAt = n.Reviews.Nodes[0].SubmittedAt
	}

	return pr
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (c *GraphQLClient) mapError(err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", insightserrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via GITHUB_TOKEN or `gh auth login`: %w", insightserrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository '%s/%s' not found. Please check the repository name and your access permissions: %w", owner, repo, insightserrors.ErrRepoNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", insightserrors.ErrNetworkFailure)
	}

	return fmt.Errorf("GitHub query failed: %w", err)
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication header and safety limits to HTTP requests
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}
