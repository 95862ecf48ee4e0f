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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

// GraphQLRequest is the body of a GraphQL POST
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// GitHubServer serves the repository info and pull request queries from a
// fixed set of pull requests. Cursors are decimal offsets.
type GitHubServer struct {
	*httptest.Server
	RequestCount int32

	prs []*PullRequestBuilder
}

// NewGitHubServer starts a GraphQL endpoint for prs, which should be
// ordered newest first
func NewGitHubServer(t *testing.T, prs ...*PullRequestBuilder) *GitHubServer {
	t.Helper()
	s := &GitHubServer{prs: prs}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.RequestCount, 1)
		AssertGraphQLRequest(t, r)

		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode GraphQL request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var response map[string]interface{}
		if strings.Contains(req.Query, "open: pullRequests") {
			response = s.repositoryInfo()
		} else {
			response = s.page(req.Variables)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(s.Close)
	return s
}

// Endpoint returns the GraphQL URL
func (s *GitHubServer) Endpoint() string {
	return s.URL + "/graphql"
}

// Requests returns how many requests were served
func (s *GitHubServer) Requests() int {
	return int(atomic.LoadInt32(&s.RequestCount))
}

func (s *GitHubServer) repositoryInfo() map[string]interface{} {
	counts := map[string]int{}
	for _, pr := range s.prs {
		counts[pr.State()]++
	}
	return map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"nameWithOwner": "test/repo",
				"description":   "Test repository",
				"open":          map[string]interface{}{"totalCount": counts["OPEN"]},
				"merged":        map[string]interface{}{"totalCount": counts["MERGED"]},
				"closed":        map[string]interface{}{"totalCount": counts["CLOSED"]},
			},
		},
	}
}

func (s *GitHubServer) page(vars map[string]interface{}) map[string]interface{} {
	var states []string
	if raw, ok := vars["states"].([]interface{}); ok {
		for _, v := range raw {
			if state, ok := v.(string); ok {
				states = append(states, state)
			}
		}
	}

	var matching []*PullRequestBuilder
	for _, pr := range s.prs {
		if len(states) == 0 || slices.Contains(states, pr.State()) {
			matching = append(matching, pr)
		}
	}

	offset := 0
	if after, ok := vars["after"].(string); ok && after != "" {
		offset, _ = strconv.Atoi(after)
	}
	first := 50
	if f, ok := vars["first"].(float64); ok && f > 0 {
		first = int(f)
	}

	if offset > len(matching) {
		offset = len(matching)
	}
	end := offset + first
	if end > len(matching) {
		end = len(matching)
	}

	builder := NewGraphQLResponseBuilder()
	for _, pr := range matching[offset:end] {
		builder.WithPullRequests(pr.Build())
	}
	if end < len(matching) {
		builder.WithPagination(true, strconv.Itoa(end))
	}
	return builder.Build()
}

// AssertGraphQLRequest validates a GraphQL request structure
func AssertGraphQLRequest(t *testing.T, r *http.Request) {
	t.Helper()
	if r.URL.Path != "/graphql" {
		t.Errorf("Unexpected path: %s", r.URL.Path)
	}
	if r.Method != "POST" {
		t.Errorf("Expected POST method, got: %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type: application/json, got: %s", ct)
	}
}
