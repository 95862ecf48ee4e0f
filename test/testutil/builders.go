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
	"fmt"
	"time"
)

// PullRequestBuilder provides a fluent API for creating test PRs in the
// shape the GraphQL pull request query selects
type PullRequestBuilder struct {
	number        int
	title         string
	state         string
	author        string
	createdAt     time.Time
	updatedAt     time.Time
	mergedAt      *time.Time
	closedAt      *time.Time
	additions     int
	deletions     int
	changedFiles  int
	labels        []string
	reviewCount   int
	firstReviewAt *time.Time
}

// NewPullRequestBuilder creates a new PR builder with defaults
func NewPullRequestBuilder(number int) *PullRequestBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return &PullRequestBuilder{
		number:       number,
		title:        fmt.Sprintf("PR %d", number),
		state:        "OPEN",
		author:       fmt.Sprintf("user%d", number),
		createdAt:    now.AddDate(0, 0, -number),
		updatedAt:    now.AddDate(0, 0, -number).Add(time.Hour),
		additions:    10,
		deletions:    5,
		changedFiles: 2,
	}
}

// WithTitle sets the PR title
func (b *PullRequestBuilder) WithTitle(title string) *PullRequestBuilder {
	b.title = title
	return b
}

// WithAuthor sets the PR author. An empty login builds a deleted account.
func (b *PullRequestBuilder) WithAuthor(author string) *PullRequestBuilder {
	b.author = author
	return b
}

// WithCreatedAt sets when the PR was created
func (b *PullRequestBuilder) WithCreatedAt(t time.Time) *PullRequestBuilder {
	b.createdAt = t
	return b
}

// WithMergedAt marks the PR as merged at the given time
func (b *PullRequestBuilder) WithMergedAt(t time.Time) *PullRequestBuilder {
	b.mergedAt = &t
	b.state = "MERGED"
	if b.closedAt == nil {
		b.closedAt = &t
	}
	return b
}

// WithClosedAt marks the PR as closed at the given time
func (b *PullRequestBuilder) WithClosedAt(t time.Time) *PullRequestBuilder {
	b.closedAt = &t
	if b.state == "OPEN" {
		b.state = "CLOSED"
	}
	return b
}

// WithChanges sets the additions/deletions/files
func (b *PullRequestBuilder) WithChanges(additions, deletions, files int) *PullRequestBuilder {
	b.additions = additions
	b.deletions = deletions
	b.changedFiles = files
	return b
}

// WithLabels adds labels to the PR
func (b *PullRequestBuilder) WithLabels(labels ...string) *PullRequestBuilder {
	b.labels = labels
	return b
}

// WithReviews sets the review count and when the first review arrived
func (b *PullRequestBuilder) WithReviews(count int, first time.Time) *PullRequestBuilder {
	b.reviewCount = count
	b.firstReviewAt = &first
	return b
}

// State returns the PR state the builder will emit
func (b *PullRequestBuilder) State() string {
	return b.state
}

// Build creates the PR data structure
func (b *PullRequestBuilder) Build() map[string]interface{} {
	labels := make([]map[string]interface{}, len(b.labels))
	for i, label := range b.labels {
		labels[i] = map[string]interface{}{"name": label}
	}

	reviews := []map[string]interface{}{}
	if b.firstReviewAt != nil {
		reviews = append(reviews, map[string]interface{}{"submittedAt": b.firstReviewAt.Format(time.RFC3339)})
	}

	var author interface{}
	if b.author != "" {
		author = map[string]interface{}{"login": b.author}
	}

	pr := map[string]interface{}{
		"number":       b.number,
		"title":        b.title,
		"state":        b.state,
		"url":          fmt.Sprintf("https://github.com/test/repo/pull/%d", b.number),
		"createdAt":    b.createdAt.Format(time.RFC3339),
		"updatedAt":    b.updatedAt.Format(time.RFC3339),
		"author":       author,
		"additions":    b.additions,
		"deletions":    b.deletions,
		"changedFiles": b.changedFiles,
		"labels":       map[string]interface{}{"nodes": labels},
		"reviews": map[string]interface{}{
			"totalCount": b.reviewCount,
			"nodes":      reviews,
		},
		"mergedAt": nil,
		"closedAt": nil,
	}

	if b.mergedAt != nil {
		pr["mergedAt"] = b.mergedAt.Format(time.RFC3339)
	}
	if b.closedAt != nil {
		pr["closedAt"] = b.closedAt.Format(time.RFC3339)
	}

	return pr
}

// GraphQLResponseBuilder builds GraphQL pull request page responses
type GraphQLResponseBuilder struct {
	prs         []map[string]interface{}
	hasNextPage bool
	endCursor   string
	errors      []map[string]interface{}
}

// NewGraphQLResponseBuilder creates a new response builder
func NewGraphQLResponseBuilder() *GraphQLResponseBuilder {
	return &GraphQLResponseBuilder{
		prs: []map[string]interface{}{},
	}
}

// WithPullRequests adds PRs to the response
func (b *GraphQLResponseBuilder) WithPullRequests(prs ...map[string]interface{}) *GraphQLResponseBuilder {
	b.prs = append(b.prs, prs...)
	return b
}

// WithPagination sets pagination info
func (b *GraphQLResponseBuilder) WithPagination(hasNext bool, cursor string) *GraphQLResponseBuilder {
	b.hasNextPage = hasNext
	b.endCursor = cursor
	return b
}

// WithError adds an error to the response
func (b *GraphQLResponseBuilder) WithError(message string) *GraphQLResponseBuilder {
	b.errors = append(b.errors, map[string]interface{}{
		"message": message,
	})
	return b
}

// Build creates the GraphQL response
func (b *GraphQLResponseBuilder) Build() map[string]interface{} {
	if len(b.errors) > 0 {
		return map[string]interface{}{
			"errors": b.errors,
		}
	}

	return map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"pullRequests": map[string]interface{}{
					"nodes": b.prs,
					"pageInfo": map[string]interface{}{
						"hasNextPage": b.hasNextPage,
						"endCursor":   b.endCursor,
					},
				},
			},
		},
	}
}
