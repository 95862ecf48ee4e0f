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

// Package github provides a client for GitHub's GraphQL API used by the
// assistant's pull-request tools. It hides the GraphQL query shapes behind
// a small Client interface.
//
// The package includes:
//   - A Client interface for fetching pull requests and repository information
//   - A GraphQL implementation using the shurcooL/graphql library
//   - Mock client for testing
//   - Type definitions for pull request data
//
// Basic usage:
//
//	client := github.NewGraphQLClient("your-github-token", "https://api.github.com/graphql")
//	page, err := client.FetchPullRequests(ctx, "golang", "go", github.FetchOptions{
//	    PageSize: 50,
//	    States:   []github.PullRequestState{github.StateOpen},
//	})
package github
