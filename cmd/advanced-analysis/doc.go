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

// Package main implements the advanced-analysis command-line interface.
// It runs a fixed series of pull request analyses against a GitHub
// repository through an AI assistant, waiting for each to finish before
// starting the next, and finishes with a Markdown summary report. Charts
// and reports are written to the output directory by the assistant's
// write_file tool.
//
// The analyses, in order:
//   - velocity-trends: merge times and throughput over time
//   - review-patterns: time to first review and review coverage
//   - contributor-insights: who opens and merges pull requests
//   - label-analysis: label usage and its effect on merge time
//   - size-complexity: change size against review and merge time
//
// Usage:
//
//	advanced-analysis --repo <owner/repo> [--output dir] [--analysis name,...]
//
// Example:
//
//	export OPENAI_API_KEY=your_key
//	export GITHUB_TOKEN=your_token
//	advanced-analysis --repo golang/go --analysis velocity-trends,review-patterns
//
// Exit codes:
//   - 0: Success
//   - 1: Any error
package main
