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

// Package main implements the pr-insights command-line interface, an
// interactive pull request dashboard backed by an AI assistant.
//
// The repository is taken from --repo, else detected from the current
// checkout's GitHub remote, else asked for on standard input. The
// assistant first charts the age of open pull requests and suggests where
// to look next; afterwards each line typed is sent as a follow-up
// question until exit, quit or end of input. Questions still queued at end
// of input are answered before the session closes.
//
// Usage:
//
//	pr-insights [--repo owner/repo] [--non-interactive]
//
// Exit codes:
//   - 0: Success
//   - 1: Any error
package main
