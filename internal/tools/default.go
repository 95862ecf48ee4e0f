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

import "github.com/sirseerhq/pr-insights/internal/github"

// Options selects which tools a session gets.
type Options struct {
	// GitHub backs the repository tools. Nil leaves them out.
	GitHub github.Client

	// PageSize is the page size used when listing pull requests.
	PageSize int

	// Root is the directory write_file writes into.
	Root string
}

// Default builds the standard registry: the GitHub tools when a client is
// available, then write_file.
func Default(opts Options) *Registry {
	r := NewRegistry()
	if opts.GitHub != nil {
		r.Register(&RepositoryInfo{Client: opts.GitHub})
		r.Register(&ListPullRequests{Client: opts.GitHub, PageSize: opts.PageSize})
	}
	r.Register(&WriteFile{Root: opts.Root})
	return r
}
