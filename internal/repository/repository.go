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

// Package repository resolves the GitHub repository a run analyzes. A
// repository comes from the --repo flag, from the local checkout's remote,
// from the gh CLI's notion of the current repository, or from an answer
// typed at a prompt, in that order.
package repository

import (
	"fmt"
	"strings"

	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
)

// Repository identifies a GitHub repository by owner and name.
type Repository struct {
	Owner string
	Name  string
}

// Parse splits an owner/name string. Surrounding whitespace is ignored; the
// identifier must contain exactly one slash with a non-empty part on each side.
func Parse(s string) (Repository, error) {
	trimmed := strings.TrimSpace(s)
	owner, name, found := strings.Cut(trimmed, "/")
	if !found || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("%w. Expected: owner/repo, got: %q", insightserrors.ErrInvalidRepository, s)
	}

	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if owner == "" || name == "" {
		return Repository{}, fmt.Errorf("%w. Expected: owner/repo, got: %q", insightserrors.ErrInvalidRepository, s)
	}

	return Repository{Owner: owner, Name: name}, nil
}

// String returns the owner/name form.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether r is unset.
func (r Repository) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}
