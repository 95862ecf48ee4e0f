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

package repository

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptText is shown when asking for a repository.
const PromptText = "Enter GitHub repository (owner/repo): "

// Prompt asks for a repository on out and reads one line from in.
// The reader is shared with the caller's later input loop, so Prompt
// consumes exactly one line.
func Prompt(in *bufio.Reader, out io.Writer) (Repository, error) {
	fmt.Fprint(out, PromptText)

	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Repository{}, fmt.Errorf("failed to read repository: %w", err)
	}

	return Parse(strings.TrimSpace(line))
}
