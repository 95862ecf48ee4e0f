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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirseerhq/pr-insights/internal/app"
	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	streams := app.StdIO()
	rootCmd := newRootCommand(streams, app.ChatClientFactory(streams.Err))

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n❌ Error: %v\n", err)
		if errors.Is(err, insightserrors.ErrMissingRepository) {
			fmt.Fprintln(os.Stdout, "Use --help for usage information")
		}
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps errors to the process exit code. Every failure
// exits 1.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
