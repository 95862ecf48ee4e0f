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

package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/sirseerhq/pr-insights/internal/assistant"
)

// UserPrompt is printed before each line is read.
const UserPrompt = "You: "

var interactiveRule = strings.Repeat("=", 60)

// Interactive sends InitialPrompt, then forwards stdin lines until exit,
// quit or end of input. Exit and quit end the session at once. At end of
// input every forwarded question is answered before it returns. With
// FollowUp unset it waits for the initial answer and returns instead.
type Interactive struct {
	In            *bufio.Reader
	InitialPrompt string
	Suggestions   []string
	FollowUp      bool
	Logger        *zap.Logger
}

// Drive implements Driver.
func (d *Interactive) Drive(ctx context.Context, s assistant.Session, out io.Writer) error {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fmt.Fprintln(out, "🔍 Analyzing pull requests...")
	fmt.Fprintln(out)

	if !d.FollowUp {
		if err := s.SendAndWait(ctx, d.InitialPrompt); err != nil {
			return err
		}
		fmt.Fprintln(out, "\n✅ Analysis complete!")
		fmt.Fprintln(out)
		return nil
	}

	if err := s.Send(ctx, d.InitialPrompt); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n💡 Ask follow-up questions (or type 'exit')\n%s\n", interactiveRule, interactiveRule)
	if len(d.Suggestions) > 0 {
		fmt.Fprintln(out, "\nTry asking:")
		for _, q := range d.Suggestions {
			fmt.Fprintf(out, "  • %q\n", q)
		}
		fmt.Fprintln(out)
	}

	lines := readLines(ctx, d.In)
	for {
		fmt.Fprint(out, UserPrompt)

		var line lineResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line = <-lines:
		}

		input := strings.TrimSpace(line.text)
		if isExit(input) {
			fmt.Fprintln(out, "\n👋 Goodbye!")
			fmt.Fprintln(out)
			return nil
		}
		if input != "" {
			logger.Debug("forwarding question", zap.Int("length", len(input)))
			if err := s.Send(ctx, input); err != nil {
				return err
			}
		}

		if line.err != nil {
			if errors.Is(line.err, io.EOF) {
				fmt.Fprintln(out)
				logger.Debug("end of input, waiting for queued questions")
				return s.Wait(ctx)
			}
			return fmt.Errorf("failed to read input: %w", line.err)
		}
	}
}

func isExit(input string) bool {
	return strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit")
}

type lineResult struct {
	text string
	err  error
}

// readLines reads from in on its own goroutine so the loop can also watch
// ctx. It stops after the first read error or once ctx is done.
func readLines(ctx context.Context, in *bufio.Reader) <-chan lineResult {
	lines := make(chan lineResult)
	go func() {
		for {
			text, err := in.ReadString('\n')
			select {
			case lines <- lineResult{text: text, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}
