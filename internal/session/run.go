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
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sirseerhq/pr-insights/internal/assistant"
	"github.com/sirseerhq/pr-insights/internal/output"
)

// Driver sends prompts to an open session. Output written to out is
// serialized with the relay's output.
type Driver interface {
	Drive(ctx context.Context, s assistant.Session, out io.Writer) error
}

// Options configures Run.
type Options struct {
	Client     assistant.Client
	Session    assistant.SessionOptions
	Mode       Mode
	Out        io.Writer
	Transcript output.RecordWriter
	Logger     *zap.Logger
}

// Run starts the client, opens a session, and runs the driver alongside the
// event relay. The session is destroyed and the client stopped on every
// path; teardown errors are combined with the run error.
func Run(ctx context.Context, opts Options, driver Driver) (err error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := &syncWriter{w: opts.Out}
	client := opts.Client

	defer func() {
		err = multierr.Append(err, client.Stop())
	}()

	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start assistant client: %w", err)
	}
	fmt.Fprintln(out, "✅ Connected to assistant")
	fmt.Fprintln(out)

	s, err := client.CreateSession(ctx, opts.Session)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	logger.Debug("session opened", zap.String("session_id", s.ID()), zap.Stringer("mode", opts.Mode))

	relay := &Relay{Out: out, Mode: opts.Mode, Transcript: opts.Transcript, Logger: logger}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return relay.Run(s.Events())
	})
	g.Go(func() (err error) {
		defer func() {
			err = multierr.Append(err, s.Destroy())
		}()
		return driver.Drive(gctx, s, out)
	})
	return g.Wait()
}
