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
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/sirseerhq/pr-insights/internal/assistant"
	"github.com/sirseerhq/pr-insights/internal/output"
)

// Mode selects how events are printed.
type Mode int

const (
	// ModeBatch frames messages with a chart marker and tools with a gear.
	ModeBatch Mode = iota
	// ModeInteractive prints plain messages and tools with a wrench.
	ModeInteractive
)

func (m Mode) String() string {
	if m == ModeInteractive {
		return "interactive"
	}
	return "batch"
}

// Relay prints session events as they arrive and copies every event to a
// transcript.
type Relay struct {
	Out        io.Writer
	Mode       Mode
	Transcript output.RecordWriter
	Logger     *zap.Logger
}

// Run consumes events until the channel is closed. A transcript failure
// stops further transcript writes but not printing; the first such error
// is returned once the channel closes.
func (r *Relay) Run(events <-chan assistant.Event) error {
	transcript := r.Transcript
	if transcript == nil {
		transcript = output.Discard
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var transcriptErr error
	for ev := range events {
		if transcriptErr == nil {
			if err := transcript.Write(ev); err != nil {
				transcriptErr = fmt.Errorf("transcript: %w", err)
				logger.Warn("transcript disabled", zap.Error(err))
			}
		}
		r.print(ev)
	}
	return transcriptErr
}

func (r *Relay) print(ev assistant.Event) {
	switch ev.Kind {
	case assistant.KindAssistantMessage:
		if r.Mode == ModeBatch {
			fmt.Fprintf(r.Out, "\n📊 %s\n\n", ev.Content)
		} else {
			fmt.Fprintf(r.Out, "\n%s\n\n", ev.Content)
		}
	case assistant.KindToolExecutionStart:
		if r.Mode == ModeBatch {
			fmt.Fprintf(r.Out, "  ⚙️  %s\n", ev.ToolName)
		} else {
			fmt.Fprintf(r.Out, "  🔧 %s\n", ev.ToolName)
		}
	}
}

// syncWriter serializes writes from the relay and the driver.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
