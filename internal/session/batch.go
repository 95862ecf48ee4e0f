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
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sirseerhq/pr-insights/internal/assistant"
	"github.com/sirseerhq/pr-insights/internal/metadata"
	"github.com/sirseerhq/pr-insights/internal/prompts"
)

// SummaryTaskName names the summary prompt in run metadata.
const SummaryTaskName = "summary"

var batchRule = strings.Repeat("=", 70)

// Batch sends each task with SendAndWait in order, then the summary prompt.
type Batch struct {
	Tasks   []prompts.Task
	Summary string

	// Delay is the pause after each task. Zero disables it.
	Delay time.Duration

	// Tracker records task timing when set.
	Tracker *metadata.Tracker

	Logger *zap.Logger
}

// Drive implements Driver.
func (b *Batch) Drive(ctx context.Context, s assistant.Session, out io.Writer) error {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, task := range b.Tasks {
		fmt.Fprintf(out, "\n%s\n🔍 Running: %s\n%s\n", batchRule, task.Name, batchRule)

		if err := b.send(ctx, s, task.Name, task.Prompt); err != nil {
			return fmt.Errorf("analysis %s failed: %w", task.Name, err)
		}
		logger.Debug("analysis finished", zap.String("analysis", task.Name))

		if err := pause(ctx, b.Delay); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\n%s\n📝 Generating Summary Report\n%s\n", batchRule, batchRule)
	if err := b.send(ctx, s, SummaryTaskName, b.Summary); err != nil {
		return fmt.Errorf("summary report failed: %w", err)
	}
	return nil
}

func (b *Batch) send(ctx context.Context, s assistant.Session, name, prompt string) error {
	if b.Tracker != nil {
		b.Tracker.StartTask(name)
	}
	err := s.SendAndWait(ctx, prompt)
	if b.Tracker != nil {
		b.Tracker.FinishTask(name, err)
	}
	return err
}

// pause waits for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
