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

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sirseerhq/pr-insights/internal/assistant"
	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
	"github.com/sirseerhq/pr-insights/internal/tools"
)

// queueSize bounds the number of prompts waiting behind the current turn.
const queueSize = 64

// A barrier turn carries no prompt. It completes once the turns queued
// ahead of it have run.
type turn struct {
	prompt  string
	wait    bool
	barrier bool
	done    chan error
}

type session struct {
	id       string
	model    string
	api      completer
	tools    *tools.Registry
	apiTools []openai.Tool
	rounds   int
	client   *Client
	logger   *zap.Logger

	// history is owned by the worker goroutine.
	history []openai.ChatCompletionMessage

	ctx    context.Context
	cancel context.CancelFunc

	// mu guards closed. Senders hold the read lock while enqueueing so the
	// queue is never closed underneath them.
	mu     sync.RWMutex
	closed bool
	queue  chan *turn

	events  chan assistant.Event
	stopped chan struct{}
	once    sync.Once
}

var _ assistant.Session = (*session)(nil)

func newSession(c *Client, id, model, system string) *session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:       id,
		model:    model,
		api:      c.api,
		tools:    c.cfg.Tools,
		apiTools: toolSpecs(c.cfg.Tools),
		rounds:   c.cfg.MaxToolRounds,
		client:   c,
		logger:   c.logger.With(zap.String("session_id", id)),
		ctx:      ctx,
		cancel:   cancel,
		queue:    make(chan *turn, queueSize),
		events:   make(chan assistant.Event),
		stopped:  make(chan struct{}),
	}
	if system != "" {
		s.history = append(s.history, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	go s.run()
	return s
}

func toolSpecs(r *tools.Registry) []openai.Tool {
	if r.Len() == 0 {
		return nil
	}
	defs := r.Definitions()
	specs := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		specs = append(specs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return specs
}

// ID implements assistant.Session.
func (s *session) ID() string { return s.id }

// Events implements assistant.Session.
func (s *session) Events() <-chan assistant.Event { return s.events }

// Send implements assistant.Session.
func (s *session) Send(ctx context.Context, prompt string) error {
	_, err := s.enqueue(ctx, prompt, false)
	return err
}

// SendAndWait implements assistant.Session.
func (s *session) SendAndWait(ctx context.Context, prompt string) error {
	t, err := s.enqueue(ctx, prompt, true)
	if err != nil {
		return err
	}
	return t.await(ctx)
}

// Wait implements assistant.Session.
func (s *session) Wait(ctx context.Context) error {
	t, err := s.push(ctx, &turn{barrier: true, done: make(chan error, 1)})
	if err != nil {
		return err
	}
	return t.await(ctx)
}

func (t *turn) await(ctx context.Context) error {
	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *session) enqueue(ctx context.Context, prompt string, wait bool) (*turn, error) {
	return s.push(ctx, &turn{prompt: prompt, wait: wait, done: make(chan error, 1)})
}

func (s *session) push(ctx context.Context, t *turn) (*turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, insightserrors.ErrSessionClosed
	}

	select {
	case s.queue <- t:
		return t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, insightserrors.ErrSessionClosed
	}
}

// Destroy implements assistant.Session.
func (s *session) Destroy() error {
	s.once.Do(func() {
		s.cancel()

		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()

		<-s.stopped
		close(s.events)
		s.client.forget(s.id)
		s.logger.Debug("session destroyed")
	})
	return nil
}

func (s *session) run() {
	defer close(s.stopped)

	for t := range s.queue {
		if s.ctx.Err() != nil {
			t.done <- insightserrors.ErrSessionClosed
			continue
		}
		if t.barrier {
			t.done <- nil
			continue
		}

		start := time.Now()
		s.logger.Debug("turn started", zap.Bool("wait", t.wait))
		err := s.runTurn(t.prompt)
		if err != nil && !t.wait && !errors.Is(err, insightserrors.ErrSessionClosed) {
			s.logger.Error("prompt failed", zap.Error(err))
		}
		s.logger.Debug("turn finished", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		t.done <- err
	}
}

// runTurn runs one prompt to completion. A failed turn leaves the history
// as it was before the prompt so later turns never carry unanswered tool
// calls.
func (s *session) runTurn(prompt string) (err error) {
	base := len(s.history)
	defer func() {
		if err != nil {
			s.history = s.history[:base]
		}
	}()

	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	for round := 0; ; round++ {
		resp, err := s.api.CreateChatCompletion(s.ctx, openai.ChatCompletionRequest{
			Model:    s.model,
			Messages: s.history,
			Tools:    s.apiTools,
		})
		if err != nil {
			return s.fail(s.client.classify(err))
		}
		if len(resp.Choices) == 0 {
			return s.fail(fmt.Errorf("assistant returned no choices"))
		}

		msg := resp.Choices[0].Message
		if msg.Role == "" {
			msg.Role = openai.ChatMessageRoleAssistant
		}
		s.history = append(s.history, msg)

		if strings.TrimSpace(msg.Content) != "" {
			if !s.emit(assistant.Event{Kind: assistant.KindAssistantMessage, Content: msg.Content}) {
				return insightserrors.ErrSessionClosed
			}
		}

		if len(msg.ToolCalls) == 0 {
			if !s.emit(assistant.Event{Kind: assistant.KindSessionIdle}) {
				return insightserrors.ErrSessionClosed
			}
			return nil
		}

		if round >= s.rounds {
			return s.fail(fmt.Errorf("assistant exceeded %d tool rounds", s.rounds))
		}

		for _, call := range msg.ToolCalls {
			if err := s.invoke(call); err != nil {
				return err
			}
		}
	}
}

// invoke runs one tool call and appends its result to the history. Tool
// failures are reported to the model, not to the caller.
func (s *session) invoke(call openai.ToolCall) error {
	name := call.Function.Name
	if !s.emit(assistant.Event{Kind: assistant.KindToolExecutionStart, ToolName: name, ToolCallID: call.ID}) {
		return insightserrors.ErrSessionClosed
	}

	result, err := s.tools.Invoke(s.ctx, name, json.RawMessage(call.Function.Arguments))
	complete := assistant.Event{Kind: assistant.KindToolExecutionComplete, ToolName: name, ToolCallID: call.ID}
	if err != nil {
		if s.ctx.Err() != nil {
			return insightserrors.ErrSessionClosed
		}
		s.logger.Debug("tool failed", zap.String("tool", name), zap.Error(err))
		result = "error: " + err.Error()
		complete.Error = err.Error()
	}

	if !s.emit(complete) {
		return insightserrors.ErrSessionClosed
	}

	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    result,
		Name:       name,
		ToolCallID: call.ID,
	})
	return nil
}

// fail reports err as a session.error event and returns it.
func (s *session) fail(err error) error {
	if errors.Is(err, insightserrors.ErrSessionClosed) {
		return err
	}
	s.emit(assistant.Event{Kind: assistant.KindSessionError, Error: err.Error()})
	return err
}

// emit delivers ev to the relay. It returns false once the session is
// being destroyed.
func (s *session) emit(ev assistant.Event) bool {
	ev.SessionID = s.id
	ev.EmittedAt = time.Now().UTC()
	select {
	case s.events <- ev:
		return true
	case <-s.ctx.Done():
		return false
	}
}
