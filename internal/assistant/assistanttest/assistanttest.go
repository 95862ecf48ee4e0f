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

// Package assistanttest provides a scripted in-memory assistant.Client for
// tests of code that drives sessions.
package assistanttest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirseerhq/pr-insights/internal/assistant"
	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
)

// Responder produces the events for one prompt. Returning a non-nil error
// ends the turn with a session.error event and fails SendAndWait.
type Responder func(prompt string) ([]assistant.Event, error)

// Echo replies with a single message repeating the prompt.
func Echo(prompt string) ([]assistant.Event, error) {
	return []assistant.Event{{Kind: assistant.KindAssistantMessage, Content: "reply: " + prompt}}, nil
}

// Call records one prompt submitted to a session.
type Call struct {
	Prompt string
	Wait   bool
}

// Client is a stub assistant.Client.
type Client struct {
	Respond   Responder
	StartErr  error
	CreateErr error

	mu       sync.Mutex
	started  bool
	stopped  bool
	sessions []*Session
	options  []assistant.SessionOptions
}

var _ assistant.Client = (*Client)(nil)

// NewClient returns a stub whose sessions answer with respond, or Echo when
// respond is nil.
func NewClient(respond Responder) *Client {
	if respond == nil {
		respond = Echo
	}
	return &Client{Respond: respond}
}

// Start implements assistant.Client.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.StartErr != nil {
		return c.StartErr
	}
	c.started = true
	return nil
}

// Stop implements assistant.Client.
func (c *Client) Stop() error {
	c.mu.Lock()
	c.stopped = true
	sessions := append([]*Session(nil), c.sessions...)
	c.mu.Unlock()

	for _, s := range sessions {
		_ = s.Destroy()
	}
	return nil
}

// CreateSession implements assistant.Client.
func (c *Client) CreateSession(ctx context.Context, opts assistant.SessionOptions) (assistant.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil, insightserrors.ErrClientNotStarted
	}
	if c.CreateErr != nil {
		return nil, c.CreateErr
	}

	respond := c.Respond
	if respond == nil {
		respond = Echo
	}
	s := newSession(fmt.Sprintf("stub-session-%d", len(c.sessions)+1), respond)
	c.sessions = append(c.sessions, s)
	c.options = append(c.options, opts)
	return s, nil
}

// Started reports whether Start succeeded.
func (c *Client) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Stopped reports whether Stop was called.
func (c *Client) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Sessions returns the sessions created so far.
func (c *Client) Sessions() []*Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Session(nil), c.sessions...)
}

// Options returns the options passed to each CreateSession call.
func (c *Client) Options() []assistant.SessionOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]assistant.SessionOptions(nil), c.options...)
}

type turn struct {
	call    Call
	barrier bool
	done    chan error
}

// Session is a stub assistant.Session. Turns run one at a time on a worker
// goroutine, like a real session.
type Session struct {
	id      string
	respond Responder

	events  chan assistant.Event
	queue   chan turn
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu        sync.Mutex
	closed    bool
	calls     []Call
	waiting   int
	overlap   bool
	destroyed int
	drained   int
}

var _ assistant.Session = (*Session)(nil)

func newSession(id string, respond Responder) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:      id,
		respond: respond,
		events:  make(chan assistant.Event),
		queue:   make(chan turn, 64),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

// ID implements assistant.Session.
func (s *Session) ID() string { return s.id }

// Events implements assistant.Session.
func (s *Session) Events() <-chan assistant.Event { return s.events }

// Send implements assistant.Session.
func (s *Session) Send(ctx context.Context, prompt string) error {
	_, err := s.enqueue(Call{Prompt: prompt})
	return err
}

// SendAndWait implements assistant.Session. It records whether two calls
// were ever waiting at the same time.
func (s *Session) SendAndWait(ctx context.Context, prompt string) error {
	s.mu.Lock()
	s.waiting++
	if s.waiting > 1 {
		s.overlap = true
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.waiting--
		s.mu.Unlock()
	}()

	t, err := s.enqueue(Call{Prompt: prompt, Wait: true})
	if err != nil {
		return err
	}
	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait implements assistant.Session.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return insightserrors.ErrSessionClosed
	}
	t := turn{barrier: true, done: make(chan error, 1)}
	s.queue <- t
	s.mu.Unlock()

	select {
	case err := <-t.done:
		if err == nil {
			s.mu.Lock()
			s.drained++
			s.mu.Unlock()
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) enqueue(call Call) (turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return turn{}, insightserrors.ErrSessionClosed
	}
	t := turn{call: call, done: make(chan error, 1)}
	s.calls = append(s.calls, call)
	s.queue <- t
	return t, nil
}

// Destroy implements assistant.Session.
func (s *Session) Destroy() error {
	s.mu.Lock()
	s.destroyed++
	s.mu.Unlock()

	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()
		<-s.stopped
		close(s.events)
	})
	return nil
}

func (s *Session) run() {
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
		t.done <- s.turn(t.call.Prompt)
	}
}

func (s *Session) turn(prompt string) error {
	events, err := s.respond(prompt)
	for _, ev := range events {
		if !s.emit(ev) {
			return insightserrors.ErrSessionClosed
		}
	}
	if err != nil {
		s.emit(assistant.Event{Kind: assistant.KindSessionError, Error: err.Error()})
		return err
	}
	if !s.emit(assistant.Event{Kind: assistant.KindSessionIdle}) {
		return insightserrors.ErrSessionClosed
	}
	return nil
}

func (s *Session) emit(ev assistant.Event) bool {
	ev.SessionID = s.id
	if ev.EmittedAt.IsZero() {
		ev.EmittedAt = time.Now().UTC()
	}
	select {
	case s.events <- ev:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// Drained returns how many Wait calls returned after the queue emptied.
func (s *Session) Drained() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drained
}

// Calls returns every prompt submitted, in order.
func (s *Session) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Prompts returns the submitted prompt texts, in order.
func (s *Session) Prompts() []string {
	calls := s.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Prompt)
	}
	return out
}

// Overlapped reports whether two SendAndWait calls were ever in flight at
// once.
func (s *Session) Overlapped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlap
}

// Destroyed returns how many times Destroy was called.
func (s *Session) Destroyed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}
