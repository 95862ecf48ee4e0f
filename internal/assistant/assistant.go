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

package assistant

import (
	"context"
	"time"
)

// EventKind identifies the kind of session event.
type EventKind string

// Event kinds emitted by a session.
const (
	KindAssistantMessage      EventKind = "assistant.message"
	KindToolExecutionStart    EventKind = "tool.execution_start"
	KindToolExecutionComplete EventKind = "tool.execution_complete"
	KindSessionIdle           EventKind = "session.idle"
	KindSessionError          EventKind = "session.error"
)

// Event is one notification from a session.
type Event struct {
	Kind       EventKind `json:"kind"`
	SessionID  string    `json:"session_id"`
	EmittedAt  time.Time `json:"emitted_at"`
	Content    string    `json:"content,omitempty"`
	ToolName   string    `json:"tool_name,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// SessionOptions configures a new session.
type SessionOptions struct {
	// Model overrides the client's default model when set.
	Model string

	// SystemMessage is the instruction the session starts with.
	SystemMessage string
}

// Client opens sessions against an assistant service.
type Client interface {
	// Start prepares the client. It must be called before CreateSession.
	Start(ctx context.Context) error

	// Stop destroys any live sessions and releases the client.
	Stop() error

	// CreateSession opens a new session.
	CreateSession(ctx context.Context, opts SessionOptions) (Session, error)
}

// Session is a single conversation. Prompts are processed one at a time in
// the order they were submitted.
type Session interface {
	// ID returns the session identifier.
	ID() string

	// Send queues a prompt and returns without waiting for the reply.
	Send(ctx context.Context, prompt string) error

	// SendAndWait queues a prompt and blocks until the assistant has
	// finished responding to it.
	SendAndWait(ctx context.Context, prompt string) error

	// Wait blocks until every prompt queued before the call has been
	// answered.
	Wait(ctx context.Context) error

	// Events returns the event stream. It is closed by Destroy.
	Events() <-chan Event

	// Destroy ends the session. Further calls are no-ops.
	Destroy() error
}
