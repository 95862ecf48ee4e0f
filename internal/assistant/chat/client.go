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

// Package chat implements the assistant boundary on top of an
// OpenAI-compatible chat completions API. Each session keeps its own
// message history and runs prompts one at a time on a worker goroutine,
// executing tool calls from a tools.Registry until the model answers
// without requesting more.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sirseerhq/pr-insights/internal/apierror"
	"github.com/sirseerhq/pr-insights/internal/assistant"
	insightserrors "github.com/sirseerhq/pr-insights/internal/errors"
	"github.com/sirseerhq/pr-insights/internal/tools"
)

// DefaultMaxToolRounds bounds the tool-call loop of a single prompt when
// Config.MaxToolRounds is not set.
const DefaultMaxToolRounds = 25

// Config configures a Client.
type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	MaxToolRounds int

	// Tools are offered to every session. May be nil.
	Tools *tools.Registry

	// HTTPClient overrides the HTTP client used for API calls.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// completer is the subset of the go-openai client used by sessions.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client implements assistant.Client.
type Client struct {
	cfg       Config
	logger    *zap.Logger
	inspector apierror.Inspector

	mu       sync.Mutex
	api      completer
	sessions map[string]*session
}

var _ assistant.Client = (*Client)(nil)

// New returns an unstarted client.
func New(cfg Config) *Client {
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:       cfg,
		logger:    logger,
		inspector: apierror.NewInspector(),
		sessions:  make(map[string]*session),
	}
}

// Start builds the API client. Calling Start on a started client is a no-op.
func (c *Client) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api != nil {
		return nil
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return fmt.Errorf("assistant API key is not set: %w", insightserrors.ErrAssistantAuth)
	}

	apiCfg := openai.DefaultConfig(c.cfg.APIKey)
	if c.cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(c.cfg.BaseURL, "/")
	}
	if c.cfg.HTTPClient != nil {
		apiCfg.HTTPClient = c.cfg.HTTPClient
	}
	c.api = openai.NewClientWithConfig(apiCfg)

	c.logger.Debug("assistant client started",
		zap.String("base_url", apiCfg.BaseURL),
		zap.String("model", c.cfg.Model),
		zap.Strings("tools", c.cfg.Tools.Names()))
	return nil
}

// Stop destroys every live session. The client can be started again.
func (c *Client) Stop() error {
	c.mu.Lock()
	live := make([]*session, 0, len(c.sessions))
	for _, s := range c.sessions {
		live = append(live, s)
	}
	c.api = nil
	c.mu.Unlock()

	var err error
	for _, s := range live {
		err = multierr.Append(err, s.Destroy())
	}
	c.logger.Debug("assistant client stopped", zap.Int("sessions_destroyed", len(live)))
	return err
}

// CreateSession opens a session seeded with opts.SystemMessage.
func (c *Client) CreateSession(ctx context.Context, opts assistant.SessionOptions) (assistant.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api == nil {
		return nil, insightserrors.ErrClientNotStarted
	}

	model := opts.Model
	if model == "" {
		model = c.cfg.Model
	}
	if model == "" {
		return nil, fmt.Errorf("no model configured: %w", insightserrors.ErrInvalidConfig)
	}

	s := newSession(c, uuid.NewString(), model, opts.SystemMessage)
	c.sessions[s.id] = s

	c.logger.Debug("session created", zap.String("session_id", s.id), zap.String("model", model))
	return s, nil
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.sessions, id)
	c.mu.Unlock()
}

// classify wraps an API error with the matching sentinel.
func (c *Client) classify(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", insightserrors.ErrSessionClosed, err)
	case c.inspector.IsRateLimitError(err):
		return fmt.Errorf("assistant rate limit exceeded (%v): %w", err, insightserrors.ErrRateLimit)
	case c.inspector.IsAuthError(err):
		return fmt.Errorf("assistant authentication failed (%v): %w", err, insightserrors.ErrAssistantAuth)
	case c.inspector.IsNetworkError(err):
		return fmt.Errorf("cannot reach assistant service (%v): %w", err, insightserrors.ErrNetworkFailure)
	default:
		return fmt.Errorf("assistant request failed: %w", err)
	}
}
