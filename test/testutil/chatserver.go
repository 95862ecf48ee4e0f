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

// Package testutil provides common test helpers for the pr-insights binaries
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// ChatResponder returns the status and JSON body for one chat completions
// request. A zero status hangs until the client disconnects.
type ChatResponder func(req openai.ChatCompletionRequest) (int, interface{})

// ChatServer is a scripted OpenAI-compatible chat completions endpoint
type ChatServer struct {
	*httptest.Server

	t       *testing.T
	respond ChatResponder

	mu       sync.Mutex
	requests []openai.ChatCompletionRequest
}

// NewChatServer starts a chat completions server answering with respond
func NewChatServer(t *testing.T, respond ChatResponder) *ChatServer {
	t.Helper()
	s := &ChatServer{t: t, respond: respond}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API base the assistant client should be pointed at
func (s *ChatServer) BaseURL() string {
	return s.URL + "/v1"
}

func (s *ChatServer) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/chat/completions" {
		s.t.Errorf("Unexpected path: %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		s.t.Errorf("Expected POST method, got: %s", r.Method)
	}

	var req openai.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.t.Errorf("Failed to decode chat request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	status, body := s.respond(req)
	if status == 0 {
		<-r.Context().Done()
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Requests returns every request received, in order
func (s *ChatServer) Requests() []openai.ChatCompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), s.requests...)
}

// Prompts returns the user prompts that opened a turn, in order. Follow-up
// requests within a turn end with a tool message and are skipped.
func (s *ChatServer) Prompts() []string {
	var prompts []string
	for _, req := range s.Requests() {
		if last, ok := LastMessage(req); ok && last.Role == openai.ChatMessageRoleUser {
			prompts = append(prompts, last.Content)
		}
	}
	return prompts
}

// ToolResults returns the content of every tool message sent back to the
// model, in order.
func (s *ChatServer) ToolResults() []string {
	var results []string
	for _, req := range s.Requests() {
		if last, ok := LastMessage(req); ok && last.Role == openai.ChatMessageRoleTool {
			results = append(results, last.Content)
		}
	}
	return results
}

// LastMessage returns the final message of req.
func LastMessage(req openai.ChatCompletionRequest) (openai.ChatCompletionMessage, bool) {
	if len(req.Messages) == 0 {
		return openai.ChatCompletionMessage{}, false
	}
	return req.Messages[len(req.Messages)-1], true
}

// TextReply builds a completion that ends the turn with content
func TextReply(content string) map[string]interface{} {
	return completion("stop", map[string]interface{}{
		"role":    "assistant",
		"content": content,
	})
}

// ToolCallReply builds a completion requesting one tool call. args is
// marshalled to the JSON arguments string.
func ToolCallReply(id, name string, args interface{}) map[string]interface{} {
	encoded, err := json.Marshal(args)
	if err != nil {
		panic(err)
	}
	return completion("tool_calls", map[string]interface{}{
		"role": "assistant",
		"tool_calls": []interface{}{map[string]interface{}{
			"id":       id,
			"type":     "function",
			"function": map[string]interface{}{"name": name, "arguments": string(encoded)},
		}},
	})
}

// ErrorReply builds an OpenAI-style error body
func ErrorReply(message, code string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{"message": message, "type": "error", "code": code},
	}
}

func completion(finish string, message map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []interface{}{map[string]interface{}{
			"index":         0,
			"finish_reason": finish,
			"message":       message,
		}},
	}
}
