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

package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirseerhq/pr-insights/internal/assistant"
)

func TestNDJSONWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)

	events := []assistant.Event{
		{Kind: assistant.KindToolExecutionStart, SessionID: "s1", ToolName: "write_file", ToolCallID: "call_1"},
		{Kind: assistant.KindAssistantMessage, SessionID: "s1", Content: "PRs <merged> & reviewed"},
		{Kind: assistant.KindSessionIdle, SessionID: "s1"},
	}
	for _, ev := range events {
		if err := w.Write(ev); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(events) {
		t.Fatalf("got %d lines, want %d", len(lines), len(events))
	}
	for i, line := range lines {
		var got assistant.Event
		if err := json.Unmarshal([]byte(line), &got); err != nil {
			t.Fatalf("line %d is not JSON: %v", i, err)
		}
		if got.Kind != events[i].Kind {
			t.Errorf("line %d kind = %s, want %s", i, got.Kind, events[i].Kind)
		}
	}
	if !strings.Contains(lines[1], "<merged> & reviewed") {
		t.Errorf("HTML should not be escaped: %s", lines[1])
	}
	if strings.Contains(lines[2], "content") {
		t.Errorf("empty fields should be omitted: %s", lines[2])
	}
}

func TestNDJSONWriter_WriteAfterClose(t *testing.T) {
	w := NewNDJSONWriter(&bytes.Buffer{})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := w.Write(map[string]string{"k": "v"}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestNDJSONWriter_UnencodableRecord(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)
	if err := w.Write(make(chan int)); err == nil {
		t.Error("expected error for unencodable record")
	}
	if buf.Len() != 0 {
		t.Errorf("failed writes must not produce output, got %q", buf.String())
	}
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.ndjson")

	w, err := CreateFile(path)
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := w.Write(assistant.Event{Kind: assistant.KindAssistantMessage, EmittedAt: now, Content: "chunk"}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open transcript: %v", err)
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev assistant.Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("line %d: %v", n, err)
		}
		if !ev.EmittedAt.Equal(now) {
			t.Errorf("line %d EmittedAt = %v", n, ev.EmittedAt)
		}
		n++
	}
	if n != 3 {
		t.Errorf("got %d lines, want 3", n)
	}
}

func TestCreateFile_InvalidPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := CreateFile(filepath.Join(blocker, "run.ndjson")); err == nil {
		t.Error("expected error when parent is a file")
	}
}

func TestDiscard(t *testing.T) {
	if err := Discard.Write(assistant.Event{}); err != nil {
		t.Errorf("Discard.Write: %v", err)
	}
	if err := Discard.Close(); err != nil {
		t.Errorf("Discard.Close: %v", err)
	}
}
