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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("transcript writer is closed")

// NDJSONWriter writes one JSON document per line.
type NDJSONWriter struct {
	mu        sync.Mutex
	encoder   *json.Encoder
	closed    bool
	closeFunc func() error
}

var _ RecordWriter = (*NDJSONWriter)(nil)

// NewNDJSONWriter wraps w. Close does not close w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{encoder: enc}
}

// CreateFile creates (or truncates) path, making parent directories as
// needed, and returns a writer that closes the file on Close.
func CreateFile(path string) (*NDJSONWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create transcript directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}

	w := NewNDJSONWriter(file)
	w.closeFunc = file.Close
	return w, nil
}

// Write implements RecordWriter.
func (w *NDJSONWriter) Write(record interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write transcript record: %w", err)
	}
	return nil
}

// Close implements RecordWriter. Closing twice is a no-op.
func (w *NDJSONWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
