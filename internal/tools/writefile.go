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

package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteFileName is the name of the file writing tool.
const WriteFileName = "write_file"

// WriteFile writes files below Root. Paths are relative to Root and may not
// leave it.
type WriteFile struct {
	Root string
}

// Definition implements Tool.
func (t *WriteFile) Definition() Definition {
	return Definition{
		Name:        WriteFileName,
		Description: "Write a file (report, chart or data) relative to the output directory. Parent directories are created.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Relative file path, e.g. velocity-report.md",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "File content",
				},
				"encoding": map[string]any{
					"type":        "string",
					"enum":        []string{"utf-8", "base64"},
					"description": "Content encoding. Use base64 for binary files.",
				},
			},
			"required": []string{"path", "content"},
		},
	}
}

type writeArgs struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Invoke implements Tool.
func (t *WriteFile) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var in writeArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	target, rel, err := t.resolve(in.Path)
	if err != nil {
		return "", err
	}

	var data []byte
	switch strings.ToLower(in.Encoding) {
	case "", "utf-8", "utf8", "text":
		data = []byte(in.Content)
	case "base64":
		data, err = base64.StdEncoding.DecodeString(in.Content)
		if err != nil {
			return "", fmt.Errorf("invalid base64 content: %w", err)
		}
	default:
		return "", fmt.Errorf("unsupported encoding %q", in.Encoding)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", in.Path, err)
	}

	return fmt.Sprintf("wrote %d bytes to %s", len(data), filepath.ToSlash(rel)), nil
}

// resolve maps a relative path onto Root, rejecting anything that would
// land outside it.
func (t *WriteFile) resolve(p string) (target, rel string, err error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", "", fmt.Errorf("path is required")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return "", "", fmt.Errorf("path %q must be relative to the output directory", p)
	}

	root, err := filepath.Abs(t.Root)
	if err != nil {
		return "", "", fmt.Errorf("invalid root directory: %w", err)
	}
	target = filepath.Join(root, filepath.FromSlash(p))
	rel, err = filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("path %q escapes the output directory", p)
	}
	return target, rel, nil
}
