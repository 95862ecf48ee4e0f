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

// Package report lists the artifacts a batch run left in its output
// directory.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// File is one artifact in the output directory.
type File struct {
	Name string
	Size int64
}

// List returns the regular files directly inside dir, sorted by name.
// Subdirectories are skipped; nothing is read recursively.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory %s: %w", dir, err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, File{Name: entry.Name(), Size: info.Size()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// FormatKB renders a byte count in kibibytes with two decimals.
func FormatKB(size int64) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}

// Print writes the file listing. It writes nothing for an empty list.
func Print(w io.Writer, files []File) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintln(w, "Generated files:")
	for _, file := range files {
		fmt.Fprintf(w, "  📄 %s (%s)\n", file.Name, FormatKB(file.Size))
	}
}

// PrintDir lists dir and prints it.
func PrintDir(w io.Writer, dir string) error {
	files, err := List(dir)
	if err != nil {
		return err
	}
	Print(w, files)
	return nil
}
