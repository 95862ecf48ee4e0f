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

// RecordWriter receives transcript records. Implementations must be safe
// for concurrent use.
type RecordWriter interface {
	// Write encodes a single record and flushes it.
	Write(record interface{}) error

	// Close releases the underlying resource. Writes after Close fail.
	Close() error
}

// Discard is a RecordWriter that drops every record.
var Discard RecordWriter = discard{}

type discard struct{}

func (discard) Write(interface{}) error { return nil }
func (discard) Close() error            { return nil }
