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

// Package output writes session transcripts as newline-delimited JSON
// (NDJSON). Each record is encoded on its own line as soon as it is
// written, so a transcript stays readable even if the run is interrupted.
//
// Basic usage:
//
//	w, err := output.CreateFile("run.ndjson")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	w.Write(event)
package output
