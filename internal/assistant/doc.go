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

// Package assistant defines the boundary between the session drivers and a
// conversational assistant service. A Client opens Sessions; a Session
// accepts prompts and reports what the assistant does as a stream of Events.
//
// Implementations live in subpackages. The chat package talks to an
// OpenAI-compatible chat completions API; assistanttest provides an
// in-memory stub for tests.
package assistant
