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

// Package session drives an assistant session for the two entry points.
//
// Run owns the session lifecycle: it starts the client, opens the session,
// relays events to the terminal on one goroutine while a Driver sends
// prompts on another, and tears everything down on every exit path. Batch
// sends the analysis prompts one after another and waits for each;
// Interactive sends an opening prompt and then forwards lines read from
// stdin until the user types exit or quit.
package session
