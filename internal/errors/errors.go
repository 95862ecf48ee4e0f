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

// Package errors defines sentinel errors for consistent error handling across the application.
// Both binaries map any of these to exit code 1; the sentinels exist so callers can
// tell configuration mistakes from session failures with errors.Is.
package errors

import "errors"

// Configuration errors. These are detected before any session is created.
var (
	// ErrMissingRepository indicates no repository was given and none could be resolved.
	ErrMissingRepository = errors.New("repository is required")

	// ErrInvalidRepository indicates a repository identifier not in owner/name form.
	ErrInvalidRepository = errors.New("invalid repository format")

	// ErrUnknownAnalysis indicates an --analysis entry that names no known analysis.
	ErrUnknownAnalysis = errors.New("unknown analysis")

	// ErrInvalidConfig indicates settings that failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Session errors raised by the assistant boundary.
var (
	// ErrClientNotStarted indicates a session was requested from a client that was never started.
	ErrClientNotStarted = errors.New("assistant client not started")

	// ErrSessionClosed indicates an operation on a session that has been destroyed.
	ErrSessionClosed = errors.New("assistant session closed")

	// ErrAssistantAuth indicates the assistant API rejected the configured credentials.
	ErrAssistantAuth = errors.New("assistant authentication failed")
)

// API errors shared by the assistant backend and the GitHub tools.
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the specified repository does not exist or is not accessible.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrNetworkFailure indicates a network connection problem.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates an API rate limit has been exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")
)
