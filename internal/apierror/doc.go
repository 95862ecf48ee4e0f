// Package apierror classifies errors returned by the remote APIs this tool
// talks to: the OpenAI-compatible chat API behind the assistant session and
// the GitHub GraphQL API behind the pull-request tools. It keeps the
// status-code and message matching in one place so callers can wrap errors
// with the sentinels from internal/errors.
package apierror
