package apierror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Inspector provides methods for analyzing remote API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a resource not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// MessageInspector implements Inspector by matching error text.
type MessageInspector struct{}

// NewInspector returns the default inspector: typed status codes first,
// then error text.
func NewInspector() Inspector {
	return NewStatusInspector(&MessageInspector{})
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *MessageInspector) IsAuthError(err error) bool {
	return containsAny(err,
		"401",
		"403",
		"unauthorized",
		"forbidden",
		"bad credentials",
		"authentication",
		"invalid api key",
		"incorrect api key",
	)
}

// IsNotFoundError checks if the error is a not found error.
func (i *MessageInspector) IsNotFoundError(err error) bool {
	return containsAny(err,
		"404",
		"not found",
		"could not resolve to a repository",
		"does not exist",
	)
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *MessageInspector) IsRateLimitError(err error) bool {
	return containsAny(err,
		"rate limit",
		"429",
		"too many requests",
		"insufficient_quota",
	)
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *MessageInspector) IsNetworkError(err error) bool {
	return containsAny(err,
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"temporary failure",
		"dial tcp",
		"tls handshake",
		"network is unreachable",
		"unexpected eof",
	)
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, needle := range needles {
		if strings.Contains(errStr, needle) {
			return true
		}
	}
	return false
}

// StatusInspector wraps a base inspector and checks the error chain for
// HTTP status codes and self-classifying error types before falling back to
// the base inspector.
type StatusInspector struct {
	base Inspector
}

// NewStatusInspector creates a StatusInspector around base.
func NewStatusInspector(base Inspector) Inspector {
	return &StatusInspector{base: base}
}

// IsAuthError checks the error chain first, then falls back to the base inspector.
func (s *StatusInspector) IsAuthError(err error) bool {
	var authErr interface{ IsAuthError() bool }
	if errors.As(err, &authErr) && authErr.IsAuthError() {
		return true
	}
	if code, ok := statusCode(err); ok {
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}
	return s.base.IsAuthError(err)
}

// IsNotFoundError checks the error chain first, then falls back to the base inspector.
func (s *StatusInspector) IsNotFoundError(err error) bool {
	var notFoundErr interface{ IsNotFoundError() bool }
	if errors.As(err, &notFoundErr) && notFoundErr.IsNotFoundError() {
		return true
	}
	if code, ok := statusCode(err); ok {
		return code == http.StatusNotFound
	}
	return s.base.IsNotFoundError(err)
}

// IsRateLimitError checks the error chain first, then falls back to the base inspector.
func (s *StatusInspector) IsRateLimitError(err error) bool {
	var rateLimitErr interface{ IsRateLimitError() bool }
	if errors.As(err, &rateLimitErr) && rateLimitErr.IsRateLimitError() {
		return true
	}
	if code, ok := statusCode(err); ok {
		return code == http.StatusTooManyRequests
	}
	return s.base.IsRateLimitError(err)
}

// IsNetworkError checks the error chain first, then falls back to the base inspector.
// An error carrying an HTTP status means the server answered, so it is never a
// network error.
func (s *StatusInspector) IsNetworkError(err error) bool {
	var networkErr interface{ IsNetworkError() bool }
	if errors.As(err, &networkErr) && networkErr.IsNetworkError() {
		return true
	}
	if _, ok := statusCode(err); ok {
		return false
	}
	return s.base.IsNetworkError(err)
}

// statusCode extracts the HTTP status from go-openai error types.
func statusCode(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
