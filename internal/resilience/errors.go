package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// TransientError marks an error as safe to retry (rate limit, 5xx, network
// timeout).
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// NewTransientError wraps an error as transient with an optional HTTP
// status code.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// IsTransient reports whether the error chain contains a TransientError, a
// network timeout, or a known transient connection failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// Wrapped HTTP client errors only surface as strings.
	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsTransientHTTPStatus reports whether an HTTP status code is worth
// retrying.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504, 529:
		return true
	default:
		return false
	}
}

// Extraction service conditions that warrant a retry: throttling, overload
// and context-window overflow.
var retryableExtractionPatterns = []string{
	"rate_limit",
	"rate limit",
	"too many requests",
	"429",
	"overloaded",
	"529",
	"context_length",
	"context length",
	"prompt is too long",
	"internal server error",
	"502",
	"503",
	"504",
}

// IsRetryableExtraction classifies errors from the extraction service:
// transient network failures plus the service's throttling and
// context-overflow responses. Everything else (auth failures, malformed
// requests) is permanent and the batch degrades to an empty result.
func IsRetryableExtraction(err error) bool {
	if err == nil {
		return false
	}
	if IsTransient(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range retryableExtractionPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// ClassifyError names an error's class for the failed-batch ledger.
func ClassifyError(err error) string {
	if IsRetryableExtraction(err) {
		return "transient"
	}
	return "permanent"
}
