package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
)

// ErrorSeverity tells operators whether a collaborator failure will clear up on its own.
type ErrorSeverity int

const (
	ErrorSeverityTemporary ErrorSeverity = iota // timeouts, 5xx
	ErrorSeverityRetryable                      // unknown failures
	ErrorSeverityFatal                          // bad credentials, quota, bad request
)

func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityTemporary:
		return "temporary"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "retryable"
	}
}

// ClassifyError grades an error returned by one of the collaborator clients.
// Calls are never retried; the grade only feeds logging.
func ClassifyError(err error) ErrorSeverity {
	if err == nil {
		return ErrorSeverityTemporary
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusUnauthorized,
			se.StatusCode == http.StatusForbidden,
			se.StatusCode == http.StatusTooManyRequests,
			se.StatusCode == http.StatusBadRequest:
			return ErrorSeverityFatal
		case se.StatusCode >= 500:
			return ErrorSeverityTemporary
		}
		return ErrorSeverityRetryable
	}

	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorSeverityTemporary
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "dns") {
		return ErrorSeverityTemporary
	}

	return ErrorSeverityRetryable
}
