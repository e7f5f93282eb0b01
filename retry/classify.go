// ABOUTME: This file classifies errors for retry decisions
// ABOUTME: Distinguishes between temporary and permanent errors for resilient processing
package retry

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// statusCoder is implemented by transport errors that carry an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Cancellation is deliberate, never retried.
	if errors.Is(err, context.Canceled) {
		return false
	}

	// A timed-out attempt may succeed next time.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errno, ok := opErr.Err.(syscall.Errno); ok {
			return errno == syscall.ECONNREFUSED ||
				errno == syscall.ECONNRESET ||
				errno == syscall.ETIMEDOUT
		}
		if opErr.Timeout() {
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var coded statusCoder
	if errors.As(err, &coded) {
		return isRetryableHTTPStatus(coded.HTTPStatus())
	}

	return false
}

func isRetryableHTTPStatus(status int) bool {
	switch status {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
