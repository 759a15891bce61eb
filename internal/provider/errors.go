package provider

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"

	openai "github.com/sashabaranov/go-openai"
)

// StatusCode extracts the HTTP status from a go-openai error.
func StatusCode(err error) (int, bool) {
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

// statusText describes a failed response. The server's message wins.
func statusText(code int, message string) string {
	if message != "" {
		return message
	}
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return "authentication failed; check your API key"
	case code == http.StatusNotFound:
		return "model or endpoint not found"
	case code == http.StatusTooManyRequests:
		return "rate limited; wait and retry"
	case code >= 500:
		return "provider unavailable"
	}
	return http.StatusText(code)
}

// FriendlyError describes a transport failure in terms a user can act on.
func FriendlyError(err error) string {
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused (is the service running?)"
	case errors.As(err, &dnsErr):
		return "host not found (check the URL)"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "connection timed out (service may be starting up)"
	case errors.Is(err, syscall.ECONNRESET):
		return "connection reset by server"
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "connection closed unexpectedly"
	}
	return err.Error()
}

// retryable reports whether another attempt may succeed: rate limits,
// server errors and dropped connections. Cancellation never retries.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if code, ok := StatusCode(err); ok {
		return code == http.StatusTooManyRequests || code >= 500
	}
	var netErr net.Error
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		(errors.As(err, &netErr) && netErr.Timeout())
}
