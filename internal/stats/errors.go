package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers request failures and non-success HTTP statuses.
	ErrTransport = errors.New("transport error")
	// ErrUpstream is returned when the payload reports its own failure status.
	ErrUpstream = errors.New("upstream application error")
	// ErrParse is returned for payloads that do not have the expected shape.
	ErrParse = errors.New("malformed payload")
)

// UpstreamError carries the failure message reported by a provider.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// Upstream returns an application-level failure with the provider's message.
func Upstream(message string) error {
	return &UpstreamError{Message: message}
}

// Malformed returns a parse failure describing what was wrong with the payload.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// ErrorClass names the taxonomy bucket of err for logs and API payloads.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrParse):
		return "parse"
	default:
		return "transport"
	}
}
