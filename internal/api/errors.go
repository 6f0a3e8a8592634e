package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnreachable is returned when a request was sent but no response came back.
	ErrUnreachable = errors.New("no response received from upstream")
	// ErrTimeout is returned when a single upstream request exceeded its timeout.
	ErrTimeout = errors.New("upstream request timed out")
)

// UpstreamError reports a non-2xx response from the upstream API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound
}
