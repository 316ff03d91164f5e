package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// RemoteError reports a failed call to the vendor API: a non-2xx status
// or a transport failure. The raw body is retained for diagnostics but
// never parsed as content.
type RemoteError struct {
	Provider   string
	StatusCode int // 0 when the request never produced a response
	Body       string
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: request failed: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// MalformedResponseError reports a vendor envelope that lacks the
// expected candidate/choice structure or carries no text.
type MalformedResponseError struct {
	Provider string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Provider, e.Reason)
}

// IsTimeout reports whether err is a deadline expiry, either from the
// request context or the underlying transport.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsNetwork reports whether err is a connectivity failure (DNS, refused
// connection, reset) rather than an API-level or timeout error.
func IsNetwork(err error) bool {
	if IsTimeout(err) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
