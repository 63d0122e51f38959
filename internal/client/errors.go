package client

import "errors"

var (
	// ErrNoSession means there is no stored token; the caller should
	// proceed logged out without touching the network.
	ErrNoSession = errors.New("no stored session")

	// ErrPaymentFailed marks the second phase of a purchase failing
	// after the ticket was already created server-side. The ticket is
	// cancelled by the server; the client performs no compensation.
	ErrPaymentFailed = errors.New("payment failed")
)

// APIError is a non-2xx response whose body carried a server-provided
// message. Message may be empty when the body was absent or malformed;
// callers fall back to a generic message then.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}

// ServerMessage returns the verbatim server error message, or "" when
// the failure was not an API-level error (connectivity, decoding).
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
