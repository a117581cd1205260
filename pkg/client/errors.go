package client

import (
	"errors"
	"fmt"
	"strings"
)

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// AuthenticationError means the credential exchange did not yield a usable
// bearer token: bad credentials, transport failure, or a malformed body.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return "authentication failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// DataFetchError means the profile query failed: transport failure, a
// query-level error list, or a response without a user record.
type DataFetchError struct {
	Reason string
	Err    error
}

func (e *DataFetchError) Error() string {
	if e.Err != nil {
		return "fetch profile: " + e.Reason + ": " + e.Err.Error()
	}
	return "fetch profile: " + e.Reason
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// QueryError carries the messages of a GraphQL errors list.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func newQueryError(errs []gqlError) *QueryError {
	qe := &QueryError{}
	for _, e := range errs {
		msg := e.Message
		if msg == "" {
			msg = "unknown error"
		}
		qe.Messages = append(qe.Messages, msg)
	}
	if len(qe.Messages) == 0 {
		qe.Messages = []string{"unknown error"}
	}
	return qe
}
