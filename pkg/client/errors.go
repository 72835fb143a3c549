package client

import "fmt"

// RequestError carries the context of a failed backend call.  It is always
// found inside an *errors.AppError whose code says what kind of failure it was.
type RequestError struct {
	Endpoint   Endpoint
	StatusCode int
	RequestID  string
	Cause      error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Cause != nil:
		return fmt.Sprintf("aushadhi: %s (HTTP %d): %v [request_id=%s]", e.Endpoint.Path(), e.StatusCode, e.Cause, e.RequestID)
	case e.StatusCode != 0:
		return fmt.Sprintf("aushadhi: %s (HTTP %d) [request_id=%s]", e.Endpoint.Path(), e.StatusCode, e.RequestID)
	default:
		return fmt.Sprintf("aushadhi: %s: %v [request_id=%s]", e.Endpoint.Path(), e.Cause, e.RequestID)
	}
}

func (e *RequestError) Unwrap() error { return e.Cause }
