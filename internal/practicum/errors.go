package practicum

import "errors"

// ErrServerUnavailable is returned when the review API answers with any
// status other than 200.
var ErrServerUnavailable = errors.New("review api unavailable")

// TransportError wraps a failure to reach the review API or to read its
// answer (connection refused, DNS, timeout, undecodable body).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "review api request failed"
	}
	return "review api request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
