package poller

import (
	"context"
	"errors"

	"homeworkbot/internal/homework"
	"homeworkbot/internal/practicum"
	"homeworkbot/internal/runtime/supervisor"
)

// Classify maps a cycle error to a stable label for log fields.
func Classify(err error) string {
	var (
		te *practicum.TransportError
		pe *supervisor.PanicError
	)
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &pe):
		return "panic"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &te):
		return "transport"
	case errors.Is(err, practicum.ErrServerUnavailable):
		return "server_unavailable"
	case errors.Is(err, homework.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, homework.ErrMissingField):
		return "missing_field"
	case errors.Is(err, homework.ErrInvalidFieldType):
		return "invalid_field_type"
	case errors.Is(err, homework.ErrUnknownStatus):
		return "unknown_status"
	default:
		return "unknown"
	}
}
