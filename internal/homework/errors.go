package homework

import "errors"

var (
	ErrMalformedResponse = errors.New("malformed review api response")
	ErrMissingField      = errors.New("missing field")
	ErrInvalidFieldType  = errors.New("invalid field type")
	ErrUnknownStatus     = errors.New("unknown homework status")
)
