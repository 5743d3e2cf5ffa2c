// Package notifier delivers status and failure messages to the configured
// chat.
//
// # Delivery
//
// The service delegates delivery to a transport.Sender (the Telegram adapter
// in production). Sends are rate limited so a burst of failures cannot trip
// Bot API flood limits.
//
// # Failure policy
//
// Notify never returns an error: a failed notification must not abort the
// polling loop or hide the error that triggered it. Failures are classified
// (ErrChannel, ErrInvalidPayload) for logging only.
//
// # History
//
// For debugging, the service keeps a small in-memory history of delivered
// messages. It is not persisted.
package notifier
