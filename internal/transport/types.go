package transport

import "context"

// ChatTarget addresses a chat: a numeric id ("-100123") or a public
// username ("@channel").
type ChatTarget struct {
	Chat string
}

// Recipient returns the chat identifier as the Bot API expects it.
func (t ChatTarget) Recipient() string { return t.Chat }

type MessageRef struct {
	ChatID    int64
	MessageID int
}

type SendOptions struct {
	DisablePreview bool
}

// Sender delivers text messages to a chat.
type Sender interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
}
