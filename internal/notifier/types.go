package notifier

import (
	"time"

	kit "homeworkbot/internal/transport"
)

// Config controls notification delivery.
type Config struct {
	Target         kit.ChatTarget
	RatePerSec     int
	DisablePreview bool
	// SendTimeout bounds one delivery attempt (including rate-limit waits).
	SendTimeout time.Duration
	HistorySize int
}

type HistoryItem struct {
	At        time.Time
	Text      string
	MessageID int
}
