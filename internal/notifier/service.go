package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	kit "homeworkbot/internal/transport"
	logx "homeworkbot/pkg/logx"
)

var (
	// ErrChannel means the messaging backend rejected or failed the send.
	ErrChannel = errors.New("notification channel failed")
	// ErrInvalidPayload means the message itself cannot be sent.
	ErrInvalidPayload = errors.New("invalid notification payload")
)

// Service sends notifications synchronously. It is safe for concurrent use.
type Service struct {
	mu sync.Mutex

	log    logx.Logger
	sender kit.Sender

	cfg     Config
	limiter *rate.Limiter

	history []HistoryItem
}

func New(cfg Config, sender kit.Sender, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 50
	}
	return &Service{
		log:    log,
		sender: sender,
		cfg:    cfg,
		// Token bucket: burst = rate per sec, so short spikes don't block too hard.
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
}

// Notify delivers text and absorbs any failure after logging it.
func (s *Service) Notify(ctx context.Context, text string) {
	if err := s.Send(ctx, text); err != nil {
		kind := "channel"
		if errors.Is(err, ErrInvalidPayload) {
			kind = "invalid_payload"
		}
		s.log.Error("notification not delivered", logx.String("kind", kind), logx.Err(err))
	}
}

// Send delivers text and reports why it failed, wrapping ErrInvalidPayload
// or ErrChannel.
func (s *Service) Send(ctx context.Context, text string) error {
	if err := validatePayload(text); err != nil {
		return err
	}
	if s.sender == nil {
		return fmt.Errorf("%w: no sender configured", ErrChannel)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	if err := s.limiter.Wait(sendCtx); err != nil {
		return fmt.Errorf("%w: rate limit wait: %w", ErrChannel, err)
	}

	ref, err := s.sender.SendText(sendCtx, s.cfg.Target, text, &kit.SendOptions{DisablePreview: s.cfg.DisablePreview})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChannel, err)
	}

	s.record(HistoryItem{At: time.Now(), Text: text, MessageID: ref.MessageID})
	s.log.Debug("notification sent", logx.String("text", text), logx.Int("message_id", ref.MessageID))
	return nil
}

func validatePayload(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidPayload)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidPayload)
	}
	return nil
}

func (s *Service) record(it HistoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, it)
	if over := len(s.history) - s.cfg.HistorySize; over > 0 {
		s.history = append(s.history[:0:0], s.history[over:]...)
	}
}

// History returns delivered notifications, oldest first.
func (s *Service) History() []HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HistoryItem(nil), s.history...)
}
