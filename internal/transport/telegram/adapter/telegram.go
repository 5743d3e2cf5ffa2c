package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	kit "homeworkbot/internal/transport"
	logx "homeworkbot/pkg/logx"
)

// Config configures the Telegram adapter.
type Config struct {
	Token string
	// APIURL overrides the Bot API base URL (tests, local bot-api servers).
	APIURL string
	// Timeout bounds a single Bot API call. Default: 15s.
	Timeout time.Duration
}

// Adapter is a send-only Telegram transport. The bot never reads updates,
// so no poller is started.
type Adapter struct {
	cfg Config
	log logx.Logger

	bot *tele.Bot
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	// Offline skips getMe: a Telegram outage at startup must not stop the
	// bot from polling; delivery failures are reported per message.
	b, err := tele.NewBot(tele.Settings{
		URL:     strings.TrimSpace(cfg.APIURL),
		Token:   cfg.Token,
		Client:  &http.Client{Timeout: timeout},
		Offline: true,
	})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Adapter{cfg: cfg, log: log, bot: b}, nil
}

const telegramTextLimit = 4000

// splitTelegramText splits long messages into chunks that are safe to send to
// Telegram, preferring newline boundaries.
func splitTelegramText(s string, limit int) []string {
	if limit <= 0 {
		limit = telegramTextLimit
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return []string{s}
	}

	out := make([]string, 0, (len(rs)+limit-1)/limit)
	start := 0
	for start < len(rs) {
		end := min(start+limit, len(rs))

		// Prefer splitting on a newline near the end of the window,
		// but avoid extremely small chunks.
		if end < len(rs) {
			for i := end - 1; i > start; i-- {
				if rs[i] == '\n' && i-start >= limit/3 {
					end = i + 1
					break
				}
			}
		}

		out = append(out, strings.TrimRight(string(rs[start:end]), "\n"))

		start = end
		for start < len(rs) && rs[start] == '\n' {
			start++
		}
	}
	return out
}

// SendText delivers text, split into several messages when it exceeds the
// Bot API limit. The returned ref points at the first message.
func (a *Adapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error) {
	if opt == nil {
		opt = &kit.SendOptions{}
	}
	if strings.TrimSpace(to.Chat) == "" {
		return kit.MessageRef{}, errors.New("telegram chat is empty")
	}

	var first kit.MessageRef
	for i, chunk := range splitTelegramText(text, telegramTextLimit) {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return first, err
			}
		}

		msg, err := a.bot.Send(to, chunk, &tele.SendOptions{
			DisableWebPagePreview: opt.DisablePreview,
		})
		if err != nil {
			return first, err
		}

		if i == 0 && msg != nil {
			first = kit.MessageRef{MessageID: msg.ID}
			if msg.Chat != nil {
				first.ChatID = msg.Chat.ID
			}
		}
	}

	a.log.Debug("telegram message sent", logx.String("chat", to.Chat), logx.Int("message_id", first.MessageID))
	return first, nil
}
