package app

import (
	"fmt"
	"time"

	"homeworkbot/internal/config"
	"homeworkbot/internal/notifier"
	"homeworkbot/internal/poller"
	kit "homeworkbot/internal/transport"
	logx "homeworkbot/pkg/logx"
)

func mapLoggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

type reviewAPIConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func mapReviewAPIConfig(cfg *config.Config) (reviewAPIConfig, error) {
	timeout, err := config.ParseDurationOrDefault("review_api.timeout", cfg.ReviewAPI.Timeout, 30*time.Second)
	if err != nil {
		return reviewAPIConfig{}, err
	}
	return reviewAPIConfig{Endpoint: cfg.ReviewAPI.Endpoint, Timeout: timeout}, nil
}

func mapPollerOptions(cfg *config.Config) ([]poller.Option, error) {
	sched, err := poller.ParseSchedule(cfg.Poll.Interval)
	if err != nil {
		return nil, fmt.Errorf("poll.interval: %w", err)
	}
	opts := []poller.Option{
		poller.WithSchedule(sched),
		poller.WithStaticFromDate(cfg.ReviewAPI.StaticFromDate),
	}
	if fd := cfg.ReviewAPI.FromDate; fd != nil {
		if *fd < 0 {
			return nil, fmt.Errorf("review_api.from_date must be >= 0")
		}
		opts = append(opts, poller.WithFromDate(*fd))
	}
	return opts, nil
}

func mapNotifierConfig(cfg *config.Config, creds config.Credentials) (notifier.Config, error) {
	if cfg.Telegram.RatePerSec < 0 {
		return notifier.Config{}, fmt.Errorf("telegram.rate_per_sec must be >= 0")
	}
	sendTimeout, err := config.ParseDurationOrDefault("telegram.send_timeout", cfg.Telegram.SendTimeout, 15*time.Second)
	if err != nil {
		return notifier.Config{}, err
	}
	return notifier.Config{
		Target:         kit.ChatTarget{Chat: creds.TelegramChatID},
		RatePerSec:     cfg.Telegram.RatePerSec,
		DisablePreview: cfg.Telegram.DisablePreview,
		SendTimeout:    sendTimeout,
	}, nil
}
