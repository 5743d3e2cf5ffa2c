package config

import (
	"strings"

	logx "homeworkbot/pkg/logx"
)

// SummarizeConfigChange returns the changed top-level sections and safe
// structured fields describing the new values. Only the logging section is
// applied live; the caller warns about the rest.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 4)
	attrs := make([]logx.Field, 0, 8)

	o, n := oldCfg.ReviewAPI, newCfg.ReviewAPI
	if strings.TrimSpace(o.Endpoint) != strings.TrimSpace(n.Endpoint) ||
		strings.TrimSpace(o.Timeout) != strings.TrimSpace(n.Timeout) ||
		o.StaticFromDate != n.StaticFromDate ||
		!sameInt64Ptr(o.FromDate, n.FromDate) {
		changed = append(changed, "review_api")
		attrs = append(attrs,
			logx.String("review_api.endpoint", strings.TrimSpace(n.Endpoint)),
			logx.String("review_api.timeout", strings.TrimSpace(n.Timeout)),
		)
	}

	if strings.TrimSpace(oldCfg.Poll.Interval) != strings.TrimSpace(newCfg.Poll.Interval) {
		changed = append(changed, "poll")
		attrs = append(attrs, logx.String("poll.interval", strings.TrimSpace(newCfg.Poll.Interval)))
	}

	if oldCfg.Telegram != newCfg.Telegram {
		changed = append(changed, "telegram")
		attrs = append(attrs, logx.Int("telegram.rate_per_sec", newCfg.Telegram.RatePerSec))
	}

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	return changed, attrs
}

func sameInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
