package poller

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval is the pause between two polls.
const DefaultInterval = 600 * time.Second

var (
	reHHMM = regexp.MustCompile(`^\s*(\d{1,3}):(\d{2})\s*$`)

	cronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
)

// ParseSchedule turns a poll.interval value into a cron.Schedule.
//
// Supported forms:
//   - "" (default): every 600s
//   - Go duration: "600s", "10m"
//   - HH:MM interval: "00:10" (10 minutes)
//   - cron expression or descriptor: "*/10 * * * *", "@every 10m", "@hourly"
//
// The "cron:" and "every:" prefixes force one interpretation.
func ParseSchedule(raw string) (cron.Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return cron.Every(DefaultInterval), nil
	}

	low := strings.ToLower(s)
	switch {
	case strings.HasPrefix(low, "cron:"):
		return parseCron(strings.TrimSpace(s[len("cron:"):]))
	case strings.HasPrefix(low, "every:"):
		d, err := parseInterval(strings.TrimSpace(s[len("every:"):]))
		if err != nil {
			return nil, err
		}
		return cron.Every(d), nil
	}

	if strings.ContainsAny(s, " \t") || strings.HasPrefix(s, "@") {
		return parseCron(s)
	}

	d, err := parseInterval(s)
	if err != nil {
		return nil, fmt.Errorf("invalid poll schedule %q (use a duration like '600s', HH:MM like '00:10', or cron like '*/10 * * * *')", raw)
	}
	return cron.Every(d), nil
}

func parseCron(expr string) (cron.Schedule, error) {
	if expr == "" {
		return nil, fmt.Errorf("cron expression required")
	}
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return sched, nil
}

func parseInterval(v string) (time.Duration, error) {
	if v == "" {
		return 0, fmt.Errorf("interval required")
	}
	var (
		d   time.Duration
		err error
	)
	if m := reHHMM.FindStringSubmatch(v); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if mm > 59 {
			return 0, fmt.Errorf("invalid minutes in %q", v)
		}
		d = time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
	} else if d, err = time.ParseDuration(v); err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", v, err)
	}
	// cron.Every rounds below one second up to one second.
	if d < time.Second {
		return 0, fmt.Errorf("interval must be at least 1s")
	}
	return d, nil
}
