package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule(t *testing.T) {
	t.Parallel()
	from := time.Date(2024, 3, 1, 12, 3, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		next time.Time
	}{
		{"", from.Add(600 * time.Second)},
		{"600s", from.Add(10 * time.Minute)},
		{"10m", from.Add(10 * time.Minute)},
		{"00:10", from.Add(10 * time.Minute)},
		{"01:30", from.Add(90 * time.Minute)},
		{"every:30s", from.Add(30 * time.Second)},
		{"@every 5m", from.Add(5 * time.Minute)},
		{"CRON_TZ=UTC */10 * * * *", time.Date(2024, 3, 1, 12, 10, 0, 0, time.UTC)},
		{"cron:CRON_TZ=UTC 0 * * * *", time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)},
		{"CRON_TZ=UTC @hourly", time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		s, err := ParseSchedule(tc.raw)
		require.NoError(t, err, tc.raw)
		got := s.Next(from)
		assert.True(t, tc.next.Equal(got), "%s: got %s", tc.raw, got)
	}
}

func TestParseScheduleInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"abc", "0s", "-5m", "500ms", "cron:", "every:", "00:75", "* * *"} {
		_, err := ParseSchedule(raw)
		assert.Error(t, err, raw)
	}
}
