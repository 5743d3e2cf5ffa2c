package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := NewConfigManager("").Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultEndpoint, cfg.ReviewAPI.Endpoint)
	assert.Equal(t, "600s", cfg.Poll.Interval)
}

func TestLoadYAMLKeepsDefaultsForOmittedKeys(t *testing.T) {
	t.Parallel()
	p := writeFile(t, t.TempDir(), "bot.yaml", `
review_api:
  timeout: 5s
  from_date: 0
poll:
  interval: "*/10 * * * *"
logging:
  level: info
  console: true
`)
	cfg, err := NewConfigManager(p).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, cfg.ReviewAPI.Endpoint)
	assert.Equal(t, "5s", cfg.ReviewAPI.Timeout)
	require.NotNil(t, cfg.ReviewAPI.FromDate)
	assert.Equal(t, int64(0), *cfg.ReviewAPI.FromDate)
	assert.Equal(t, "*/10 * * * *", cfg.Poll.Interval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1, cfg.Telegram.RatePerSec)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for name, body := range map[string]string{
		"a.json": `{"review_api":{"endpoint":"http://x"},"token":"leak"}`,
		"b.yaml": "poll:\n  every: 10m\n",
		"c.json": `{"poll":{}} {"poll":{}}`,
	} {
		_, err := NewConfigManager(writeFile(t, dir, name, body)).Load()
		assert.Error(t, err, name)
	}
}

func TestReloadPublishesOnlyOnChange(t *testing.T) {
	t.Parallel()
	p := writeFile(t, t.TempDir(), "bot.json", `{"logging":{"level":"debug","console":true}}`)
	m := NewConfigManager(p)
	_, err := m.Load()
	require.NoError(t, err)
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	changed, err := m.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(p, []byte(`{"logging":{"level":"warn","console":true}}`), 0o600))
	changed, err = m.Reload()
	require.NoError(t, err)
	assert.True(t, changed)

	select {
	case cfg := <-ch:
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, cfg, m.Get())
	case <-time.After(time.Second):
		t.Fatal("expected published config")
	}
}

func TestSummarizeConfigChange(t *testing.T) {
	t.Parallel()
	a := Default()
	b := Default()
	b.Logging.Level = "error"
	b.Poll.Interval = "5m"

	changed, attrs := SummarizeConfigChange(a, b)
	assert.Equal(t, []string{"poll", "logging"}, changed)
	assert.NotEmpty(t, attrs)

	changed, _ = SummarizeConfigChange(a, Default())
	assert.Empty(t, changed)
}

func TestParseDurationOrDefault(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationOrDefault("review_api.timeout", "", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	d, err = ParseDurationOrDefault("review_api.timeout", "2s", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	_, err = ParseDurationOrDefault("review_api.timeout", "-1s", time.Second)
	assert.Error(t, err)
	_, err = ParseDurationOrDefault("review_api.timeout", "soon", time.Second)
	assert.ErrorContains(t, err, "review_api.timeout")
}
