package logx

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(ln), &m), ln)
		out = append(out, m)
	}
	return out
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m), sc.Text())
		n++
	}
	require.NoError(t, sc.Err())
	return n
}

func TestJSONLoggerFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewJSON(&buf, "debug").With(String("comp", "test"))

	log.Info("hello", Int("n", 3), Err(errors.New("bad")), Bool("ok", true), Err(nil))
	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "hello", got[0]["message"])
	assert.Equal(t, "test", got[0]["comp"])
	assert.EqualValues(t, 3, got[0]["n"])
	assert.Equal(t, "bad", got[0]["err"])
	assert.Equal(t, true, got[0]["ok"])
	assert.Contains(t, got[0]["caller"], "logging_test.go:")
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewJSON(&buf, "warn")
	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")
	log.Fatal("also shown")

	got := lines(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "warn", got[0]["level"])
	assert.Equal(t, "fatal", got[1]["level"])
}

func TestZeroLoggerIsSafe(t *testing.T) {
	t.Parallel()
	var log Logger
	assert.True(t, log.IsZero())
	assert.NotPanics(t, func() { log.Error("nothing", String("k", "v")) })
	assert.False(t, Nop().IsZero())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		" DEBUG ":  zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"critical": zerolog.FatalLevel,
		"fatal":    zerolog.FatalLevel,
		"bogus":    zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in, zerolog.InfoLevel), in)
	}
}

func TestServiceApplyFileSink(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bot.log")
	svc, log := New(Config{Level: "info", File: FileConfig{Enabled: true, Path: path}})
	t.Cleanup(func() { _ = svc.Close() })

	log.Debug("skipped")
	log.Info("kept")

	svc.Apply(Config{Level: "debug", File: FileConfig{Enabled: true, Path: path}})
	log.Debug("now kept")
	assert.Equal(t, "debug", svc.Config().Level)
	require.NoError(t, svc.Close())
	assert.NotPanics(t, func() { log.Info("after close") })

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "now kept")
	assert.NotContains(t, out, "after close")
}

func TestApplyDuringConcurrentLogging(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "a.log"), filepath.Join(dir, "b.log")}
	svc, log := New(Config{Level: "info", File: FileConfig{Enabled: true, Path: paths[0]}})

	const writers, perWriter = 4, 200
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				log.Info("line", String("id", fmt.Sprintf("%d-%d", w, i)))
			}
		}()
	}
	for i := range 50 {
		svc.Apply(Config{Level: "info", File: FileConfig{Enabled: true, Path: paths[i%2]}})
	}
	wg.Wait()
	require.NoError(t, svc.Close())

	// every record lands in one of the files, none is lost to a closed handle
	assert.Equal(t, writers*perWriter, countLines(t, paths[0])+countLines(t, paths[1]))
}
