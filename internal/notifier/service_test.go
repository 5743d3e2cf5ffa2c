package notifier

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kit "homeworkbot/internal/transport"
	logx "homeworkbot/pkg/logx"
)

type fakeSender struct {
	mu    sync.Mutex
	texts []string
	to    []kit.ChatTarget
	err   error
}

func (f *fakeSender) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return kit.MessageRef{}, f.err
	}
	f.texts = append(f.texts, text)
	f.to = append(f.to, to)
	return kit.MessageRef{MessageID: len(f.texts)}, nil
}

func TestSendDelivers(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	s := New(Config{Target: kit.ChatTarget{Chat: "42"}, RatePerSec: 100}, fs, logx.Nop())

	require.NoError(t, s.Send(context.Background(), "hello"))
	assert.Equal(t, []string{"hello"}, fs.texts)
	assert.Equal(t, "42", fs.to[0].Chat)

	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, "hello", h[0].Text)
	assert.Equal(t, 1, h[0].MessageID)
}

func TestSendClassifiesFailures(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	s := New(Config{RatePerSec: 100}, fs, logx.Nop())

	for _, text := range []string{"", "   \n", string([]byte{0xff, 0xfe})} {
		err := s.Send(context.Background(), text)
		assert.ErrorIs(t, err, ErrInvalidPayload, "%q", text)
		assert.NotErrorIs(t, err, ErrChannel)
	}
	assert.Empty(t, fs.texts)

	backend := errors.New("telegram: chat not found (400)")
	fs.err = backend
	err := s.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrChannel)
	assert.ErrorIs(t, err, backend)
	assert.Empty(t, s.History())
}

func TestNotifySwallowsErrors(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	fs := &fakeSender{err: errors.New("boom")}
	s := New(Config{RatePerSec: 100}, fs, logx.NewJSON(&buf, "debug"))

	assert.NotPanics(t, func() {
		s.Notify(context.Background(), "hello")
		s.Notify(context.Background(), "")
	})
	out := buf.String()
	assert.Contains(t, out, `"kind":"channel"`)
	assert.Contains(t, out, `"kind":"invalid_payload"`)
	assert.Contains(t, out, `"level":"error"`)
}

func TestNotifyWithoutSender(t *testing.T) {
	t.Parallel()
	s := New(Config{}, nil, logx.Nop())
	assert.ErrorIs(t, s.Send(context.Background(), "x"), ErrChannel)
	assert.NotPanics(t, func() { s.Notify(context.Background(), "x") })
}

func TestSendRespectsCancelledContext(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	s := New(Config{RatePerSec: 1, SendTimeout: time.Second}, fs, logx.Nop())
	// drain the single token
	require.NoError(t, s.Send(context.Background(), "first"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Send(ctx, "second")
	assert.ErrorIs(t, err, ErrChannel)
	assert.Equal(t, []string{"first"}, fs.texts)
}

func TestHistoryIsBounded(t *testing.T) {
	t.Parallel()
	s := New(Config{RatePerSec: 1000, HistorySize: 3}, &fakeSender{}, logx.Nop())
	for _, txt := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Send(context.Background(), txt))
	}
	h := s.History()
	require.Len(t, h, 3)
	assert.Equal(t, "c", h[0].Text)
	assert.Equal(t, "e", h[2].Text)
}
