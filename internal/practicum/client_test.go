package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollSendsAuthAndFromDate(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/user_api/homework_statuses/", r.URL.Path)
		assert.Equal(t, "OAuth secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "1700000000", r.URL.Query().Get("from_date"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"homeworks":    []any{map[string]any{"homework_name": "proj1", "status": "approved"}},
			"current_date": 1700000600,
		})
	}))
	defer server.Close()

	c := NewClient("secret-token", WithEndpoint(server.URL+"/api/user_api/homework_statuses/"))
	got, err := c.Poll(context.Background(), 1700000000)
	require.NoError(t, err)

	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("1700000600"), m["current_date"])
	list, ok := m["homeworks"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestPollNon200IsServerUnavailable(t *testing.T) {
	t.Parallel()
	for _, code := range []int{http.StatusInternalServerError, http.StatusUnauthorized, http.StatusNoContent, http.StatusNotFound} {
		code := code
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			// A body that would fail to decode: proves it is never read.
			_, _ = w.Write([]byte("<html>oops"))
		}))

		_, err := NewClient("t", WithEndpoint(server.URL)).Poll(context.Background(), 0)
		server.Close()

		require.ErrorIs(t, err, ErrServerUnavailable, "status %d", code)
		var te *TransportError
		assert.False(t, errors.As(err, &te), "status %d must not be a transport error", code)
	}
}

func TestPollTransportFailure(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // connection refused from now on

	_, err := NewClient("t", WithEndpoint(url)).Poll(context.Background(), 0)
	require.Error(t, err)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.NotNil(t, te.Unwrap())
	assert.False(t, errors.Is(err, ErrServerUnavailable))
}

func TestPollTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewClient("t", WithEndpoint(server.URL), WithTimeout(50*time.Millisecond))
	_, err := c.Poll(context.Background(), 0)
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestPollUndecodableBody(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient("t", WithEndpoint(server.URL)).Poll(context.Background(), 0)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "decode response")
}

func TestPollNonObjectBodyIsReturned(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1, 2]`))
	}))
	defer server.Close()

	got, err := NewClient("t", WithEndpoint(server.URL)).Poll(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, got)
}

func TestPollRejectsNegativeFromDate(t *testing.T) {
	t.Parallel()
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := NewClient("t", WithEndpoint(server.URL)).Poll(context.Background(), -1)
	require.Error(t, err)
	assert.False(t, called)
}

func TestDefaultClient(t *testing.T) {
	t.Parallel()
	c := NewClient("t")
	assert.Equal(t, DefaultEndpoint, c.endpoint)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}
