package automation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

func observedCtx() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.ToContext(context.Background(), zap.New(core)), logs
}

func TestTrigger_ForwardsPayload(t *testing.T) {
	var gotBody []byte
	var gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProxy(ProxyDeps{WebhookURL: srv.URL, HTTPClient: srv.Client()})
	payload := json.RawMessage(`{"user_id":"u_1","schedule":[{"day":"Monday"}]}`)

	require.NoError(t, p.Trigger(context.Background(), payload))
	assert.Equal(t, "application/json", gotCT)
	assert.JSONEq(t, string(payload), string(gotBody))
}

func TestTrigger_Webhook500IsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, logs := observedCtx()
	p := NewProxy(ProxyDeps{WebhookURL: srv.URL, HTTPClient: srv.Client()})

	assert.NoError(t, p.Trigger(ctx, json.RawMessage(`{}`)))

	entries := logs.FilterMessage("webhook returned non-2xx").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(500), entries[0].ContextMap()["status"])
}

func TestTrigger_UnreachableIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	ctx, logs := observedCtx()
	p := NewProxy(ProxyDeps{WebhookURL: url, Timeout: time.Second})

	assert.NoError(t, p.Trigger(ctx, json.RawMessage(`{}`)))
	assert.Equal(t, 1, logs.FilterMessage("webhook unreachable").Len())
}

func TestTrigger_NotConfigured(t *testing.T) {
	p := NewProxy(ProxyDeps{})
	assert.False(t, p.Configured())

	err := p.Trigger(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrDispatch)
}

func TestTrigger_BadURL(t *testing.T) {
	p := NewProxy(ProxyDeps{WebhookURL: "http://[::1"})
	err := p.Trigger(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrDispatch)
}

func TestTrigger_Throttled(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	ctx, logs := observedCtx()
	p := NewProxy(ProxyDeps{WebhookURL: srv.URL, Timeout: 50 * time.Millisecond, PerSecond: 1, HTTPClient: srv.Client()})

	require.NoError(t, p.Trigger(ctx, json.RawMessage(`{}`)))
	require.NoError(t, p.Trigger(ctx, json.RawMessage(`{}`)))

	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, logs.FilterMessage("webhook dispatch throttled").Len())
}
