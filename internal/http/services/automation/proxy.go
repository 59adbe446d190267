// Package automation forwards events to the Make.com automation: the webhook
// proxy, the agent start/stop lifecycle and the scenario schedule sync.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/dropDatabas3/autolink/internal/metrics"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// ErrDispatch means the request could not be sent at all. Webhook rejections
// and network failures are not errors for the caller.
var ErrDispatch = errors.New("automation: cannot dispatch")

// ProxyDeps contains dependencies for the proxy.
type ProxyDeps struct {
	WebhookURL string
	Timeout    time.Duration
	// PerSecond limita los envíos salientes al webhook; 0 = sin límite.
	PerSecond  int
	HTTPClient *http.Client
}

// Proxy relays opaque JSON payloads to the configured webhook.
type Proxy struct {
	url      string
	timeout  time.Duration
	http     *http.Client
	throttle *rate.Limiter
}

func NewProxy(d ProxyDeps) *Proxy {
	p := &Proxy{url: d.WebhookURL, timeout: d.Timeout, http: d.HTTPClient}
	if p.timeout <= 0 {
		p.timeout = 10 * time.Second
	}
	if p.http == nil {
		p.http = &http.Client{}
	}
	if d.PerSecond > 0 {
		p.throttle = rate.NewLimiter(rate.Limit(d.PerSecond), d.PerSecond)
	}
	return p
}

// Configured reports whether a webhook URL is set.
func (p *Proxy) Configured() bool { return p.url != "" }

// Trigger POSTs payload to the webhook. It returns an error wrapping
// ErrDispatch only when the request cannot be built; every outcome after
// dispatch is logged, counted and reported as success.
func (p *Proxy) Trigger(ctx context.Context, payload json.RawMessage) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("automation.proxy"))

	if p.url == "" {
		metrics.ObserveDispatch(metrics.DispatchNoConfig)
		log.Error("webhook url not configured")
		return fmt.Errorf("%w: webhook url not configured", ErrDispatch)
	}
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.throttle != nil {
		if err := p.throttle.Wait(ctx); err != nil {
			metrics.ObserveDispatch(metrics.DispatchFailed)
			log.Warn("webhook dispatch throttled", logger.Err(err))
			return nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		metrics.ObserveDispatch(metrics.DispatchNoConfig)
		log.Error("build webhook request failed", logger.Err(err))
		return fmt.Errorf("%w: %v", ErrDispatch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.http.Do(req)
	if err != nil {
		metrics.ObserveDispatch(metrics.DispatchFailed)
		log.Warn("webhook unreachable", logger.Err(err), logger.DurationMs(time.Since(start)))
		return nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveDispatch(metrics.DispatchRejected)
		log.Warn("webhook returned non-2xx", logger.Status(resp.StatusCode), logger.DurationMs(time.Since(start)))
		return nil
	}
	metrics.ObserveDispatch(metrics.DispatchDelivered)
	log.Debug("webhook delivered", logger.Status(resp.StatusCode), logger.DurationMs(time.Since(start)))
	return nil
}
