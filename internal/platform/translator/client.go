package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/literacy-backend/internal/observability"
	"github.com/yungbote/literacy-backend/internal/platform/httpx"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

// Client translates one text per call.
type Client interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}

type client struct {
	log        *logger.Logger
	cfg        Config
	dialect    dialect
	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	cfg = cfg.withDefaults()
	d, err := dialectFor(cfg.Provider)
	if err != nil {
		return nil, err
	}
	if cfg.Provider != DialectLibreTranslate && cfg.APIKey == "" {
		log.Warn("translation provider has no API key configured", "provider", cfg.Provider)
	}
	return &client{
		log:        log.With("client", "TranslationProvider", "provider", cfg.Provider),
		cfg:        cfg,
		dialect:    d,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		sleep:      httpx.Sleep,
	}, nil
}

func (c *client) Name() string { return c.cfg.Provider }

// Translate retries throttled (429) and transport failures up to MaxAttempts
// with linear backoff. Any other failure returns on the first attempt.
func (c *client) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	body := c.dialect.body(c.cfg, text, source, target)

	var lastErr error
	var lastStatus int
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", c.fail(attempt-1, lastStatus, err)
		}

		start := time.Now()
		resp, raw, err := c.doOnce(ctx, body)
		metrics := observability.Current()
		metrics.ObserveProviderRequest(c.cfg.Provider, statusLabel(resp, err), time.Since(start))

		if err == nil {
			out, pErr := c.dialect.parse(raw)
			if pErr != nil {
				return "", c.fail(attempt, resp.StatusCode, pErr)
			}
			return out, nil
		}

		lastErr = err
		lastStatus = 0
		if resp != nil {
			lastStatus = resp.StatusCode
		}
		retryable, reason := classify(err)
		if !retryable || ctx.Err() != nil {
			return "", c.fail(attempt, lastStatus, err)
		}
		if attempt == c.cfg.MaxAttempts {
			break
		}

		sleepFor := time.Duration(attempt) * c.cfg.Backoff
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			sleepFor = httpx.RetryAfterDuration(resp, sleepFor, c.cfg.MaxRetryAfter)
		}
		metrics.IncProviderRetry(c.cfg.Provider, reason)
		c.log.Warn("translation request retrying",
			"attempt", attempt,
			"max_attempts", c.cfg.MaxAttempts,
			"sleep", sleepFor.String(),
			"target", target,
			"error", err.Error(),
		)
		if sErr := c.sleep(ctx, sleepFor); sErr != nil {
			return "", c.fail(attempt, lastStatus, sErr)
		}
	}

	pe := c.fail(c.cfg.MaxAttempts, lastStatus, lastErr)
	pe.RateLimited = lastStatus == http.StatusTooManyRequests
	return "", pe
}

func (c *client) fail(attempts, status int, err error) *ProviderError {
	pe := &ProviderError{
		Provider:   c.cfg.Provider,
		StatusCode: status,
		Attempts:   attempts,
		Err:        err,
	}
	var se *statusError
	if errors.As(err, &se) {
		pe.Body = se.body
		pe.Err = nil
	}
	return pe
}

func (c *client) doOnce(ctx context.Context, body any) (*http.Response, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+c.dialect.path(), bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range c.dialect.headers(c.cfg.APIKey) {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		// Headers arrived but the body did not; treat it like any other
		// transport failure rather than a response with a status.
		return nil, nil, fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &statusError{code: resp.StatusCode, body: truncate(string(raw), 512)}
	}
	return resp, raw, nil
}

// classify reports whether a failed attempt may be retried.
func classify(err error) (bool, string) {
	var se *statusError
	if errors.As(err, &se) {
		if se.code == http.StatusTooManyRequests {
			return true, "rate_limited"
		}
		return false, ""
	}
	if httpx.IsTransportError(err) {
		return true, "transport"
	}
	return false, ""
}

func statusLabel(resp *http.Response, err error) string {
	if resp != nil {
		return strconv.Itoa(resp.StatusCode)
	}
	if err != nil {
		return "error"
	}
	return "0"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + fmt.Sprintf("...(%d bytes)", len(s))
}
