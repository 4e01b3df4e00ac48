// Package crossref implements a polite, resilient client for the Crossref
// REST API: admission control, retry with backoff and jitter, and typed
// bibliographic metadata for a single-work lookup.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/citeworks/doimeta/doi"
	"github.com/citeworks/doimeta/logger"
	"github.com/citeworks/doimeta/ratelimit"
	"github.com/citeworks/doimeta/retry"
)

// Client fetches work metadata from the Crossref REST API. It owns the
// admission limiter and the underlying connection pool for its lifetime and
// is safe for concurrent use; any number of FetchMetadata calls may be in
// flight at once.
type Client struct {
	httpClient *nethttp.Client
	logger     logger.Logger
	config     *Config
	limiter    *ratelimit.Limiter
	policy     *retry.Policy
}

// NewClient creates a client from cfg. Zero-valued settings take their
// documented defaults; the rate/concurrency pair is auto-selected from
// polite-pool membership unless overridden.
func NewClient(cfg Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.Disabled()
	}
	return &Client{
		httpClient: &nethttp.Client{
			Timeout: cfg.timeout(),
		},
		logger:  log,
		config:  &cfg,
		limiter: ratelimit.New(cfg.rateLimit(), cfg.concurrency()),
		policy: &retry.Policy{
			MaxRetries: cfg.RetryMax,
			MinBackoff: cfg.RetryMinBackoff,
			MaxBackoff: cfg.RetryMaxBackoff,
			Jitter:     cfg.RetryJitter,
		},
	}
}

// attemptResult carries one attempt's record plus whatever the attempt
// produced: a decoded response on success, the raw body for diagnostics, or
// an immediately-fatal error that bypasses classification.
type attemptResult struct {
	attempt retry.Attempt
	resp    *Response
	body    []byte
	fatal   error
}

// FetchMetadata retrieves the full bibliographic record for d.
//
// Each attempt passes through the shared admission limiter before dispatch.
// Throttled (429) and server-error responses are retried with backoff until
// the configured budget runs out, honoring Retry-After when present; any
// other non-2xx status and malformed 2xx bodies surface immediately. A
// caller-imposed deadline aborts the in-flight attempt without a further
// retry.
func (c *Client) FetchMetadata(ctx context.Context, d doi.DOI) (*Response, error) {
	endpoint := c.requestURL(d)
	requestID := uuid.NewString()
	log := c.logger.WithFields(map[string]any{"request_id": requestID, "doi": d.Canonical})

	var lastCause error
	for attemptNum := 1; ; attemptNum++ {
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, NewTransportError("admission wait aborted", err)
		}

		res := c.do(ctx, endpoint, requestID, attemptNum, log)
		c.limiter.Release()

		if res.fatal != nil {
			return nil, res.fatal
		}

		decision := c.policy.Decide(res.attempt)
		switch {
		case decision.Outcome == retry.Success:
			return res.resp, nil

		case decision.Outcome == retry.Fatal:
			log.Warn().Int("status", res.attempt.StatusCode).Msg("crossref request rejected")
			return nil, c.statusError(res.attempt.StatusCode, res.body)

		case ctx.Err() != nil:
			// Cancellation wins over the retry policy.
			return nil, NewTransportError("request cancelled", ctx.Err())

		case decision.Exhausted:
			return nil, NewRetryExhaustedError(attemptNum, c.retryableCause(res, lastCause))

		default:
			lastCause = c.retryableCause(res, lastCause)
			log.Debug().
				Int("attempt", attemptNum).
				Dur("delay", decision.Delay).
				Msg("retrying crossref request")
			if err := c.policy.Wait(ctx, decision.Delay); err != nil {
				return nil, NewTransportError("backoff wait aborted", err)
			}
		}
	}
}

// do executes a single attempt.
func (c *Client) do(ctx context.Context, endpoint, requestID string, number int, log logger.Logger) attemptResult {
	res := attemptResult{attempt: retry.Attempt{Number: number, StartedAt: c.policy.Now()}}

	httpReq, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, endpoint, nil)
	if err != nil {
		res.fatal = NewTransportError("failed to create HTTP request", err)
		return res
	}
	c.applyHeaders(httpReq, requestID)

	log.Info().
		Str("direction", "outbound").
		Str("method", nethttp.MethodGet).
		Str("url", endpoint).
		Int("attempt", number).
		Msg("crossref request")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		res.attempt.Err = err
		log.Warn().Err(err).Int("attempt", number).Msg("crossref attempt failed")
		return res
	}
	defer httpResp.Body.Close()

	res.attempt.StatusCode = httpResp.StatusCode
	if retryAfter, ok := retry.ParseRetryAfter(httpResp.Header.Get("Retry-After"), c.policy.Now()); ok {
		res.attempt.RetryAfter = retryAfter
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		res.attempt.StatusCode = 0
		res.attempt.Err = err
		return res
	}
	res.body = body

	log.Info().
		Str("direction", "inbound").
		Int("status", httpResp.StatusCode).
		Dur("elapsed", c.policy.Now().Sub(res.attempt.StartedAt)).
		Msg("crossref response")

	if retry.Classify(res.attempt.StatusCode, nil) != retry.Success {
		return res
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		res.fatal = NewDeserializeError("response body does not match the works schema", err)
		return res
	}
	res.resp = &resp
	return res
}

// requestURL builds the lookup endpoint with the contact address attached.
func (c *Client) requestURL(d doi.DOI) string {
	query := url.Values{"mailto": []string{c.config.mailto()}}
	return fmt.Sprintf("%s/works/%s?%s", c.config.baseURL(), d.Canonical, query.Encode())
}

// applyHeaders attaches the identity header when an identity name is
// configured; the contact address rides along in registry-recognized
// "mailto:" form. Without an identity name no User-Agent is set, even when
// a contact address exists.
func (c *Client) applyHeaders(httpReq *nethttp.Request, requestID string) {
	httpReq.Header.Set("X-Request-ID", requestID)
	if agent := c.config.userAgent(); agent != "" {
		httpReq.Header.Set("User-Agent", fmt.Sprintf("%s mailto:%s", agent, c.config.mailto()))
	}
}

func (c *Client) statusError(statusCode int, body []byte) error {
	return NewHTTPError(
		fmt.Sprintf("crossref request failed with status %d", statusCode),
		statusCode,
		body,
	)
}

// retryableCause describes the newest retryable failure, falling back to
// the previous one when the attempt carried neither status nor error.
func (c *Client) retryableCause(res attemptResult, previous error) error {
	a := res.attempt
	switch {
	case a.Err != nil && c.isTimeout(a.Err):
		return NewTimeoutError("attempt timed out", c.config.timeout())
	case a.Err != nil:
		return NewTransportError("attempt failed", a.Err)
	case a.StatusCode != 0:
		return c.statusError(a.StatusCode, res.body)
	}
	return previous
}

func (c *Client) isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
