// internal/adapters/scorer/client.go
package scorer

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client scores text against a hosted sentiment model over HTTP. The model
// is chosen once at startup (see Select); after that the client is safe for
// concurrent use and keeps no per-call state.
type Client struct {
	base  string
	model string
	hc    *http.Client
	key   string
	rl    *rate.Limiter
}

func New(base, key, model string, rps int) (*Client, error) {
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		model: model,
		hc:    &http.Client{Timeout: 20 * time.Second},
		key:   key,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Select builds a client for the preferred model, probing it once; when the
// probe fails it falls back to the default model. The substitution happens
// here and nowhere else — callers never see which model answered.
func Select(ctx context.Context, base, key, preferred, fallback string, rps int) (*Client, error) {
	c, err := New(base, key, preferred, rps)
	if err != nil {
		return nil, err
	}
	if err := c.Probe(ctx); err == nil {
		log.Info().Str("model", preferred).Msg("sentiment model selected")
		return c, nil
	} else {
		log.Warn().Err(err).Str("model", preferred).Str("fallback", fallback).
			Msg("preferred model unavailable, using fallback")
	}
	c, err = New(base, key, fallback, rps)
	if err != nil {
		return nil, err
	}
	if err := c.Probe(ctx); err != nil {
		return nil, fmt.Errorf("fallback model %s unavailable: %w", fallback, err)
	}
	log.Info().Str("model", fallback).Msg("sentiment model selected")
	return c, nil
}

// Model reports which model the client ended up bound to.
func (c *Client) Model() string { return c.model }

// Probe checks that the bound model is loaded and answering.
func (c *Client) Probe(ctx context.Context) error {
	var out map[string]any
	return c.do(ctx, http.MethodGet, c.base+"/models/"+c.model, nil, &out)
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Score sends one classification request and returns the top-ranked label
// with its score. Labels come back verbatim; remapping is the caller's job.
func (c *Client) Score(ctx context.Context, text string) (string, float64, error) {
	body, err := json.Marshal(map[string]any{"inputs": text})
	if err != nil {
		return "", 0, err
	}

	// The endpoint answers [[{label,score},...]] for single inputs; some
	// deployments flatten to [{label,score},...]. Accept both.
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, c.base+"/models/"+c.model, body, &raw); err != nil {
		return "", 0, err
	}
	var nested [][]candidate
	var flat []candidate
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		flat = nested[0]
	} else if err := json.Unmarshal(raw, &flat); err != nil {
		return "", 0, fmt.Errorf("unexpected score payload: %s", trimPayload(raw))
	}
	if len(flat) == 0 {
		return "", 0, errors.New("empty score payload")
	}
	top := flat[0]
	for _, cand := range flat[1:] {
		if cand.Score > top.Score {
			top = cand
		}
	}
	return top.Label, top.Score, nil
}

// ---- Internals ----

var (
	ErrModelNotFound = errors.New("scorer: model not found")
	ErrUnauthorized  = errors.New("scorer: unauthorized")
	ErrForbidden     = errors.New("scorer: forbidden")
)

// do performs one request with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After.
func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		var rdr io.Reader
		if body != nil {
			rdr = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rdr)
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("Authorization", "Bearer "+c.key)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("User-Agent", "starcuak/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrModelNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

func trimPayload(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
