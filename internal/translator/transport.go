package translator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/valpere/transroute/internal/breaker"
)

const (
	maxAttempts       = 3
	initialBackoff    = 500 * time.Millisecond
	backoffMultiplier = 2
)

// transientStatus reports whether an HTTP status is worth retrying.
// Auth (401/403) and malformed-request (400) failures are not.
func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// doWithRetry paces requests through limiter and retries transient failures
// with exponential backoff. The request is rebuilt per attempt because a
// *http.Request body cannot be replayed. The caller owns the returned body.
func doWithRetry(ctx context.Context, client *http.Client, limiter *rate.Limiter, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	delay := initialBackoff

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			delay *= backoffMultiplier
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode < 400 {
			return resp, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()

		if !transientStatus(resp.StatusCode) {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		lastErr = fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil, fmt.Errorf("gave up after %d attempts: %w", maxAttempts, lastErr)
}

// callThrough routes fn through the provider's breaker when one is attached.
func callThrough(ctx context.Context, cb *breaker.CircuitBreaker, fn func(context.Context) error) error {
	if cb == nil {
		return fn(ctx)
	}
	return cb.Call(ctx, fn)
}
