package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sony/gobreaker"

	"lexingest/internal/metrics"
	"lexingest/internal/ratelimit"
	"lexingest/internal/retry"
)

// maxBodyBytes caps response reads; the largest judgments are a few tens of
// megabytes of XML.
const maxBodyBytes = 128 << 20

// Response is the decoded result of one fetch.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Text() string { return string(r.Body) }

// Options configures a Fetcher.
type Options struct {
	Client           *http.Client
	Limiter          *ratelimit.Limiter
	MaxRetries       int
	FailureThreshold uint32
	RecoveryTimeout  time.Duration
	CacheSize        int
	CacheTTL         time.Duration
	UserAgent        string
}

// Fetcher is the single outbound gateway to one canonical source. The rate
// limiter and breaker state are shared, so every worker observes one global
// delay.
type Fetcher struct {
	client  *http.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker
	retrier *retry.Retrier
	cache   *lru.LRU[string, *Response]
	ua      string
	logger  *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Fetcher {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 10
	}
	if opts.RecoveryTimeout <= 0 {
		opts.RecoveryTimeout = 300 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "fetch",
		MaxRequests: 1,
		Timeout:     opts.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// 404 and 429 mean the source is alive; only transport-level
			// failures and 5xx should trip the breaker.
			if err == nil || errors.Is(err, ErrNotFound) {
				return true
			}
			var rl *RateLimitedError
			return errors.As(err, &rl)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "from", from.String(), "to", to.String())
		},
	})

	retrier := retry.New(retry.Config{
		MaxAttempts:   opts.MaxRetries,
		BaseDelay:     time.Second,
		MaxDelay:      60 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.2,
		OnRetry:       metrics.FetchRetries.Inc,
	}, IsRetryable, logger)

	var cache *lru.LRU[string, *Response]
	if opts.CacheSize > 0 {
		cache = lru.NewLRU[string, *Response](opts.CacheSize, nil, opts.CacheTTL)
	}

	return &Fetcher{
		client:  opts.Client,
		limiter: opts.Limiter,
		breaker: breaker,
		retrier: retrier,
		cache:   cache,
		ua:      opts.UserAgent,
		logger:  logger,
	}
}

// Get fetches a URL through the rate limiter, breaker and retrier. Cached
// responses bypass all three.
func (f *Fetcher) Get(ctx context.Context, url string) (*Response, error) {
	if f.cache != nil {
		if resp, ok := f.cache.Get(url); ok {
			return resp, nil
		}
	}
	resp, err := f.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		f.cache.Add(url, resp)
	}
	return resp, nil
}

// Head issues a HEAD request; never cached.
func (f *Fetcher) Head(ctx context.Context, url string) (*Response, error) {
	return f.do(ctx, http.MethodHead, url)
}

func (f *Fetcher) do(ctx context.Context, method, url string) (*Response, error) {
	var resp *Response

	err := f.retrier.Do(ctx, func() error {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		result, err := f.breaker.Execute(func() (any, error) {
			return f.attempt(ctx, method, url)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %s", ErrBreakerOpen, url)
		}
		if err != nil {
			return err
		}
		resp = result.(*Response)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (f *Fetcher) attempt(ctx context.Context, method, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.ua != "" {
		req.Header.Set("User-Agent", f.ua)
	}

	httpResp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransientError{Err: err}
	}

	switch {
	case httpResp.StatusCode == http.StatusNotFound:
		if f.limiter != nil {
			f.limiter.RecordSuccess()
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)

	case httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode == 436:
		metrics.RateLimitHits.Inc()
		retryAfter := parseRetryAfter(httpResp.Header.Get("Retry-After"))
		if f.limiter != nil {
			f.limiter.RecordRateLimited(retryAfter)
		}
		return nil, &RateLimitedError{StatusCode: httpResp.StatusCode, RetryAfter: retryAfter}

	case httpResp.StatusCode >= 500:
		return nil, &TransientError{StatusCode: httpResp.StatusCode}

	case httpResp.StatusCode >= 400:
		return nil, fmt.Errorf("unexpected status %d for %s", httpResp.StatusCode, url)
	}

	if f.limiter != nil {
		f.limiter.RecordSuccess()
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
