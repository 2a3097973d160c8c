package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket: Requests per Window on average, with at
// most Burst requests admitted back to back.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Burst    int
}

// PerMinute allows n requests a minute, all of them available as a burst.
func PerMinute(n int) RateLimitConfig {
	return RateLimitConfig{Requests: n, Window: time.Minute, Burst: n}
}

func (c RateLimitConfig) isZero() bool { return c == RateLimitConfig{} }

func (c RateLimitConfig) validate() error {
	if c.Requests <= 0 || c.Window <= 0 || c.Burst <= 0 {
		return errors.New("requests, window and burst must be positive")
	}
	return nil
}

func (c RateLimitConfig) every() rate.Limit {
	return rate.Every(c.Window / time.Duration(c.Requests))
}

// RateLimits are the tiers routes pick from. A zero tier means the default.
type RateLimits struct {
	Strict   RateLimitConfig // credential and bootstrap endpoints
	Moderate RateLimitConfig // authenticated writes
	Lenient  RateLimitConfig // authenticated reads
	Public   RateLimitConfig // health probes
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   PerMinute(5),
		Moderate: PerMinute(20),
		Lenient:  PerMinute(100),
		Public:   PerMinute(1000),
	}
}

// WithDefaults fills every zero tier from DefaultRateLimits.
func (l RateLimits) WithDefaults() RateLimits {
	d := DefaultRateLimits()
	for _, t := range []struct{ got, def *RateLimitConfig }{
		{&l.Strict, &d.Strict},
		{&l.Moderate, &d.Moderate},
		{&l.Lenient, &d.Lenient},
		{&l.Public, &d.Public},
	} {
		if t.got.isZero() {
			*t.got = *t.def
		}
	}
	return l
}

func (l RateLimits) Validate() error {
	var errs []error
	for _, t := range []struct {
		name string
		cfg  RateLimitConfig
	}{
		{"strict", l.Strict},
		{"moderate", l.Moderate},
		{"lenient", l.Lenient},
		{"public", l.Public},
	} {
		if t.cfg.isZero() {
			continue
		}
		if err := t.cfg.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s rate limit: %w", t.name, err))
		}
	}
	return errors.Join(errs...)
}

// KeyExtractor picks the bucket a request is counted against. An empty key
// means the request is not limited.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor returns the client address, trusting the first
// X-Forwarded-For hop and then X-Real-IP when a proxy set them.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// UserIDKeyExtractor returns the authenticated subject, or "" before authn.
func UserIDKeyExtractor(r *http.Request) string {
	id, _ := r.Context().Value(CtxKeyUserID).(string)
	return id
}

// CompositeKeyExtractor joins the non-empty keys of every extractor with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, extract := range extractors {
			if k := extract(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

// JSONFieldKeyExtractor reads a top-level string field from a JSON body and
// puts the body back so the handler can decode it again. Use it for
// username-based login throttling.
func JSONFieldKeyExtractor(fieldName string) KeyExtractor {
	return func(r *http.Request) string {
		if r.Body == nil {
			return ""
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err != nil {
			return ""
		}

		var fields map[string]any
		if err := json.Unmarshal(body, &fields); err != nil {
			return ""
		}
		if v, ok := fields[fieldName].(string); ok {
			return strings.ToLower(strings.TrimSpace(v))
		}
		return ""
	}
}

// sweepEvery bounds how often idle buckets are dropped. Sweeping happens
// inline on lookup.
const sweepEvery = 5 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// buckets holds one limiter per key. A bucket idle for a full window has
// refilled, so dropping it loses nothing.
type buckets struct {
	cfg RateLimitConfig

	mu        sync.Mutex
	byKey     map[string]*bucket
	lastSweep time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	return &buckets{cfg: cfg, byKey: make(map[string]*bucket), lastSweep: time.Now()}
}

func (b *buckets) get(key string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastSweep) >= sweepEvery {
		for k, v := range b.byKey {
			if now.Sub(v.lastSeen) >= b.cfg.Window {
				delete(b.byKey, k)
			}
		}
		b.lastSweep = now
	}

	e, ok := b.byKey[key]
	if !ok {
		e = &bucket{lim: rate.NewLimiter(b.cfg.every(), b.cfg.Burst)}
		b.byKey[key] = e
	}
	e.lastSeen = now
	return e.lim
}

// retryAfter is the whole number of seconds, at least one, until lim admits
// another request.
func retryAfter(lim *rate.Limiter, now time.Time) int {
	res := lim.ReserveN(now, 1)
	defer res.CancelAt(now)
	return max(int(math.Ceil(res.DelayFrom(now).Seconds())), 1)
}

// RateLimitMiddleware answers 429 rate_limit_exceeded once the bucket for the
// request's key is empty.
func RateLimitMiddleware(cfg RateLimitConfig, key KeyExtractor) Middleware {
	set := newBuckets(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				slogx.FromContext(r.Context()).Warn("rate limit: no key for request, not limiting",
					"endpoint", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now()
			lim := set.get(k, now)
			if lim.AllowN(now, 1) {
				next.ServeHTTP(w, r)
				return
			}

			wait := retryAfter(lim, now)
			w.Header().Set("Retry-After", strconv.Itoa(wait))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", k,
				"endpoint", r.URL.Path,
				"retry_after", wait,
			)
			WriteError(w, http.StatusTooManyRequests, ErrorCodeRateLimitExceeded,
				"Too many requests. Please try again later.")
		})
	}
}

func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// RateLimitByUser keys on subject and client address. Unauthenticated
// requests fall back to the address alone.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":",
		UserIDKeyExtractor,
		IPKeyExtractor,
	))
}

// RateLimitByIPAndJSONField limits by IP + a JSON body field, e.g. login
// attempts per IP and username.
func RateLimitByIPAndJSONField(cfg RateLimitConfig, fieldName string) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":",
		IPKeyExtractor,
		JSONFieldKeyExtractor(fieldName),
	))
}
