package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/fx-gateway/pkg/config"
)

// IdentityType distinguishes how a caller was identified.
type IdentityType int

const (
	// IdentityAnonymous keys the window by client IP.
	IdentityAnonymous IdentityType = iota
	// IdentityAuthenticated keys the window by principal id.
	IdentityAuthenticated
)

// Rule is the limit applied to one endpoint/identity combination.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Result describes the outcome of a limiter check.
type Result struct {
	Allowed      bool
	Remaining    int
	RetryAfter   time.Duration
	Limit        int
	Window       time.Duration
	ResetAfter   time.Duration
	IdentityKey  string
	EndpointKey  string
	IdentityType IdentityType
}

// fixedWindowScript counts requests in a wall-clock window. The first hit on
// a key starts the window by setting its expiry; the count and remaining
// window are returned together so the check is a single round trip.
const fixedWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`

// Limiter is a Redis-backed fixed-window rate limiter. Windows reset on wall
// clock; no coordination beyond the shared Redis instance is required.
type Limiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	script *redis.Script
	now    func() time.Time
}

// NewLimiter creates a limiter backed by the given Redis client.
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		cfg:    cfg,
		script: redis.NewScript(fixedWindowScript),
		now:    time.Now,
	}
}

// WithNow overrides the limiter's clock. Test hook.
func (l *Limiter) WithNow(now func() time.Time) {
	l.now = now
}

// ScriptHash returns the SHA1 of the window script. Test hook for mocking
// script execution.
func (l *Limiter) ScriptHash() string {
	return l.script.Hash()
}

// RuleFor resolves the limit for an endpoint and identity type.
func (l *Limiter) RuleFor(endpoint string, identity IdentityType) Rule {
	limit := l.cfg.DefaultLimit
	if identity == IdentityAnonymous {
		limit = l.cfg.AnonymousLimit
	}
	if limit < 0 {
		limit = 0
	}
	return Rule{
		Limit:  limit,
		Window: l.cfg.Window(),
	}
}

// Allow checks and consumes one request from the identity's window. The
// window is keyed by identity alone, so a caller shares one budget across
// every endpoint. A disabled limiter or a non-positive limit always allows.
// Redis errors are returned alongside an allowing result so callers can
// fail open.
func (l *Limiter) Allow(ctx context.Context, endpoint, identity string, rule Rule, identityType IdentityType) (Result, error) {
	result := Result{
		Allowed:      true,
		Limit:        rule.Limit,
		Window:       rule.Window,
		IdentityKey:  identity,
		EndpointKey:  endpoint,
		IdentityType: identityType,
	}

	if !l.cfg.Enabled || rule.Limit <= 0 {
		if rule.Limit > 0 {
			result.Remaining = rule.Limit
		}
		return result, nil
	}

	window := rule.Window
	if window <= 0 {
		window = l.cfg.Window()
		result.Window = window
	}

	key := fmt.Sprintf("%s:%s", l.cfg.RedisPrefix, identity)
	raw, err := l.script.Run(ctx, l.client, []string{key}, strconv.FormatInt(window.Milliseconds(), 10)).Result()
	if err != nil {
		result.Remaining = rule.Limit
		return result, err
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		result.Remaining = rule.Limit
		return result, fmt.Errorf("unexpected rate limit script reply: %v", raw)
	}

	count := toInt(values[0])
	ttlMs := toInt(values[1])
	if ttlMs > 0 {
		result.ResetAfter = time.Duration(ttlMs) * time.Millisecond
	}

	result.Remaining = rule.Limit - count
	if result.Remaining < 0 {
		result.Remaining = 0
	}

	if count > rule.Limit {
		result.Allowed = false
		result.RetryAfter = result.ResetAfter
	}

	return result, nil
}

func toInt(v interface{}) int {
	switch value := v.(type) {
	case int64:
		return int(value)
	case int:
		return value
	case float64:
		return int(value)
	case string:
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return 0
}
