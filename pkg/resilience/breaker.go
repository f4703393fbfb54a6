package resilience

import (
	"context"
	"errors"

	"github.com/richxcame/fx-gateway/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when a breaker rejects a call without invoking
// the wrapped operation.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Operation is a unit of work executed through a breaker or retry policy.
type Operation func(ctx context.Context) (interface{}, error)

// CircuitBreaker wraps sony/gobreaker with fallback handling and metrics.
// One instance guards one logical operation; failures in one breaker never
// trip another.
type CircuitBreaker struct {
	name     string
	cb       *gobreaker.CircuitBreaker
	fallback FallbackFunc
}

// NewCircuitBreaker builds a breaker from Settings. The breaker trips when at
// least FailureThreshold calls completed within the Interval window and at
// least half of them failed. While open, calls are rejected until Timeout
// elapses; then a single trial call is admitted (half-open). The trial
// admission is guarded by gobreaker's internal state lock, so concurrent
// callers cannot both become the trial.
func NewCircuitBreaker(settings Settings, fallback FallbackFunc) *CircuitBreaker {
	name := nextBreakerName(settings.Name)
	if fallback == nil {
		fallback = NoopFallback
	}

	failureThreshold := settings.FailureThreshold
	if failureThreshold == 0 {
		failureThreshold = 5
	}
	maxRequests := settings.SuccessThreshold
	if maxRequests == 0 {
		maxRequests = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: maxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < failureThreshold {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			recordBreakerStateChange(name, from, to)
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	b := &CircuitBreaker{name: name, cb: cb, fallback: fallback}
	recordBreakerState(name, cb.State())
	return b
}

// Execute runs op through the breaker. Rejections (open state, or a second
// caller arriving during the half-open trial) invoke the fallback with
// ErrCircuitOpen; the operation is never called in that case.
func (b *CircuitBreaker) Execute(ctx context.Context, op Operation) (interface{}, error) {
	recordBreakerRequest(b.name)

	result, err := b.cb.Execute(func() (interface{}, error) {
		return op(ctx)
	})
	if err == nil {
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		recordBreakerFallback(b.name)
		return b.fallback(ctx, ErrCircuitOpen)
	}

	recordBreakerFailure(b.name)
	return nil, err
}

// Name returns the breaker's registered name.
func (b *CircuitBreaker) Name() string {
	return b.name
}

// State reports the breaker's current state.
func (b *CircuitBreaker) State() gobreaker.State {
	return b.cb.State()
}
