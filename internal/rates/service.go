package rates

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/richxcame/fx-gateway/pkg/cache"
	"github.com/richxcame/fx-gateway/pkg/pagination"
	"github.com/richxcame/fx-gateway/pkg/resilience"
)

const (
	// DefaultBase is the base currency assumed when none is supplied.
	DefaultBase = "EUR"
	// DefaultQuote is the quote currency assumed for history when none is
	// supplied.
	DefaultQuote = "USD"
)

// ExcludedCurrencies cannot take part in conversions.
var ExcludedCurrencies = []string{"TRY", "PLN", "THB", "MXN"}

var excludedSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ExcludedCurrencies))
	for _, code := range ExcludedCurrencies {
		set[code] = struct{}{}
	}
	return set
}()

// Breakers groups the per-operation circuit breakers injected into the
// service. Each logical upstream operation fails independently.
type Breakers struct {
	Latest  *resilience.CircuitBreaker
	Convert *resilience.CircuitBreaker
	History *resilience.CircuitBreaker
}

// TTLs groups the cache lifetimes per data class.
type TTLs struct {
	Latest  time.Duration
	History time.Duration
}

// Service composes the provider with the resilience and caching layers:
// cache-aside on the outside, breaker inside it, retry inside the breaker's
// compute, provider at the bottom.
type Service struct {
	provider Provider
	store    cache.Store
	breakers Breakers
	retryCfg resilience.RetryConfig
	ttls     TTLs
}

// NewService wires the rates service.
func NewService(provider Provider, store cache.Store, breakers Breakers, retryCfg resilience.RetryConfig, ttls TTLs) *Service {
	if retryCfg.RetryableChecker == nil {
		retryCfg.RetryableChecker = IsTransientUpstreamError
	}
	return &Service{
		provider: provider,
		store:    store,
		breakers: breakers,
		retryCfg: retryCfg,
		ttls:     ttls,
	}
}

// GetLatestRates returns the current snapshot for a base currency. An empty
// base defaults to EUR.
func (s *Service) GetLatestRates(ctx context.Context, base string) (*RateSnapshot, error) {
	base = normalizeCode(base, DefaultBase)
	key := fmt.Sprintf("rates:latest:%s", base)

	return cache.GetOrCompute(ctx, s.store, key, s.ttls.Latest,
		func(ctx context.Context) (*RateSnapshot, error) {
			result, err := resilience.RetryWithBreaker(ctx, s.retryCfg, s.breakers.Latest,
				func(ctx context.Context) (interface{}, error) {
					return s.provider.FetchLatest(ctx, base)
				})
			if err != nil {
				return nil, err
			}
			return result.(*RateSnapshot), nil
		})
}

// Convert converts amount between two currencies. The exclusion policy runs
// before any cache or upstream work; converted amounts are rounded to 4
// decimal places.
func (s *Service) Convert(ctx context.Context, from, to string, amount float64) (*ConversionResult, error) {
	from = normalizeCode(from, "")
	to = normalizeCode(to, "")

	for _, code := range []string{from, to} {
		if _, excluded := excludedSet[code]; excluded {
			return nil, &ExcludedCurrencyError{Currency: code, Excluded: ExcludedCurrencies}
		}
	}

	key := fmt.Sprintf("rates:convert:%s:%s:%s", from, to, strconv.FormatFloat(amount, 'f', -1, 64))

	return cache.GetOrCompute(ctx, s.store, key, s.ttls.Latest,
		func(ctx context.Context) (*ConversionResult, error) {
			result, err := resilience.RetryWithBreaker(ctx, s.retryCfg, s.breakers.Convert,
				func(ctx context.Context) (interface{}, error) {
					return s.provider.FetchConversion(ctx, amount, from, to)
				})
			if err != nil {
				return nil, err
			}
			conversion := result.(*ConversionResult)
			conversion.Converted = round4(conversion.Converted)
			return conversion, nil
		})
}

// HistoryPage is one page of a historical series.
type HistoryPage struct {
	Base   string
	Quote  string
	Start  string
	End    string
	Points []RatePoint
	Meta   pagination.Meta
}

// GetHistoricalRates returns one page of the rate series for a currency pair.
// The full series is fetched and cached once; pages are derived slices, so a
// page past the end is an empty page, not an error.
func (s *Service) GetHistoricalRates(ctx context.Context, base, quote, start, end string, params pagination.Params) (*HistoryPage, error) {
	base = normalizeCode(base, DefaultBase)
	quote = normalizeCode(quote, DefaultQuote)

	key := fmt.Sprintf("rates:history:%s:%s:%s:%s", base, quote, start, end)

	series, err := cache.GetOrCompute(ctx, s.store, key, s.ttls.History,
		func(ctx context.Context) (*HistoricalSeries, error) {
			result, err := resilience.RetryWithBreaker(ctx, s.retryCfg, s.breakers.History,
				func(ctx context.Context) (interface{}, error) {
					return s.provider.FetchHistory(ctx, base, quote, start, end)
				})
			if err != nil {
				return nil, err
			}
			return result.(*HistoricalSeries), nil
		})
	if err != nil {
		return nil, err
	}

	return &HistoryPage{
		Base:   series.Base,
		Quote:  series.Quote,
		Start:  series.Start,
		End:    series.End,
		Points: pagination.Slice(series.Points, params),
		Meta:   pagination.BuildMeta(params.Page, params.Limit, len(series.Points)),
	}, nil
}

func normalizeCode(code, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fallback
	}
	return code
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
