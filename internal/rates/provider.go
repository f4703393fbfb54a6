package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Provider fetches exchange-rate data from an upstream source. Each call is
// one outbound request; retries and breaking happen above this layer.
type Provider interface {
	FetchLatest(ctx context.Context, base string) (*RateSnapshot, error)
	FetchConversion(ctx context.Context, amount float64, from, to string) (*ConversionResult, error)
	FetchHistory(ctx context.Context, base, quote, start, end string) (*HistoricalSeries, error)
}

// FrankfurterProvider talks to the Frankfurter API.
type FrankfurterProvider struct {
	baseURL string
	client  *http.Client
}

// NewFrankfurterProvider creates a provider for the given endpoint with a
// per-request timeout.
func NewFrankfurterProvider(baseURL string, timeout time.Duration) *FrankfurterProvider {
	return &FrankfurterProvider{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type latestResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

type historyResponse struct {
	Amount    float64                       `json:"amount"`
	Base      string                        `json:"base"`
	StartDate string                        `json:"start_date"`
	EndDate   string                        `json:"end_date"`
	Rates     map[string]map[string]float64 `json:"rates"`
}

// FetchLatest returns the current snapshot for a base currency.
func (p *FrankfurterProvider) FetchLatest(ctx context.Context, base string) (*RateSnapshot, error) {
	query := url.Values{}
	query.Set("from", base)

	var resp latestResponse
	if err := p.get(ctx, "latest", "/latest", query, &resp); err != nil {
		return nil, err
	}

	return &RateSnapshot{
		Base:  resp.Base,
		Date:  resp.Date,
		Rates: resp.Rates,
	}, nil
}

// FetchConversion converts amount from one currency to another at the
// current rate. The provider returns the converted total in its rates map
// keyed by the target currency; the unit rate is derived from it.
func (p *FrankfurterProvider) FetchConversion(ctx context.Context, amount float64, from, to string) (*ConversionResult, error) {
	query := url.Values{}
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	query.Set("from", from)
	query.Set("to", to)

	var resp latestResponse
	if err := p.get(ctx, "convert", "/latest", query, &resp); err != nil {
		return nil, err
	}

	converted, ok := resp.Rates[to]
	if !ok {
		return nil, &UpstreamError{
			Op:  "convert",
			Err: fmt.Errorf("rate for %s missing from response", to),
		}
	}

	rate := 0.0
	if amount != 0 {
		rate = converted / amount
	}

	return &ConversionResult{
		From:      from,
		To:        to,
		Amount:    amount,
		Converted: converted,
		Rate:      rate,
		Date:      resp.Date,
	}, nil
}

// FetchHistory returns the rate series for a currency pair over a closed
// date range, points ascending by date.
func (p *FrankfurterProvider) FetchHistory(ctx context.Context, base, quote, start, end string) (*HistoricalSeries, error) {
	query := url.Values{}
	query.Set("from", base)
	query.Set("to", quote)

	var resp historyResponse
	if err := p.get(ctx, "history", fmt.Sprintf("/%s..%s", start, end), query, &resp); err != nil {
		return nil, err
	}

	points := make([]RatePoint, 0, len(resp.Rates))
	for date, pair := range resp.Rates {
		rate, ok := pair[quote]
		if !ok {
			// Days without a quote for the pair are dropped, not zeroed.
			continue
		}
		points = append(points, RatePoint{Date: date, Rate: rate})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	return &HistoricalSeries{
		Base:   resp.Base,
		Quote:  quote,
		Start:  resp.StartDate,
		End:    resp.EndDate,
		Points: points,
	}, nil
}

func (p *FrankfurterProvider) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	endpoint := p.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		// Timeouts and connection errors; retryable.
		return &UpstreamError{Op: op, Transient: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Transient:  resp.StatusCode >= 500,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
