package rates

// RateSnapshot is one day's rates for a base currency.
type RateSnapshot struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// ConversionResult is the outcome of converting an amount between two
// currencies at the provider's current rate.
type ConversionResult struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Converted float64 `json:"converted"`
	Rate      float64 `json:"rate"`
	Date      string  `json:"date"`
}

// RatePoint is one day's rate within a historical series.
type RatePoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// HistoricalSeries is the full date-ordered rate series for a currency pair
// over a closed date range. Points are ascending by date.
type HistoricalSeries struct {
	Base   string      `json:"base"`
	Quote  string      `json:"to"`
	Start  string      `json:"start_date"`
	End    string      `json:"end_date"`
	Points []RatePoint `json:"rates"`
}
