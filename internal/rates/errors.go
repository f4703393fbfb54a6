package rates

import (
	"errors"
	"fmt"
	"strings"
)

// UpstreamError describes a failed call to the rate provider. Transient
// errors (5xx, timeouts, connection failures) are safe to retry; 4xx
// responses are not.
type UpstreamError struct {
	Op         string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsTransientUpstreamError reports whether err is a retryable provider
// failure. Used as the retry policy's RetryableChecker.
func IsTransientUpstreamError(err error) bool {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	return ue.Transient
}

// ExcludedCurrencyError rejects a conversion involving a currency on the
// exclusion list. It carries the full set so the response can tell the
// caller what is off limits, not just what they tripped on.
type ExcludedCurrencyError struct {
	Currency string
	Excluded []string
}

func (e *ExcludedCurrencyError) Error() string {
	return fmt.Sprintf("currency %s is excluded from conversion (excluded: %s)",
		e.Currency, strings.Join(e.Excluded, ", "))
}
