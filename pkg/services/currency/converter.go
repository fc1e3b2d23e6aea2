package currency

import (
	"context"
	"errors"
	"time"
)

// USD is the conversion target; converting USD is an identity operation.
const USD = "USD"

// ErrUnknownCurrency reports a currency with no published exchange rate.
// This is an expected, non-fatal condition, distinct from a lookup failure.
var ErrUnknownCurrency = errors.New("currency: unknown currency")

// Converter converts an amount into USD using the exchange rate as of a
// given date.
type Converter interface {
	Convert(ctx context.Context, amount float64, code string, asOf time.Time) (float64, error)
}
