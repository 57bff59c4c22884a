package provider

import (
	"context"
	"time"
)

// RatesProvider defines an interface for fetching a coin-pair exchange rate
// from an external source.
type RatesProvider interface {
	GetRate(ctx context.Context, base, quote string) (string, time.Time, error)
}
