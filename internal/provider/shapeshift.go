// Package provider implements external rate providers for fetching coin exchange rates.
package provider

import (
	"context"
	"fmt"
	"time"

	"shiftservice/internal/shapeshift"
)

var _ RatesProvider = (*ShapeShiftProvider)(nil)

// ShapeShiftProvider fetches rates from the shapeshift.io API.
type ShapeShiftProvider struct {
	client *shapeshift.Client
}

// NewShapeShiftProvider creates a ShapeShiftProvider for the given base URL.
// An empty baseURL selects the direct shapeshift.io host.
func NewShapeShiftProvider(baseURL string, timeoutSec int) *ShapeShiftProvider {
	return &ShapeShiftProvider{
		client: shapeshift.NewClient(baseURL, "", timeoutSec),
	}
}

// GetRate retrieves the exchange rate between the specified base and quote coins.
func (p *ShapeShiftProvider) GetRate(ctx context.Context, base, quote string) (string, time.Time, error) {
	rate, err := p.client.Rate(ctx, base, quote)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("shapeshift rate for %s/%s: %w", base, quote, err)
	}

	// The API does not timestamp rate responses.
	return rate.String(), time.Now().UTC(), nil
}
