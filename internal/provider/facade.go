package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var _ RatesProvider = (*FallbackProvider)(nil)

// FallbackProvider tries providers sequentially until one succeeds. It is
// used to fall back from the direct shapeshift.io host to a CORS-proxied
// endpoint when the direct one is unreachable.
type FallbackProvider struct {
	providers []RatesProvider
}

// NewFallbackProvider creates a FallbackProvider over the given providers,
// consulted in order.
func NewFallbackProvider(providers ...RatesProvider) *FallbackProvider {
	return &FallbackProvider{
		providers: providers,
	}
}

// GetRate calls providers sequentially until one succeeds.
func (p *FallbackProvider) GetRate(ctx context.Context, base, quote string) (string, time.Time, error) {
	var errs []error
	for _, prov := range p.providers {
		rate, timestamp, err := prov.GetRate(ctx, base, quote)
		if err == nil {
			return rate, timestamp, nil
		}
		errs = append(errs, err)
	}

	return "", time.Time{}, fmt.Errorf("all endpoints failed: %w", errors.Join(errs...))
}
