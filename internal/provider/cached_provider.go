package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ RatesProvider = (*CachedRatesProvider)(nil)

// CachedRatesProvider wraps a RatesProvider with Redis caching. Rates move
// quickly, so the TTL is expected to be short.
type CachedRatesProvider struct {
	provider RatesProvider
	cache    *redis.Client
	ttl      time.Duration
	name     string
}

// NewCachedRatesProvider creates a caching decorator around provider.
// name distinguishes cache entries when several endpoints are configured.
func NewCachedRatesProvider(provider RatesProvider, cache *redis.Client, ttl time.Duration, name string) *CachedRatesProvider {
	return &CachedRatesProvider{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
		name:     name,
	}
}

func (p *CachedRatesProvider) cacheKey(base, quote string) string {
	return fmt.Sprintf("shift_rate:%s:{%s:%s}", p.name, base, quote)
}

// GetRate attempts to fetch the rate from cache before calling the underlying provider.
func (p *CachedRatesProvider) GetRate(ctx context.Context, base, quote string) (string, time.Time, error) {
	if p.cache == nil {
		return p.provider.GetRate(ctx, base, quote)
	}

	key := p.cacheKey(base, quote)

	vals, err := p.cache.HMGet(ctx, key, "rate", "fetched_at").Result()
	if err == nil && len(vals) == 2 && vals[0] != nil && vals[1] != nil {
		rate, ok1 := vals[0].(string)
		tsStr, ok2 := vals[1].(string)
		if ok1 && ok2 {
			if ts, err2 := time.Parse(time.RFC3339, tsStr); err2 == nil {
				return rate, ts, nil
			}
		}
	}

	rate, ts, err := p.provider.GetRate(ctx, base, quote)
	if err != nil {
		return "", time.Time{}, err
	}

	pipe := p.cache.Pipeline()
	pipe.HSet(ctx, key, "rate", rate, "fetched_at", ts.Format(time.RFC3339))
	pipe.Expire(ctx, key, p.ttl)
	_, _ = pipe.Exec(ctx)

	return rate, ts, nil
}
