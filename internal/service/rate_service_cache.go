package service

import (
	"context"
	"time"

	"shiftservice/internal/repository"
)

const cacheKeyPrefixLatest = "latest:"

func latestCacheKey(base, quote string) string {
	return cacheKeyPrefixLatest + "{" + base + ":" + quote + "}"
}

func (s *RateService) cacheGetLatest(ctx context.Context, base, quote string) (*repository.RateUpdate, bool) {
	if s.cache == nil {
		return nil, false
	}

	key := latestCacheKey(base, quote)
	vals, err := s.cache.HMGet(ctx, key, "rate", "updated_at").Result()
	if err != nil || len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return nil, false
	}

	rate, ok := asString(vals[0])
	if !ok {
		return nil, false
	}
	ts, ok := asString(vals[1])
	if !ok {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return nil, false
	}

	return &repository.RateUpdate{
		Base:      base,
		Quote:     quote,
		Status:    repository.StatusSuccess,
		Rate:      &rate,
		UpdatedAt: &t,
	}, true
}

func (s *RateService) cacheSetLatestFromUpdate(ctx context.Context, u *repository.RateUpdate) {
	if u == nil || u.Rate == nil || u.UpdatedAt == nil {
		return
	}
	s.cacheSetLatest(ctx, u.Base, u.Quote, *u.Rate, *u.UpdatedAt)
}

func (s *RateService) cacheSetLatest(ctx context.Context, base, quote, rate string, t time.Time) {
	if s.cache == nil {
		return
	}

	key := latestCacheKey(base, quote)
	pipe := s.cache.Pipeline()
	pipe.HSet(ctx, key, "rate", rate, "updated_at", t.Format(time.RFC3339))
	pipe.Expire(ctx, key, s.latestRateTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnw("Failed to update cache", "key", key, "error", err)
	}
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	default:
		return "", false
	}
}
