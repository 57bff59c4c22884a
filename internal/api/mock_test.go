package api

import (
	"context"

	"shiftservice/internal/service"
)

// mockRateService implements service.RateServiceInterface for testing.
type mockRateService struct {
	requestUpdateFunc func(ctx context.Context, pair string) (string, string, error)
	getRateResultFunc func(ctx context.Context, updateID string) (*service.RateResult, error)
	getLatestRateFunc func(ctx context.Context, base, quote string) (*service.RateResult, error)
	coinsFunc         func(ctx context.Context) (map[string]any, error)
	marketInfoFunc    func(ctx context.Context, base, quote string) (any, error)
	txStatusFunc      func(ctx context.Context, address string) (map[string]any, error)
}

func (m *mockRateService) RequestRateUpdate(ctx context.Context, pair string) (string, string, error) {
	return m.requestUpdateFunc(ctx, pair)
}

func (m *mockRateService) GetRateResult(ctx context.Context, updateID string) (*service.RateResult, error) {
	return m.getRateResultFunc(ctx, updateID)
}

func (m *mockRateService) GetLatestRate(ctx context.Context, base, quote string) (*service.RateResult, error) {
	return m.getLatestRateFunc(ctx, base, quote)
}

func (m *mockRateService) Coins(ctx context.Context) (map[string]any, error) {
	return m.coinsFunc(ctx)
}

func (m *mockRateService) MarketInfo(ctx context.Context, base, quote string) (any, error) {
	return m.marketInfoFunc(ctx, base, quote)
}

func (m *mockRateService) TxStatus(ctx context.Context, address string) (map[string]any, error) {
	return m.txStatusFunc(ctx, address)
}

func (m *mockRateService) ProcessUpdate(_ context.Context, _, _, _ string) error {
	return nil // Not used in handler tests
}
