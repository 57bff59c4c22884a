package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shiftservice/internal/config"
	"shiftservice/internal/repository"
)

// Mock repository
type mockRateRepo struct {
	createUpdateFunc     func(ctx context.Context, base, quote, id string) (string, error)
	markRunningFunc      func(ctx context.Context, id string) error
	markSuccessFunc      func(ctx context.Context, id, rate string) error
	markFailedFunc       func(ctx context.Context, id, errorMsg string) error
	getByIDFunc          func(ctx context.Context, id string) (*repository.RateUpdate, error)
	getLatestSuccessFunc func(ctx context.Context, base, quote string) (*repository.RateUpdate, error)
}

func (m *mockRateRepo) CreateUpdate(ctx context.Context, base, quote, id string) (string, error) {
	return m.createUpdateFunc(ctx, base, quote, id)
}

func (m *mockRateRepo) MarkRunning(ctx context.Context, id string) error {
	return m.markRunningFunc(ctx, id)
}

func (m *mockRateRepo) MarkSuccess(ctx context.Context, id, rate string) error {
	return m.markSuccessFunc(ctx, id, rate)
}

func (m *mockRateRepo) MarkFailed(ctx context.Context, id, errorMsg string) error {
	return m.markFailedFunc(ctx, id, errorMsg)
}

func (m *mockRateRepo) GetByID(ctx context.Context, id string) (*repository.RateUpdate, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRateRepo) GetLatestSuccess(ctx context.Context, base, quote string) (*repository.RateUpdate, error) {
	return m.getLatestSuccessFunc(ctx, base, quote)
}

// Mock provider
type mockRatesProvider struct {
	getRateFunc func(ctx context.Context, base, quote string) (string, time.Time, error)
}

func (m *mockRatesProvider) GetRate(ctx context.Context, base, quote string) (string, time.Time, error) {
	return m.getRateFunc(ctx, base, quote)
}

// Mock enqueuer
type mockEnqueuer struct {
	enqueueFunc func(ctx context.Context, payload UpdateRatePayload) error
	enqueued    []UpdateRatePayload
}

func (m *mockEnqueuer) EnqueueUpdateTask(ctx context.Context, payload UpdateRatePayload) error {
	m.enqueued = append(m.enqueued, payload)
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, payload)
	}
	return nil
}

// Mock exchange client
type mockShiftClient struct {
	getCoinsFunc   func(ctx context.Context) (map[string]any, error)
	marketInfoFunc func(ctx context.Context, pair ...[2]string) (any, error)
	txStatFunc     func(ctx context.Context, address string) (map[string]any, error)
}

func (m *mockShiftClient) GetCoins(ctx context.Context) (map[string]any, error) {
	return m.getCoinsFunc(ctx)
}

func (m *mockShiftClient) MarketInfo(ctx context.Context, pair ...[2]string) (any, error) {
	return m.marketInfoFunc(ctx, pair...)
}

func (m *mockShiftClient) TxStat(ctx context.Context, address string) (map[string]any, error) {
	return m.txStatFunc(ctx, address)
}

var testCacheCfg = config.CacheConfig{
	LatestRateTTLSec:   60,
	ProviderRateTTLSec: 30,
}

func TestParsePair(t *testing.T) {
	tests := []struct {
		pair  string
		base  string
		quote string
		valid bool
	}{
		{"LTC/BTC", "LTC", "BTC", true},
		{"ltc/btc", "LTC", "BTC", true},
		{"DOGE/ETH", "DOGE", "ETH", true},
		{"GOLEM/BTC", "GOLEM", "BTC", true}, // up to 6 letters
		{"INVALID", "", "", false},          // no separator
		{"LT/BTC", "", "", false},           // too short
		{"LITECOIN/BTC", "", "", false},     // too long
		{"LT1/BTC", "", "", false},          // contains number
		{"LTC-BTC", "", "", false},          // wrong separator
		{"LTC/BTC/ETH", "", "", false},      // extra segment
		{"", "", "", false},                 // empty
	}

	for _, tc := range tests {
		t.Run(tc.pair, func(t *testing.T) {
			base, quote, err := ParsePair(tc.pair)
			if tc.valid {
				if err != nil {
					t.Fatalf("ParsePair(%q) error: %v", tc.pair, err)
				}
				if base != tc.base || quote != tc.quote {
					t.Errorf("ParsePair(%q) = %s/%s, want %s/%s", tc.pair, base, quote, tc.base, tc.quote)
				}
			} else if err != ErrInvalidPairFormat {
				t.Errorf("ParsePair(%q) error = %v, want ErrInvalidPairFormat", tc.pair, err)
			}
		})
	}
}

func TestValidator_Whitelist(t *testing.T) {
	v := NewValidator("LTC", "btc")

	if !v.IsSupported("ltc") {
		t.Error("Expected LTC to be supported (case-insensitive)")
	}
	if err := v.Validate("BTC"); err != nil {
		t.Errorf("Expected BTC to validate, got %v", err)
	}
	if err := v.Validate("DOGE"); err != ErrUnsupportedCurrency {
		t.Errorf("Expected ErrUnsupportedCurrency for DOGE, got %v", err)
	}

	open := NewValidator()
	if err := open.Validate("DOGE"); err != nil {
		t.Errorf("Expected open validator to accept DOGE, got %v", err)
	}
	if open.IsSupported("D0GE") {
		t.Error("Expected malformed code to be rejected even without a whitelist")
	}
}

func TestRequestRateUpdate_Validation(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()
	v := NewValidator("LTC", "BTC", "ETH")

	tests := []struct {
		pair      string
		shouldErr bool
		errType   error
	}{
		{"INVALID", true, ErrInvalidPairFormat},
		{"LT/BTC", true, ErrInvalidPairFormat},       // too short
		{"LITECOIN/BTC", true, ErrInvalidPairFormat}, // too long
		{"LTC/B1C", true, ErrInvalidPairFormat},      // contains numbers
		{"LTC-BTC", true, ErrInvalidPairFormat},      // wrong separator
		{"", true, ErrInvalidPairFormat},             // empty
		{"DOGE/BTC", true, ErrUnsupportedCurrency},
		{"LTC/XMR", true, ErrUnsupportedCurrency},
	}

	for _, tc := range tests {
		t.Run(tc.pair, func(t *testing.T) {
			repo := &mockRateRepo{}
			svc := NewRateService(repo, nil, v, nil, nil, nil, sugar, testCacheCfg)

			_, _, err := svc.RequestRateUpdate(context.Background(), tc.pair)
			if tc.shouldErr && err == nil {
				t.Errorf("Expected error for pair %q, got nil", tc.pair)
			}
			if tc.shouldErr && err != tc.errType {
				t.Errorf("Expected error %v, got %v", tc.errType, err)
			}
		})
	}
}

func TestRequestRateUpdate_Enqueues(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()
	v := NewValidator()

	repo := &mockRateRepo{
		createUpdateFunc: func(ctx context.Context, base, quote, id string) (string, error) {
			return id, nil
		},
	}
	enq := &mockEnqueuer{}
	svc := NewRateService(repo, nil, v, enq, nil, nil, sugar, testCacheCfg)

	id, status, err := svc.RequestRateUpdate(context.Background(), "ltc/btc")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if status != string(repository.StatusPending) {
		t.Errorf("Expected status PENDING, got %s", status)
	}
	if len(enq.enqueued) != 1 {
		t.Fatalf("Expected 1 enqueued task, got %d", len(enq.enqueued))
	}
	p := enq.enqueued[0]
	if p.UpdateID != id || p.Base != "LTC" || p.Quote != "BTC" {
		t.Errorf("Unexpected payload %+v", p)
	}
}

func TestRequestRateUpdate_InFlightDedup(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()
	v := NewValidator()

	// Repository reports an existing in-flight update for the pair.
	repo := &mockRateRepo{
		createUpdateFunc: func(ctx context.Context, base, quote, id string) (string, error) {
			return "existing-id", nil
		},
	}
	enq := &mockEnqueuer{}
	svc := NewRateService(repo, nil, v, enq, nil, nil, sugar, testCacheCfg)

	id, status, err := svc.RequestRateUpdate(context.Background(), "LTC/BTC")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id != "existing-id" {
		t.Errorf("Expected existing-id, got %s", id)
	}
	if status != string(repository.StatusPending) {
		t.Errorf("Expected status PENDING, got %s", status)
	}
	if len(enq.enqueued) != 0 {
		t.Errorf("Expected no new task for in-flight pair, got %d", len(enq.enqueued))
	}
}

func TestRequestRateUpdate_EnqueueFailure(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()
	v := NewValidator()

	var failedID string
	repo := &mockRateRepo{
		createUpdateFunc: func(ctx context.Context, base, quote, id string) (string, error) {
			return id, nil
		},
		markFailedFunc: func(ctx context.Context, id, errorMsg string) error {
			failedID = id
			return nil
		},
	}
	enq := &mockEnqueuer{
		enqueueFunc: func(ctx context.Context, payload UpdateRatePayload) error {
			return errors.New("queue down")
		},
	}
	svc := NewRateService(repo, nil, v, enq, nil, nil, sugar, testCacheCfg)

	_, _, err := svc.RequestRateUpdate(context.Background(), "LTC/BTC")
	if err != ErrInternalQueue {
		t.Errorf("Expected ErrInternalQueue, got %v", err)
	}
	if failedID == "" {
		t.Error("Expected record to be marked FAILED after enqueue failure")
	}
}

func TestGetLatestRate_Validation(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()
	v := NewValidator("LTC", "BTC")

	tests := []struct {
		base      string
		quote     string
		shouldErr bool
		errType   error
	}{
		{"LT", "BTC", true, ErrInvalidPairFormat},       // too short
		{"LITECOIN", "BTC", true, ErrInvalidPairFormat}, // too long
		{"LTC", "B1C", true, ErrInvalidPairFormat},      // contains numbers
		{"", "BTC", true, ErrInvalidPairFormat},         // empty base
		{"LTC", "", true, ErrInvalidPairFormat},         // empty quote
		{"DOGE", "BTC", true, ErrUnsupportedCurrency},
		{"LTC", "XMR", true, ErrUnsupportedCurrency},
	}

	for _, tc := range tests {
		t.Run(tc.base+"/"+tc.quote, func(t *testing.T) {
			repo := &mockRateRepo{}
			svc := NewRateService(repo, nil, v, nil, nil, nil, sugar, testCacheCfg)

			_, err := svc.GetLatestRate(context.Background(), tc.base, tc.quote)
			if tc.shouldErr && err != tc.errType {
				t.Errorf("Expected error %v for %s/%s, got %v", tc.errType, tc.base, tc.quote, err)
			}
		})
	}
}

func TestGetRateResult_InvalidUUID(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()
	v := NewValidator()

	svc := NewRateService(nil, nil, v, nil, nil, nil, sugar, testCacheCfg)

	_, err := svc.GetRateResult(context.Background(), "not-a-uuid")
	if err != ErrInvalidUpdateID {
		t.Errorf("Expected ErrInvalidUpdateID, got %v", err)
	}
}

func TestProcessUpdate_Success(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()
	v := NewValidator()

	repo := &mockRateRepo{
		markRunningFunc: func(ctx context.Context, id string) error {
			return nil
		},
		markSuccessFunc: func(ctx context.Context, id, rate string) error {
			if rate != "0.02115794" {
				t.Errorf("Expected rate 0.02115794, got %s", rate)
			}
			return nil
		},
	}

	prov := &mockRatesProvider{
		getRateFunc: func(ctx context.Context, base, quote string) (string, time.Time, error) {
			return "0.02115794", time.Now(), nil
		},
	}

	// Create a minimal redis client for testing (won't actually connect)
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	svc := NewRateService(repo, prov, v, nil, nil, rdb, sugar, testCacheCfg)

	err := svc.ProcessUpdate(context.Background(), "test-id", "LTC", "BTC")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestProcessUpdate_Failure(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()
	v := NewValidator()

	var failedMsg string
	repo := &mockRateRepo{
		markRunningFunc: func(ctx context.Context, id string) error {
			return nil
		},
		markFailedFunc: func(ctx context.Context, id, errorMsg string) error {
			failedMsg = errorMsg
			return nil
		},
	}

	prov := &mockRatesProvider{
		getRateFunc: func(ctx context.Context, base, quote string) (string, time.Time, error) {
			return "", time.Time{}, errors.New("provider error")
		},
	}

	svc := NewRateService(repo, prov, v, nil, nil, nil, sugar, testCacheCfg)

	err := svc.ProcessUpdate(context.Background(), "test-id", "LTC", "BTC")
	if err == nil {
		t.Error("Expected error, got nil")
	}
	if failedMsg == "" {
		t.Error("Expected failure message to be recorded")
	}
}

func TestCoins_Upstream(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()

	shift := &mockShiftClient{
		getCoinsFunc: func(ctx context.Context) (map[string]any, error) {
			return map[string]any{"BTC": map[string]any{"name": "Bitcoin", "status": "available"}}, nil
		},
	}
	svc := NewRateService(nil, nil, NewValidator(), nil, shift, nil, sugar, testCacheCfg)

	coins, err := svc.Coins(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := coins["BTC"]; !ok {
		t.Error("Expected BTC in coin directory")
	}

	shift.getCoinsFunc = func(ctx context.Context) (map[string]any, error) {
		return nil, errors.New("boom")
	}
	if _, err := svc.Coins(context.Background()); err != ErrUpstream {
		t.Errorf("Expected ErrUpstream, got %v", err)
	}
}

func TestMarketInfo_PairSelection(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()

	var gotPairs [][2]string
	shift := &mockShiftClient{
		marketInfoFunc: func(ctx context.Context, pair ...[2]string) (any, error) {
			gotPairs = pair
			return map[string]any{"pair": [2]string{"LTC", "BTC"}}, nil
		},
	}
	svc := NewRateService(nil, nil, NewValidator(), nil, shift, nil, sugar, testCacheCfg)

	if _, err := svc.MarketInfo(context.Background(), "ltc", "btc"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(gotPairs) != 1 || gotPairs[0] != [2]string{"LTC", "BTC"} {
		t.Errorf("Expected normalized pair [LTC BTC], got %v", gotPairs)
	}

	if _, err := svc.MarketInfo(context.Background(), "", ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(gotPairs) != 0 {
		t.Errorf("Expected no pair argument for all-markets lookup, got %v", gotPairs)
	}

	if _, err := svc.MarketInfo(context.Background(), "LT", "BTC"); err != ErrInvalidPairFormat {
		t.Errorf("Expected ErrInvalidPairFormat, got %v", err)
	}
}

func TestTxStatus(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()

	shift := &mockShiftClient{
		txStatFunc: func(ctx context.Context, address string) (map[string]any, error) {
			return map[string]any{"status": "no-deposits", "address": address}, nil
		},
	}
	svc := NewRateService(nil, nil, NewValidator(), nil, shift, nil, sugar, testCacheCfg)

	stat, err := svc.TxStatus(context.Background(), "1BitcoinAddr")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if stat["status"] != "no-deposits" {
		t.Errorf("Unexpected status %v", stat["status"])
	}

	if _, err := svc.TxStatus(context.Background(), ""); err != ErrInvalidAddress {
		t.Errorf("Expected ErrInvalidAddress, got %v", err)
	}
}
