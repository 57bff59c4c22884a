// Package service implements the core business logic for rate updates and
// exchange data lookups.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shiftservice/internal/config"
	"shiftservice/internal/provider"
	"shiftservice/internal/repository"
)

// RateServiceInterface defines the operations available for rate management
// and exchange data lookups.
type RateServiceInterface interface {
	RequestRateUpdate(ctx context.Context, pair string) (updateID, status string, err error)
	GetRateResult(ctx context.Context, updateID string) (*RateResult, error)
	GetLatestRate(ctx context.Context, base, quote string) (*RateResult, error)
	ProcessUpdate(ctx context.Context, updateID, base, quote string) error
	Coins(ctx context.Context) (map[string]any, error)
	MarketInfo(ctx context.Context, base, quote string) (any, error)
	TxStatus(ctx context.Context, address string) (map[string]any, error)
}

// ShiftClient is the subset of the exchange API used for passthrough lookups.
type ShiftClient interface {
	GetCoins(ctx context.Context) (map[string]any, error)
	MarketInfo(ctx context.Context, pair ...[2]string) (any, error)
	TxStat(ctx context.Context, address string) (map[string]any, error)
}

// TaskTypeUpdateRate is the Asynq task type for rate update jobs.
const TaskTypeUpdateRate = "rate:update"

// UpdateRatePayload is the payload structure for rate update Asynq tasks.
type UpdateRatePayload struct {
	UpdateID string `json:"update_id"`
	Base     string `json:"base"`
	Quote    string `json:"quote"`
}

// TaskEnqueuer submits rate update jobs to the background queue.
type TaskEnqueuer interface {
	EnqueueUpdateTask(ctx context.Context, payload UpdateRatePayload) error
}

// RateService defines business logic for rates
type RateService struct {
	repo          repository.RateRepository
	provider      provider.RatesProvider
	validator     Validator
	enqueuer      TaskEnqueuer
	shift         ShiftClient
	cache         *redis.Client
	log           *zap.SugaredLogger
	latestRateTTL time.Duration
}

// NewRateService creates a new RateService
func NewRateService(repo repository.RateRepository, prov provider.RatesProvider, validator Validator, enqueuer TaskEnqueuer, shift ShiftClient, cache *redis.Client, logger *zap.SugaredLogger, cacheCfg config.CacheConfig) *RateService {
	return &RateService{
		repo:          repo,
		provider:      prov,
		validator:     validator,
		enqueuer:      enqueuer,
		shift:         shift,
		cache:         cache,
		log:           logger,
		latestRateTTL: time.Duration(cacheCfg.LatestRateTTLSec) * time.Second,
	}
}

// RequestRateUpdate processes a request to update a rate asynchronously.
func (s *RateService) RequestRateUpdate(ctx context.Context, pair string) (updateID, status string, err error) {
	base, quote, err := ParsePair(pair)
	if err != nil {
		return "", "", err
	}

	if vErr := s.validatePair(base, quote); vErr != nil {
		return "", "", vErr
	}

	uid := uuid.New().String()
	id, err := s.repo.CreateUpdate(ctx, base, quote, uid)
	if err != nil {
		s.log.Errorw("CreateUpdate DB error", "error", err)
		return "", "", ErrInternal
	}

	if id != uid {
		// An update for this pair is already in flight; return its ID.
		return id, string(repository.StatusPending), nil
	}

	if err := s.enqueueUpdateTask(ctx, id, base, quote); err != nil {
		return "", "", err
	}

	s.log.Infow("Enqueued update task", "update_id", id, "pair", base+"/"+quote)
	return id, string(repository.StatusPending), nil
}

// GetRateResult retrieves the rate (value and status) for a given update ID.
func (s *RateService) GetRateResult(ctx context.Context, updateID string) (*RateResult, error) {
	if _, err := uuid.Parse(updateID); err != nil {
		return nil, ErrInvalidUpdateID
	}
	u, err := s.repo.GetByID(ctx, updateID)
	if err != nil {
		s.log.Errorw("DB error fetching rate by ID", "update_id", updateID, "error", err)
		return nil, ErrInternal
	}
	if u == nil {
		return nil, ErrNotFound
	}

	return resultFromUpdate(u), nil
}

// GetLatestRate returns the latest successful rate for the given coin pair.
func (s *RateService) GetLatestRate(ctx context.Context, base, quote string) (*RateResult, error) {
	base, quote, err := normalizePair(base, quote)
	if err != nil {
		return nil, err
	}

	if vErr := s.validatePair(base, quote); vErr != nil {
		return nil, vErr
	}

	if u, ok := s.cacheGetLatest(ctx, base, quote); ok {
		return resultFromUpdate(u), nil
	}

	u, err := s.repo.GetLatestSuccess(ctx, base, quote)
	if err != nil {
		s.log.Errorw("DB error fetching latest rate", "base", base, "quote", quote, "error", err)
		return nil, ErrInternal
	}
	if u == nil {
		return nil, ErrNotFound
	}

	s.cacheSetLatestFromUpdate(ctx, u)
	return resultFromUpdate(u), nil
}

// ProcessUpdate performs the external fetch and updates the result (called by background worker).
func (s *RateService) ProcessUpdate(ctx context.Context, updateID, base, quote string) error {
	base, quote, err := normalizePair(base, quote)
	if err != nil {
		return err
	}

	if vErr := s.validatePair(base, quote); vErr != nil {
		s.completeFailure(ctx, updateID, vErr)
		return vErr
	}

	s.log.Infow("Processing update", "update_id", updateID, "base", base, "quote", quote)
	s.markRunning(ctx, updateID)

	rate, fetchedAt, err := s.provider.GetRate(ctx, base, quote)
	if err != nil {
		s.completeFailure(ctx, updateID, err)
		return err
	}

	if err := s.repo.MarkSuccess(ctx, updateID, rate); err != nil {
		s.log.Errorw("DB update error on success", "update_id", updateID, "error", err)
		return err
	}

	s.cacheSetLatest(ctx, base, quote, rate, fetchedAt)
	s.log.Infow("Update success", "update_id", updateID, "rate", rate)
	return nil
}

// Coins returns the exchange's tradable coin directory.
func (s *RateService) Coins(ctx context.Context) (map[string]any, error) {
	coins, err := s.shift.GetCoins(ctx)
	if err != nil {
		s.log.Errorw("Upstream error fetching coins", "error", err)
		return nil, ErrUpstream
	}
	return coins, nil
}

// MarketInfo returns market limits and fees. With empty base and quote it
// reports every tradable market.
func (s *RateService) MarketInfo(ctx context.Context, base, quote string) (any, error) {
	var pairs [][2]string
	if base != "" || quote != "" {
		b, q, err := normalizePair(base, quote)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, [2]string{b, q})
	}

	info, err := s.shift.MarketInfo(ctx, pairs...)
	if err != nil {
		s.log.Errorw("Upstream error fetching market info", "base", base, "quote", quote, "error", err)
		return nil, ErrUpstream
	}
	return info, nil
}

// TxStatus reports the deposit status for an exchange deposit address.
func (s *RateService) TxStatus(ctx context.Context, address string) (map[string]any, error) {
	if address == "" {
		return nil, ErrInvalidAddress
	}

	stat, err := s.shift.TxStat(ctx, address)
	if err != nil {
		s.log.Errorw("Upstream error fetching tx status", "address", address, "error", err)
		return nil, ErrUpstream
	}
	return stat, nil
}

func (s *RateService) enqueueUpdateTask(ctx context.Context, updateID, base, quote string) error {
	payload := UpdateRatePayload{
		UpdateID: updateID,
		Base:     base,
		Quote:    quote,
	}

	if err := s.enqueuer.EnqueueUpdateTask(ctx, payload); err != nil {
		s.log.Errorw("Failed to enqueue task", "update_id", updateID, "error", err)
		s.markFailed(ctx, updateID, "enqueue error")
		return ErrInternalQueue
	}
	return nil
}

func (s *RateService) markFailed(ctx context.Context, updateID, reason string) {
	if err := s.repo.MarkFailed(ctx, updateID, reason); err != nil {
		s.log.Warnw("Failed to mark record as FAILED", "update_id", updateID, "error", err)
	}
}

func (s *RateService) markRunning(ctx context.Context, updateID string) {
	if err := s.repo.MarkRunning(ctx, updateID); err != nil {
		s.log.Warnw("Failed to mark record as RUNNING", "update_id", updateID, "error", err)
	}
}

func (s *RateService) completeFailure(ctx context.Context, updateID string, cause error) {
	s.log.Errorw("Provider error", "update_id", updateID, "error", cause)
	if err := s.repo.MarkFailed(ctx, updateID, cause.Error()); err != nil {
		s.log.Warnw("Failed to mark record as FAILED after provider error", "update_id", updateID, "error", err)
	}
}

func (s *RateService) validatePair(base, quote string) error {
	if err := s.validator.Validate(base); err != nil {
		return err
	}
	return s.validator.Validate(quote)
}
