package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"aquaview/internal/modules/distribution/domain"
	distributionout "aquaview/internal/modules/distribution/port/out"
	"aquaview/internal/platform/clock"
	apperrors "aquaview/internal/platform/errors"
)

// Meta describes where a payload came from: a live fetch, or the snapshot
// cache when the backend was unreachable.
type Meta struct {
	Stale     bool
	FetchedAt time.Time
}

type DistributionService struct {
	clock    clock.Clock
	gateway  distributionout.SupplyGateway
	cache    distributionout.SnapshotCache
	validate *validator.Validate
}

func NewDistributionService(clock clock.Clock, gateway distributionout.SupplyGateway, cache distributionout.SnapshotCache) *DistributionService {
	return &DistributionService{
		clock:    clock,
		gateway:  gateway,
		cache:    cache,
		validate: validator.New(),
	}
}

func (s *DistributionService) Trend(ctx context.Context, mcCode, hubID string) (domain.Trend, Meta, error) {
	trend, err := s.gateway.Trend(ctx, mcCode, hubID)
	if err == nil {
		s.storeSnapshot(ctx, mcCode, "dist-trend", hubID, trend)
		return trend, Meta{FetchedAt: s.clock.Now()}, nil
	}
	cached := domain.Trend{}
	if meta, ok := s.loadSnapshot(ctx, mcCode, "dist-trend", hubID, err, &cached); ok {
		return cached, meta, nil
	}
	return domain.Trend{}, Meta{}, err
}

func (s *DistributionService) YearlyTrend(ctx context.Context, mcCode, hubID string) (domain.YearlyTrend, Meta, error) {
	trend, err := s.gateway.YearlyTrend(ctx, mcCode, hubID)
	if err == nil {
		s.storeSnapshot(ctx, mcCode, "dist-yearly", hubID, trend)
		return trend, Meta{FetchedAt: s.clock.Now()}, nil
	}
	cached := domain.YearlyTrend{}
	if meta, ok := s.loadSnapshot(ctx, mcCode, "dist-yearly", hubID, err, &cached); ok {
		return cached, meta, nil
	}
	return domain.YearlyTrend{}, Meta{}, err
}

func (s *DistributionService) CriticalSummary(ctx context.Context, mcCode string) (domain.CriticalSummary, Meta, error) {
	summary, err := s.gateway.CriticalSummary(ctx, mcCode)
	if err == nil {
		s.storeSnapshot(ctx, mcCode, "dist-critical", "", summary)
		return summary, Meta{FetchedAt: s.clock.Now()}, nil
	}
	cached := domain.CriticalSummary{}
	if meta, ok := s.loadSnapshot(ctx, mcCode, "dist-critical", "", err, &cached); ok {
		return cached, meta, nil
	}
	return domain.CriticalSummary{}, Meta{}, err
}

func (s *DistributionService) Latest(ctx context.Context, mcCode string) (domain.Latest, Meta, error) {
	latest, err := s.gateway.Latest(ctx, mcCode)
	if err == nil {
		s.storeSnapshot(ctx, mcCode, "dist-latest", "", latest)
		return latest, Meta{FetchedAt: s.clock.Now()}, nil
	}
	cached := domain.Latest{}
	if meta, ok := s.loadSnapshot(ctx, mcCode, "dist-latest", "", err, &cached); ok {
		return cached, meta, nil
	}
	return domain.Latest{}, Meta{}, err
}

func (s *DistributionService) Summary(ctx context.Context, mcCode string) (domain.Summary, Meta, error) {
	summary, err := s.gateway.Summary(ctx, mcCode)
	if err == nil {
		s.storeSnapshot(ctx, mcCode, "dist-summary", "", summary)
		return summary, Meta{FetchedAt: s.clock.Now()}, nil
	}
	cached := domain.Summary{}
	if meta, ok := s.loadSnapshot(ctx, mcCode, "dist-summary", "", err, &cached); ok {
		return cached, meta, nil
	}
	return domain.Summary{}, Meta{}, err
}

// Forecast validates locally first: a request with a missing hub, a
// non-positive volume, or an implausible balance never reaches the network.
func (s *DistributionService) Forecast(ctx context.Context, input domain.ForecastInput) (domain.Forecast, error) {
	if strings.TrimSpace(input.HubID) == "" {
		return domain.Forecast{}, fmt.Errorf("%w: a target hub must be selected", apperrors.ErrInvalidInput)
	}
	if err := s.validate.Struct(input); err != nil {
		return domain.Forecast{}, localValidationError(err)
	}
	if err := input.ValidateBalance(); err != nil {
		return domain.Forecast{}, err
	}
	return s.gateway.Forecast(ctx, input)
}

func (s *DistributionService) storeSnapshot(ctx context.Context, mcCode, view, hubID string, payload any) {
	if s.cache == nil {
		return
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = s.cache.Put(ctx, mcCode, view, hubID, encoded, s.clock.Now())
}

// loadSnapshot serves the last-known payload only when the live fetch
// failed because the backend was unreachable; every other failure class
// propagates untouched.
func (s *DistributionService) loadSnapshot(ctx context.Context, mcCode, view, hubID string, fetchErr error, out any) (Meta, bool) {
	if s.cache == nil || !errors.Is(fetchErr, apperrors.ErrServerUnavailable) {
		return Meta{}, false
	}
	payload, fetchedAt, err := s.cache.Get(ctx, mcCode, view, hubID)
	if err != nil {
		return Meta{}, false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return Meta{}, false
	}
	return Meta{Stale: true, FetchedAt: fetchedAt}, true
}

func localValidationError(err error) error {
	fieldErrs := validator.ValidationErrors{}
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: out-of-range values for %s", apperrors.ErrInvalidInput, strings.Join(fields, ", "))
}
