package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"aquaview/internal/modules/quality/domain"
	qualityout "aquaview/internal/modules/quality/port/out"
	"aquaview/internal/platform/clock"
	apperrors "aquaview/internal/platform/errors"
)

// Meta describes where a payload came from: a live fetch, or the snapshot
// cache when the backend was unreachable.
type Meta struct {
	Stale     bool
	FetchedAt time.Time
}

type QualityService struct {
	clock    clock.Clock
	gateway  qualityout.AnalyticsGateway
	cache    qualityout.SnapshotCache
	validate *validator.Validate
}

func NewQualityService(clock clock.Clock, gateway qualityout.AnalyticsGateway, cache qualityout.SnapshotCache) *QualityService {
	return &QualityService{
		clock:    clock,
		gateway:  gateway,
		cache:    cache,
		validate: validator.New(),
	}
}

func (s *QualityService) Hubs(ctx context.Context, mcCode string) ([]domain.Hub, error) {
	if mcCode == "" {
		return nil, fmt.Errorf("%w: mc code is required", apperrors.ErrInvalidInput)
	}
	return s.gateway.Hubs(ctx, mcCode)
}

func (s *QualityService) Trend(ctx context.Context, mcCode, hubID string) (domain.TrendSummary, Meta, error) {
	summary, err := s.gateway.Trend(ctx, mcCode, hubID)
	if err == nil {
		s.storeSnapshot(ctx, mcCode, "trend", hubID, summary)
		return summary, Meta{FetchedAt: s.clock.Now()}, nil
	}
	cached := domain.TrendSummary{}
	if meta, ok := s.loadSnapshot(ctx, mcCode, "trend", hubID, err, &cached); ok {
		return cached, meta, nil
	}
	return domain.TrendSummary{}, Meta{}, err
}

func (s *QualityService) YearlyTrend(ctx context.Context, mcCode, hubID string) (domain.YearlyTrend, Meta, error) {
	trend, err := s.gateway.YearlyTrend(ctx, mcCode, hubID)
	if err == nil {
		s.storeSnapshot(ctx, mcCode, "yearly", hubID, trend)
		return trend, Meta{FetchedAt: s.clock.Now()}, nil
	}
	cached := domain.YearlyTrend{}
	if meta, ok := s.loadSnapshot(ctx, mcCode, "yearly", hubID, err, &cached); ok {
		return cached, meta, nil
	}
	return domain.YearlyTrend{}, Meta{}, err
}

func (s *QualityService) Anomalies(ctx context.Context, mcCode, hubID string) (domain.AnomalySummary, Meta, error) {
	summary, err := s.gateway.Anomalies(ctx, mcCode, hubID)
	if err == nil {
		s.storeSnapshot(ctx, mcCode, "anomalies", hubID, summary)
		return summary, Meta{FetchedAt: s.clock.Now()}, nil
	}
	cached := domain.AnomalySummary{}
	if meta, ok := s.loadSnapshot(ctx, mcCode, "anomalies", hubID, err, &cached); ok {
		return cached, meta, nil
	}
	return domain.AnomalySummary{}, Meta{}, err
}

func (s *QualityService) Records(ctx context.Context, mcCode, hubID string) (domain.RecordSet, Meta, error) {
	records, err := s.gateway.Records(ctx, mcCode, hubID)
	if err == nil {
		s.storeSnapshot(ctx, mcCode, "records", hubID, records)
		return records, Meta{FetchedAt: s.clock.Now()}, nil
	}
	cached := domain.RecordSet{}
	if meta, ok := s.loadSnapshot(ctx, mcCode, "records", hubID, err, &cached); ok {
		return cached, meta, nil
	}
	return domain.RecordSet{}, Meta{}, err
}

// Predict validates locally first: a request with a missing hub or an
// out-of-range reading never reaches the network.
func (s *QualityService) Predict(ctx context.Context, input domain.PredictionInput) (domain.Prediction, error) {
	if strings.TrimSpace(input.HubID) == "" {
		return domain.Prediction{}, fmt.Errorf("%w: a target hub must be selected", apperrors.ErrInvalidInput)
	}
	if err := s.validate.Struct(input); err != nil {
		return domain.Prediction{}, localValidationError(err)
	}
	if err := input.ValidatePairs(); err != nil {
		return domain.Prediction{}, err
	}
	return s.gateway.Predict(ctx, input)
}

func (s *QualityService) HubImage(ctx context.Context, hubID string) ([]byte, error) {
	if hubID == "" {
		return nil, fmt.Errorf("%w: hub id is required", apperrors.ErrInvalidInput)
	}
	return s.gateway.HubImage(ctx, hubID)
}

func (s *QualityService) storeSnapshot(ctx context.Context, mcCode, view, hubID string, payload any) {
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
func (s *QualityService) loadSnapshot(ctx context.Context, mcCode, view, hubID string, fetchErr error, out any) (Meta, bool) {
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
