package service

import (
	"context"
	"fmt"

	"aquaview/internal/modules/stats/domain"
	statsout "aquaview/internal/modules/stats/port/out"
	apperrors "aquaview/internal/platform/errors"
)

type StatsService struct {
	gateway statsout.StatsGateway
}

func NewStatsService(gateway statsout.StatsGateway) *StatsService {
	return &StatsService{gateway: gateway}
}

func (s *StatsService) PublicOverview(ctx context.Context) (domain.PublicOverview, error) {
	return s.gateway.PublicOverview(ctx)
}

func (s *StatsService) Overview(ctx context.Context) (domain.Overview, error) {
	return s.gateway.Overview(ctx)
}

func (s *StatsService) StateTrends(ctx context.Context) (domain.StateTrends, error) {
	return s.gateway.StateTrends(ctx)
}

func (s *StatsService) Dashboard(ctx context.Context, mcCode string) (domain.Dashboard, error) {
	if mcCode == "" {
		return domain.Dashboard{}, fmt.Errorf("%w: mc code is required", apperrors.ErrInvalidInput)
	}
	return s.gateway.Dashboard(ctx, mcCode)
}
