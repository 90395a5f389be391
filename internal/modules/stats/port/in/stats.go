package in

import (
	"context"

	"aquaview/internal/modules/stats/dto"
)

type Usecase interface {
	PublicOverview(ctx context.Context) (dto.PublicOverviewOutput, error)
	Overview(ctx context.Context) (dto.OverviewOutput, error)
	StateTrends(ctx context.Context) (dto.StateTrendsOutput, error)
	Dashboard(ctx context.Context, mcCode string) (dto.DashboardOutput, error)
}
