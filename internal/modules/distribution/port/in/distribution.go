package in

import (
	"context"

	"aquaview/internal/modules/distribution/dto"
)

type Usecase interface {
	Trend(ctx context.Context, mcCode, hubID string) (dto.TrendOutput, error)
	YearlyTrend(ctx context.Context, mcCode, hubID string) (dto.YearlyTrendOutput, error)
	CriticalSummary(ctx context.Context, mcCode string) (dto.CriticalSummaryOutput, error)
	Latest(ctx context.Context, mcCode string) (dto.LatestOutput, error)
	Summary(ctx context.Context, mcCode string) (dto.SummaryOutput, error)
	Forecast(ctx context.Context, mcCode string, input dto.ForecastInput) (dto.ForecastOutput, error)
}
