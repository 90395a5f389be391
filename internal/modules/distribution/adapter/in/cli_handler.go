package in

import (
	"context"

	"aquaview/internal/modules/distribution/dto"
	distributionin "aquaview/internal/modules/distribution/port/in"
)

type CLIHandler struct {
	usecase distributionin.Usecase
}

func NewCLIHandler(usecase distributionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Trend(ctx context.Context, mcCode, hubID string) (dto.TrendOutput, error) {
	return h.usecase.Trend(ctx, mcCode, hubID)
}

func (h CLIHandler) YearlyTrend(ctx context.Context, mcCode, hubID string) (dto.YearlyTrendOutput, error) {
	return h.usecase.YearlyTrend(ctx, mcCode, hubID)
}

func (h CLIHandler) CriticalSummary(ctx context.Context, mcCode string) (dto.CriticalSummaryOutput, error) {
	return h.usecase.CriticalSummary(ctx, mcCode)
}

func (h CLIHandler) Latest(ctx context.Context, mcCode string) (dto.LatestOutput, error) {
	return h.usecase.Latest(ctx, mcCode)
}

func (h CLIHandler) Summary(ctx context.Context, mcCode string) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx, mcCode)
}

func (h CLIHandler) Forecast(ctx context.Context, mcCode string, input dto.ForecastInput) (dto.ForecastOutput, error) {
	return h.usecase.Forecast(ctx, mcCode, input)
}
