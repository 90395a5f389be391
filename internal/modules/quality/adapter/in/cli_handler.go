package in

import (
	"context"

	"aquaview/internal/modules/quality/dto"
	qualityin "aquaview/internal/modules/quality/port/in"
)

type CLIHandler struct {
	usecase qualityin.Usecase
}

func NewCLIHandler(usecase qualityin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Hubs(ctx context.Context, mcCode string) ([]dto.HubOutput, error) {
	return h.usecase.Hubs(ctx, mcCode)
}

func (h CLIHandler) Trend(ctx context.Context, mcCode, hubID string) (dto.TrendOutput, error) {
	return h.usecase.Trend(ctx, mcCode, hubID)
}

func (h CLIHandler) YearlyTrend(ctx context.Context, mcCode, hubID string) (dto.YearlyTrendOutput, error) {
	return h.usecase.YearlyTrend(ctx, mcCode, hubID)
}

func (h CLIHandler) Anomalies(ctx context.Context, mcCode, hubID string) (dto.AnomaliesOutput, error) {
	return h.usecase.Anomalies(ctx, mcCode, hubID)
}

func (h CLIHandler) Records(ctx context.Context, mcCode, hubID string) (dto.RecordsOutput, error) {
	return h.usecase.Records(ctx, mcCode, hubID)
}

func (h CLIHandler) Predict(ctx context.Context, mcCode string, input dto.PredictionInput) (dto.PredictionOutput, error) {
	return h.usecase.Predict(ctx, mcCode, input)
}

func (h CLIHandler) HubImage(ctx context.Context, hubID string) ([]byte, error) {
	return h.usecase.HubImage(ctx, hubID)
}
