package in

import (
	"context"

	"aquaview/internal/modules/quality/dto"
)

type Usecase interface {
	Hubs(ctx context.Context, mcCode string) ([]dto.HubOutput, error)
	Trend(ctx context.Context, mcCode, hubID string) (dto.TrendOutput, error)
	YearlyTrend(ctx context.Context, mcCode, hubID string) (dto.YearlyTrendOutput, error)
	Anomalies(ctx context.Context, mcCode, hubID string) (dto.AnomaliesOutput, error)
	Records(ctx context.Context, mcCode, hubID string) (dto.RecordsOutput, error)
	Predict(ctx context.Context, mcCode string, input dto.PredictionInput) (dto.PredictionOutput, error)
	HubImage(ctx context.Context, hubID string) ([]byte, error)
}
