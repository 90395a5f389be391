package usecase

import (
	"context"

	"aquaview/internal/modules/quality/domain"
	"aquaview/internal/modules/quality/dto"
	qualityin "aquaview/internal/modules/quality/port/in"
	"aquaview/internal/modules/quality/service"
)

type Interactor struct {
	svc *service.QualityService
}

func NewInteractor(svc *service.QualityService) qualityin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Hubs(ctx context.Context, mcCode string) ([]dto.HubOutput, error) {
	hubs, err := i.svc.Hubs(ctx, mcCode)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HubOutput, 0, len(hubs))
	for _, hub := range hubs {
		out = append(out, dto.HubOutput{ID: hub.ID, Name: hub.Name})
	}
	return out, nil
}

func (i *Interactor) Trend(ctx context.Context, mcCode, hubID string) (dto.TrendOutput, error) {
	summary, meta, err := i.svc.Trend(ctx, mcCode, hubID)
	if err != nil {
		return dto.TrendOutput{}, err
	}
	hubs := make(map[string]dto.HubTrendOutput, len(summary.Hubs))
	for hub, trend := range summary.Hubs {
		hubs[hub] = dto.HubTrendOutput{
			TotalRecords: trend.TotalRecords,
			AverageWQI:   trend.AverageWQI,
			AnomalyCount: trend.AnomalyCount,
			Records:      toRecordOutputs(trend.Records),
		}
	}
	return dto.TrendOutput{
		MCCode:    summary.MCCode,
		HubFilter: summary.HubFilter,
		Hubs:      hubs,
		Stale:     meta.Stale,
		FetchedAt: meta.FetchedAt,
	}, nil
}

func (i *Interactor) YearlyTrend(ctx context.Context, mcCode, hubID string) (dto.YearlyTrendOutput, error) {
	trend, meta, err := i.svc.YearlyTrend(ctx, mcCode, hubID)
	if err != nil {
		return dto.YearlyTrendOutput{}, err
	}
	hubs := make(map[string]map[string]dto.YearStatOutput, len(trend.Hubs))
	for hub, years := range trend.Hubs {
		stats := make(map[string]dto.YearStatOutput, len(years))
		for year, stat := range years {
			stats[year] = dto.YearStatOutput{
				AverageWQI:   stat.AverageWQI,
				MaxWQI:       stat.MaxWQI,
				MinWQI:       stat.MinWQI,
				TotalRecords: stat.TotalRecords,
				AnomalyCount: stat.AnomalyCount,
				Trend:        stat.Trend,
				YearlyDelta:  stat.YearlyDelta,
			}
		}
		hubs[hub] = stats
	}
	return dto.YearlyTrendOutput{
		MCCode:    trend.MCCode,
		HubFilter: trend.HubFilter,
		Hubs:      hubs,
		Stale:     meta.Stale,
		FetchedAt: meta.FetchedAt,
	}, nil
}

func (i *Interactor) Anomalies(ctx context.Context, mcCode, hubID string) (dto.AnomaliesOutput, error) {
	summary, meta, err := i.svc.Anomalies(ctx, mcCode, hubID)
	if err != nil {
		return dto.AnomaliesOutput{}, err
	}
	return dto.AnomaliesOutput{
		MCCode:    summary.MCCode,
		HubFilter: summary.HubFilter,
		Total:     summary.Total,
		Records:   toRecordOutputs(summary.Records),
		Message:   summary.Message,
		Stale:     meta.Stale,
		FetchedAt: meta.FetchedAt,
	}, nil
}

func (i *Interactor) Records(ctx context.Context, mcCode, hubID string) (dto.RecordsOutput, error) {
	records, meta, err := i.svc.Records(ctx, mcCode, hubID)
	if err != nil {
		return dto.RecordsOutput{}, err
	}
	return dto.RecordsOutput{
		MCCode:    records.MCCode,
		HubFilter: records.HubFilter,
		Total:     records.Total,
		Records:   records.Records,
		Stale:     meta.Stale,
		FetchedAt: meta.FetchedAt,
	}, nil
}

func (i *Interactor) Predict(ctx context.Context, mcCode string, input dto.PredictionInput) (dto.PredictionOutput, error) {
	prediction, err := i.svc.Predict(ctx, domain.PredictionInput{
		MCCode:            mcCode,
		HubID:             input.HubID,
		TemperatureMin:    input.TemperatureMin,
		TemperatureMax:    input.TemperatureMax,
		PHMin:             input.PHMin,
		PHMax:             input.PHMax,
		ConductivityMin:   input.ConductivityMin,
		ConductivityMax:   input.ConductivityMax,
		BODMin:            input.BODMin,
		BODMax:            input.BODMax,
		FaecalColiformMin: input.FaecalColiformMin,
		FaecalColiformMax: input.FaecalColiformMax,
		TotalColiformMin:  input.TotalColiformMin,
		TotalColiformMax:  input.TotalColiformMax,
		NitrateNMin:       input.NitrateNMin,
		NitrateNMax:       input.NitrateNMax,
	})
	if err != nil {
		return dto.PredictionOutput{}, err
	}
	return dto.PredictionOutput{
		HubID:             prediction.HubID,
		FinalWQI:          prediction.FinalWQI,
		Category:          prediction.Category,
		AnomalyStatus:     prediction.AnomalyStatus,
		Interpretation:    prediction.Interpretation,
		RecommendedAction: prediction.RecommendedAction,
		Summary:           prediction.Summary,
	}, nil
}

func (i *Interactor) HubImage(ctx context.Context, hubID string) ([]byte, error) {
	return i.svc.HubImage(ctx, hubID)
}

func toRecordOutputs(records []domain.QualityRecord) []dto.RecordOutput {
	out := make([]dto.RecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, dto.RecordOutput{
			HubID:         r.HubID,
			WQI:           r.WQI,
			AnomalyStatus: r.AnomalyStatus,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out
}
