package usecase

import (
	"context"

	"aquaview/internal/modules/distribution/domain"
	"aquaview/internal/modules/distribution/dto"
	distributionin "aquaview/internal/modules/distribution/port/in"
	"aquaview/internal/modules/distribution/service"
)

type Interactor struct {
	svc *service.DistributionService
}

func NewInteractor(svc *service.DistributionService) distributionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Trend(ctx context.Context, mcCode, hubID string) (dto.TrendOutput, error) {
	trend, meta, err := i.svc.Trend(ctx, mcCode, hubID)
	if err != nil {
		return dto.TrendOutput{}, err
	}
	hubs := make(map[string]dto.HubTrendOutput, len(trend.Hubs))
	for hub, t := range trend.Hubs {
		hubs[hub] = dto.HubTrendOutput{
			TotalRecords:      t.TotalRecords,
			AverageEfficiency: t.AverageEfficiency,
			CriticalCount:     t.CriticalCount,
			Records:           toRecordOutputs(t.Records),
		}
	}
	return dto.TrendOutput{
		MCCode:    trend.MCCode,
		HubFilter: trend.HubFilter,
		Hubs:      hubs,
		Message:   trend.Message,
		Stale:     meta.Stale,
		FetchedAt: meta.FetchedAt,
	}, nil
}

func (i *Interactor) YearlyTrend(ctx context.Context, mcCode, hubID string) (dto.YearlyTrendOutput, error) {
	trend, meta, err := i.svc.YearlyTrend(ctx, mcCode, hubID)
	if err != nil {
		return dto.YearlyTrendOutput{}, err
	}
	hubs := make(map[string]dto.HubYearlyOutput, len(trend.Hubs))
	for hub, yearly := range trend.Hubs {
		years := make(map[string]dto.YearStatOutput, len(yearly.Years))
		for year, stat := range yearly.Years {
			years[year] = dto.YearStatOutput{
				AverageEfficiency: stat.AverageEfficiency,
				CriticalCount:     stat.CriticalCount,
				Rolling3yrAvg:     stat.Rolling3yrAvg,
				YearlyDelta:       stat.YearlyDelta,
				Trend:             stat.Trend,
				PerformanceGrade:  stat.PerformanceGrade,
				VolatilityIndex:   stat.VolatilityIndex,
			}
		}
		hubs[hub] = dto.HubYearlyOutput{
			Years:         years,
			LongTermTrend: yearly.LongTermTrend,
			Commentary:    yearly.Commentary,
		}
	}
	return dto.YearlyTrendOutput{
		MCCode:    trend.MCCode,
		HubFilter: trend.HubFilter,
		Hubs:      hubs,
		Message:   trend.Message,
		Stale:     meta.Stale,
		FetchedAt: meta.FetchedAt,
	}, nil
}

func (i *Interactor) CriticalSummary(ctx context.Context, mcCode string) (dto.CriticalSummaryOutput, error) {
	summary, meta, err := i.svc.CriticalSummary(ctx, mcCode)
	if err != nil {
		return dto.CriticalSummaryOutput{}, err
	}
	return dto.CriticalSummaryOutput{
		MCCode:    summary.MCCode,
		Total:     summary.Total,
		Records:   toRecordOutputs(summary.Records),
		Message:   summary.Message,
		Stale:     meta.Stale,
		FetchedAt: meta.FetchedAt,
	}, nil
}

func (i *Interactor) Latest(ctx context.Context, mcCode string) (dto.LatestOutput, error) {
	latest, meta, err := i.svc.Latest(ctx, mcCode)
	if err != nil {
		return dto.LatestOutput{}, err
	}
	return dto.LatestOutput{
		MCCode:    latest.MCCode,
		Records:   toRecordOutputs(latest.Records),
		Message:   latest.Message,
		Stale:     meta.Stale,
		FetchedAt: meta.FetchedAt,
	}, nil
}

func (i *Interactor) Summary(ctx context.Context, mcCode string) (dto.SummaryOutput, error) {
	summary, meta, err := i.svc.Summary(ctx, mcCode)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	return dto.SummaryOutput{
		MCCode:            summary.MCCode,
		AverageEfficiency: summary.AverageEfficiency,
		TotalCriticalHubs: summary.TotalCriticalHubs,
		TotalRecords:      summary.TotalRecords,
		TotalDeficitMLD:   summary.TotalDeficitMLD,
		Message:           summary.Message,
		Stale:             meta.Stale,
		FetchedAt:         meta.FetchedAt,
	}, nil
}

func (i *Interactor) Forecast(ctx context.Context, mcCode string, input dto.ForecastInput) (dto.ForecastOutput, error) {
	forecast, err := i.svc.Forecast(ctx, domain.ForecastInput{
		MCCode:           mcCode,
		HubID:            input.HubID,
		TotalDemandMLD:   input.TotalDemandMLD,
		CurrentSupplyMLD: input.CurrentSupplyMLD,
		Population:       input.Population,
	})
	if err != nil {
		return dto.ForecastOutput{}, err
	}
	return dto.ForecastOutput{
		MCCode:            forecast.MCCode,
		HubID:             forecast.HubID,
		FinalEfficiency:   forecast.FinalEfficiency,
		PerformanceGrade:  forecast.PerformanceGrade,
		Status:            forecast.Status,
		CriticalRisk:      forecast.CriticalRisk,
		DeficitMLD:        forecast.DeficitMLD,
		PerCapitaLPCD:     forecast.PerCapitaLPCD,
		Interpretation:    forecast.Interpretation,
		Commentary:        forecast.Commentary,
		RecommendedAction: forecast.RecommendedAction,
		Summary:           forecast.Summary,
	}, nil
}

func toRecordOutputs(records []domain.Record) []dto.RecordOutput {
	out := make([]dto.RecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, dto.RecordOutput{
			HubID:             r.HubID,
			Efficiency:        r.Efficiency,
			CriticalRisk:      r.CriticalRisk,
			RecommendedAction: r.RecommendedAction,
			CreatedAt:         r.CreatedAt,
		})
	}
	return out
}
