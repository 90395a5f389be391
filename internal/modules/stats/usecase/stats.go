package usecase

import (
	"context"

	"aquaview/internal/modules/stats/dto"
	statsin "aquaview/internal/modules/stats/port/in"
	"aquaview/internal/modules/stats/service"
)

type Interactor struct {
	svc *service.StatsService
}

func NewInteractor(svc *service.StatsService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) PublicOverview(ctx context.Context) (dto.PublicOverviewOutput, error) {
	overview, err := i.svc.PublicOverview(ctx)
	if err != nil {
		return dto.PublicOverviewOutput{}, err
	}
	return dto.PublicOverviewOutput{
		TotalMunicipals:   overview.TotalMunicipals,
		TotalPopulation:   overview.TotalPopulation,
		AverageWQI:        overview.AverageWQI,
		AverageEfficiency: overview.AverageEfficiency,
		Message:           overview.Message,
	}, nil
}

func (i *Interactor) Overview(ctx context.Context) (dto.OverviewOutput, error) {
	overview, err := i.svc.Overview(ctx)
	if err != nil {
		return dto.OverviewOutput{}, err
	}
	return dto.OverviewOutput{
		TotalMunicipals:   overview.TotalMunicipals,
		TotalPopulation:   overview.TotalPopulation,
		AverageWQI:        overview.AverageWQI,
		AverageEfficiency: overview.AverageEfficiency,
		TotalAnomalies:    overview.TotalAnomalies,
		TotalCriticalHubs: overview.TotalCriticalHubs,
		LastUpdated:       overview.LastUpdated,
		RequestedBy:       overview.RequestedBy,
	}, nil
}

func (i *Interactor) StateTrends(ctx context.Context) (dto.StateTrendsOutput, error) {
	trends, err := i.svc.StateTrends(ctx)
	if err != nil {
		return dto.StateTrendsOutput{}, err
	}
	years := make([]dto.YearTrendOutput, 0, len(trends.Years))
	for _, y := range trends.Years {
		years = append(years, dto.YearTrendOutput{
			Year:          y.Year,
			AvgWQI:        y.AvgWQI,
			AvgEfficiency: y.AvgEfficiency,
		})
	}
	return dto.StateTrendsOutput{Years: years, RequestedBy: trends.RequestedBy}, nil
}

func (i *Interactor) Dashboard(ctx context.Context, mcCode string) (dto.DashboardOutput, error) {
	dashboard, err := i.svc.Dashboard(ctx, mcCode)
	if err != nil {
		return dto.DashboardOutput{}, err
	}
	hubs := make([]dto.ConnectedHubOutput, 0, len(dashboard.ConnectedHubs))
	for _, h := range dashboard.ConnectedHubs {
		hubs = append(hubs, dto.ConnectedHubOutput{ID: h.ID, Name: h.Name})
	}
	return dto.DashboardOutput{
		MunicipalInfo: dashboard.MunicipalInfo,
		ConnectedHubs: hubs,
		Message:       dashboard.Message,
	}, nil
}
