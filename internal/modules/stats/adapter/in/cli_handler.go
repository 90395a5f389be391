package in

import (
	"context"

	"aquaview/internal/modules/stats/dto"
	statsin "aquaview/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) PublicOverview(ctx context.Context) (dto.PublicOverviewOutput, error) {
	return h.usecase.PublicOverview(ctx)
}

func (h CLIHandler) Overview(ctx context.Context) (dto.OverviewOutput, error) {
	return h.usecase.Overview(ctx)
}

func (h CLIHandler) StateTrends(ctx context.Context) (dto.StateTrendsOutput, error) {
	return h.usecase.StateTrends(ctx)
}

func (h CLIHandler) Dashboard(ctx context.Context, mcCode string) (dto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx, mcCode)
}
